package router

import (
	"fmt"
	"strings"

	"github.com/homeplus-shop/internal/cache"
	"github.com/homeplus-shop/internal/config"
	"github.com/homeplus-shop/internal/constants"
	adminhandlers "github.com/homeplus-shop/internal/http/handlers/admin"
	publichandlers "github.com/homeplus-shop/internal/http/handlers/public"
	"github.com/homeplus-shop/internal/logger"
	"github.com/homeplus-shop/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.Z()
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}

	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = constants.RedisPrefixDefault
	}
	redisClient := cache.Client()
	trackRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:track", redisPrefix),
		WindowSeconds: cfg.Security.TrackRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.TrackRateLimit.MaxRequests,
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/track/:tracking_no", RateLimitMiddleware(redisClient, trackRule, KeyByIP), publicHandler.TrackOrder)
			public.GET("/locations", publicHandler.GetDeliveryLocations)
		}

		// 游客接口
		guest := apiV1.Group("/guest")
		{
			guest.POST("/orders", publicHandler.CreateGuestOrder)
		}

		// 用户接口（身份由网关注入）
		user := apiV1.Group("")
		user.Use(IdentityMiddleware())
		{
			user.POST("/orders", publicHandler.CreateOrder)
			user.GET("/orders", publicHandler.ListOrders)
			user.GET("/orders/:id", publicHandler.GetOrder)
			user.GET("/orders/by-order-no/:order_no", publicHandler.GetOrderByOrderNo)
			user.GET("/orders/:id/history", publicHandler.GetOrderHistory)
			user.POST("/orders/:id/returns", publicHandler.CreateReturn)
			user.GET("/orders/:id/returns", publicHandler.ListOrderReturns)
		}

		// 管理接口（身份由网关注入）
		admin := apiV1.Group("/admin")
		admin.Use(AdminIdentityMiddleware())
		{
			admin.GET("/orders", adminHandler.AdminListOrders)
			admin.POST("/orders", adminHandler.AdminCreateOrder)
			admin.GET("/orders/:id", adminHandler.AdminGetOrder)
			admin.PUT("/orders/:id/status", adminHandler.AdminUpdateOrderStatus)
			admin.DELETE("/orders/:id", adminHandler.AdminDeleteOrder)
			admin.POST("/orders/bulk-status", adminHandler.AdminBulkUpdateOrderStatus)
			admin.POST("/orders/bulk-delete", adminHandler.AdminBulkDeleteOrders)
			admin.GET("/returns", adminHandler.AdminListReturns)
			admin.GET("/returns/:id", adminHandler.AdminGetReturn)
			admin.POST("/returns/:id/process", adminHandler.AdminProcessReturn)
			admin.GET("/locations", adminHandler.AdminListLocations)
		}
	}

	return r
}
