package main

import (
	"time"

	"github.com/homeplus-shop/internal/config"
	"github.com/homeplus-shop/internal/logger"
	"github.com/homeplus-shop/internal/models"

	"github.com/shopspring/decimal"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 添加商品与规格
	products := []models.Product{
		{
			Slug:        "ceramic-dinner-set",
			Name:        "陶瓷餐具套装",
			Description: "18 件套陶瓷餐具，适合四口之家日常使用",
			CategoryID:  1,
			PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(1200)),
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1578500494198-246f612d3b3d?w=800",
			}),
			Tags:     models.StringArray([]string{"Kitchen", "Ceramic"}),
			IsActive: true,
			Variants: []models.ProductVariant{
				{VariantCode: "white-18pc", SpecJSON: models.JSON{"color": "白色", "pieces": 18}, PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(1200)), Stock: 50, IsActive: true},
				{VariantCode: "blue-18pc", SpecJSON: models.JSON{"color": "蓝色", "pieces": 18}, PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(1350)), Stock: 30, IsActive: true},
			},
		},
		{
			Slug:        "memory-foam-pillow",
			Name:        "记忆棉枕头",
			Description: "慢回弹记忆棉，人体工学曲线设计",
			CategoryID:  2,
			PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(450)),
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1584100936595-c0654b55a2e2?w=800",
			}),
			Tags:     models.StringArray([]string{"Bedroom", "Comfort"}),
			IsActive: true,
			Variants: []models.ProductVariant{
				{VariantCode: "standard", SpecJSON: models.JSON{"size": "标准"}, PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(450)), Stock: 100, IsActive: true},
				{VariantCode: "large", SpecJSON: models.JSON{"size": "加大"}, PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(520)), Stock: 60, IsActive: true},
			},
		},
		{
			Slug:        "stainless-cookware",
			Name:        "不锈钢炒锅",
			Description: "304 不锈钢，无涂层，燃气电磁炉通用",
			CategoryID:  1,
			PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(880)),
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1584990347449-a2d4c2c044c2?w=800",
			}),
			Tags:     models.StringArray([]string{"Kitchen", "Cookware"}),
			IsActive: true,
			Variants: []models.ProductVariant{
				{VariantCode: "30cm", SpecJSON: models.JSON{"diameter": "30cm"}, PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(880)), Stock: 40, IsActive: true},
			},
		},
	}

	for i := range products {
		product := &products[i]
		var existing models.Product
		if err := models.DB.Where("slug = ?", product.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(product).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", product.Slug, err)
			} else {
				stdLog.Printf("Created product: %s", product.Slug)
			}
		} else {
			stdLog.Printf("Product already exists: %s", product.Slug)
		}
	}

	// 添加配送区域
	locations := []models.DeliveryLocation{
		{Name: "市区", Price: models.NewMoneyFromDecimal(decimal.NewFromInt(100)), IsActive: true, SortOrder: 30},
		{Name: "近郊", Price: models.NewMoneyFromDecimal(decimal.NewFromInt(200)), IsActive: true, SortOrder: 20},
		{Name: "远郊", Price: models.NewMoneyFromDecimal(decimal.NewFromInt(350)), IsActive: true, SortOrder: 10},
	}
	for _, location := range locations {
		var existing models.DeliveryLocation
		if err := models.DB.Where("name = ?", location.Name).First(&existing).Error; err != nil {
			if err := models.DB.Create(&location).Error; err != nil {
				stdLog.Printf("Failed to create location %s: %v", location.Name, err)
			} else {
				stdLog.Printf("Created location: %s", location.Name)
			}
		} else {
			stdLog.Printf("Location already exists: %s", location.Name)
		}
	}

	// 添加优惠码
	expires := time.Now().AddDate(0, 3, 0)
	promos := []models.PromoCode{
		{
			Code:      "WELCOME100",
			Type:      "fixed",
			Value:     models.NewMoneyFromDecimal(decimal.NewFromInt(100)),
			MinAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(500)),
			MaxUses:   1000,
			ExpiresAt: &expires,
			IsActive:  true,
		},
		{
			Code:        "KITCHEN10",
			Type:        "percent",
			Value:       models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
			MaxUsesUser: 2,
			CategoryIDs: models.StringArray([]string{"1"}),
			ExpiresAt:   &expires,
			IsActive:    true,
		},
	}
	for _, promo := range promos {
		var existing models.PromoCode
		if err := models.DB.Where("code = ?", promo.Code).First(&existing).Error; err != nil {
			if err := models.DB.Create(&promo).Error; err != nil {
				stdLog.Printf("Failed to create promo %s: %v", promo.Code, err)
			} else {
				stdLog.Printf("Created promo: %s", promo.Code)
			}
		} else {
			stdLog.Printf("Promo already exists: %s", promo.Code)
		}
	}

	// 添加演示用户
	users := []models.User{
		{Email: "demo@homeplus.test", DisplayName: "Demo User", Phone: "13800000001"},
		{Email: "vip@homeplus.test", DisplayName: "VIP User", Phone: "13800000002"},
	}
	for _, user := range users {
		var existing models.User
		if err := models.DB.Where("email = ?", user.Email).First(&existing).Error; err != nil {
			if err := models.DB.Create(&user).Error; err != nil {
				stdLog.Printf("Failed to create user %s: %v", user.Email, err)
			} else {
				stdLog.Printf("Created user: %s", user.Email)
			}
		} else {
			stdLog.Printf("User already exists: %s", user.Email)
		}
	}

	stdLog.Println("Seed data completed")
}
