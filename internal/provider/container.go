package provider

import (
	"github.com/homeplus-shop/internal/cache"
	"github.com/homeplus-shop/internal/config"
	"github.com/homeplus-shop/internal/logger"
	"github.com/homeplus-shop/internal/models"
	"github.com/homeplus-shop/internal/queue"
	"github.com/homeplus-shop/internal/repository"
	"github.com/homeplus-shop/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	UserRepo       repository.UserRepository
	OrderRepo      repository.OrderRepository
	HistoryRepo    repository.OrderStatusHistoryRepository
	ProductRepo    repository.ProductRepository
	VariantRepo    repository.ProductVariantRepository
	LocationRepo   repository.DeliveryLocationRepository
	PromoRepo      repository.PromoCodeRepository
	PromoUsageRepo repository.PromoCodeUsageRepository
	ReturnRepo     repository.ReturnRepository
	RefundRepo     repository.RefundRepository

	// Services
	NumberGenerator     *service.NumberGenerator
	StockService        *service.StockService
	PromoService        *service.PromoService
	OrderService        *service.OrderService
	OrderStatusService  *service.OrderStatusService
	ReturnService       *service.ReturnService
	TrackingService     *service.TrackingService
	LoyaltyService      *service.LoyaltyService
	NotificationService *service.NotificationService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.HistoryRepo = repository.NewOrderStatusHistoryRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.VariantRepo = repository.NewProductVariantRepository(db)
	c.LocationRepo = repository.NewDeliveryLocationRepository(db)
	c.PromoRepo = repository.NewPromoCodeRepository(db)
	c.PromoUsageRepo = repository.NewPromoCodeUsageRepository(db)
	c.ReturnRepo = repository.NewReturnRepository(db)
	c.RefundRepo = repository.NewRefundRepository(db)
}

func (c *Container) initServices() {
	c.NumberGenerator = service.NewNumberGenerator(
		c.OrderRepo.ExistsOrderNo,
		c.OrderRepo.ExistsTrackingNo,
		c.ReturnRepo.ExistsReturnNo,
	)
	c.StockService = service.NewStockService(c.VariantRepo)
	c.PromoService = service.NewPromoService(c.PromoRepo, c.PromoUsageRepo)
	c.OrderService = service.NewOrderService(
		c.OrderRepo,
		c.HistoryRepo,
		c.ProductRepo,
		c.VariantRepo,
		c.LocationRepo,
		c.StockService,
		c.PromoService,
		c.NumberGenerator,
		c.QueueClient,
		c.Config.Order,
	)
	c.OrderStatusService = service.NewOrderStatusService(
		c.OrderRepo,
		c.HistoryRepo,
		c.ReturnRepo,
		c.StockService,
		c.NumberGenerator,
		c.QueueClient,
		c.Config.Order.StatusPolicy,
	)
	c.ReturnService = service.NewReturnService(
		c.ReturnRepo,
		c.OrderRepo,
		c.RefundRepo,
		c.StockService,
		c.OrderStatusService,
		c.NumberGenerator,
	)
	c.TrackingService = service.NewTrackingService(c.OrderRepo)
	c.LoyaltyService = service.NewLoyaltyService(c.OrderRepo, c.UserRepo, c.Config.Order.LoyaltyEarnRate)
	c.NotificationService = service.NewNotificationService(service.LogSink{}, c.Config.Order.NotifyTimeoutSeconds)
}
