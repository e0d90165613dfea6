package service

import (
	"strings"
	"time"

	"github.com/homeplus-shop/internal/config"
	"github.com/homeplus-shop/internal/constants"
	"github.com/homeplus-shop/internal/logger"
	"github.com/homeplus-shop/internal/models"
	"github.com/homeplus-shop/internal/queue"
	"github.com/homeplus-shop/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderService 订单服务
type OrderService struct {
	orderRepo    repository.OrderRepository
	historyRepo  repository.OrderStatusHistoryRepository
	productRepo  repository.ProductRepository
	variantRepo  repository.ProductVariantRepository
	locationRepo repository.DeliveryLocationRepository
	stockService *StockService
	promoService *PromoService
	numberGen    *NumberGenerator
	queueClient  *queue.Client
	orderCfg     config.OrderConfig
}

// NewOrderService 创建订单服务
func NewOrderService(
	orderRepo repository.OrderRepository,
	historyRepo repository.OrderStatusHistoryRepository,
	productRepo repository.ProductRepository,
	variantRepo repository.ProductVariantRepository,
	locationRepo repository.DeliveryLocationRepository,
	stockService *StockService,
	promoService *PromoService,
	numberGen *NumberGenerator,
	queueClient *queue.Client,
	orderCfg config.OrderConfig,
) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		historyRepo:  historyRepo,
		productRepo:  productRepo,
		variantRepo:  variantRepo,
		locationRepo: locationRepo,
		stockService: stockService,
		promoService: promoService,
		numberGen:    numberGen,
		queueClient:  queueClient,
		orderCfg:     orderCfg,
	}
}

// CreateOrderItemInput 创建订单项输入。
// 单价由调用层传入并直接采信，核心不回查目录价格。
type CreateOrderItemInput struct {
	ProductID uint
	VariantID *uint
	Quantity  int
	UnitPrice models.Money
}

// CreateOrderInput 注册用户创建订单输入
type CreateOrderInput struct {
	UserID          uint
	Source          string
	Items           []CreateOrderItemInput
	PromoCode       string
	PaymentMethod   string
	ShippingAddress models.JSON
	LocationID      *uint
	ManualShipping  *models.Money
	ClientIP        string
}

// CreateGuestOrderInput 游客创建订单输入
type CreateGuestOrderInput struct {
	GuestName       string
	GuestPhone      string
	Source          string
	Items           []CreateOrderItemInput
	PromoCode       string
	PaymentMethod   string
	ShippingAddress models.JSON
	LocationID      *uint
	ManualShipping  *models.Money
	ClientIP        string
}

type orderCreateParams struct {
	UserID          uint
	GuestName       string
	GuestPhone      string
	Source          string
	Items           []CreateOrderItemInput
	PromoCode       string
	PaymentMethod   string
	ShippingAddress models.JSON
	LocationID      *uint
	ManualShipping  *models.Money
	ClientIP        string
	IsGuest         bool
	Actor           Actor
}

// Actor 状态历史中的操作者
type Actor struct {
	Type string
	ID   uint
	Name string
}

// SystemActor 系统操作者
func SystemActor() Actor {
	return Actor{Type: constants.ActorTypeSystem}
}

// CreateOrder 注册用户创建订单
func (s *OrderService) CreateOrder(input CreateOrderInput) (*models.Order, error) {
	if input.UserID == 0 {
		return nil, ErrInvalidOrderItem
	}
	return s.createOrder(orderCreateParams{
		UserID:          input.UserID,
		Source:          input.Source,
		Items:           input.Items,
		PromoCode:       input.PromoCode,
		PaymentMethod:   input.PaymentMethod,
		ShippingAddress: input.ShippingAddress,
		LocationID:      input.LocationID,
		ManualShipping:  input.ManualShipping,
		ClientIP:        input.ClientIP,
		Actor:           Actor{Type: constants.ActorTypeUser, ID: input.UserID},
	})
}

// CreateGuestOrder 游客创建订单，姓名与手机号必填
func (s *OrderService) CreateGuestOrder(input CreateGuestOrderInput) (*models.Order, error) {
	name := strings.TrimSpace(input.GuestName)
	phone := strings.TrimSpace(input.GuestPhone)
	if name == "" || phone == "" {
		return nil, ErrMissingGuestContact
	}
	return s.createOrder(orderCreateParams{
		GuestName:       name,
		GuestPhone:      phone,
		Source:          input.Source,
		Items:           input.Items,
		PromoCode:       input.PromoCode,
		PaymentMethod:   input.PaymentMethod,
		ShippingAddress: input.ShippingAddress,
		LocationID:      input.LocationID,
		ManualShipping:  input.ManualShipping,
		ClientIP:        input.ClientIP,
		IsGuest:         true,
		Actor:           Actor{Type: constants.ActorTypeUser, Name: name},
	})
}

// CreateAdminOrderInput 管理端录单输入。
// user_id 为 0 时按游客订单处理，需提供姓名与手机号。
type CreateAdminOrderInput struct {
	AdminID         uint
	UserID          uint
	GuestName       string
	GuestPhone      string
	Items           []CreateOrderItemInput
	PromoCode       string
	PaymentMethod   string
	ShippingAddress models.JSON
	LocationID      *uint
	ManualShipping  *models.Money
	ClientIP        string
}

// CreateAdminOrder 管理端录单，来源固定为 admin 渠道
func (s *OrderService) CreateAdminOrder(input CreateAdminOrderInput) (*models.Order, error) {
	params := orderCreateParams{
		UserID:          input.UserID,
		Source:          constants.OrderSourceAdmin,
		Items:           input.Items,
		PromoCode:       input.PromoCode,
		PaymentMethod:   input.PaymentMethod,
		ShippingAddress: input.ShippingAddress,
		LocationID:      input.LocationID,
		ManualShipping:  input.ManualShipping,
		ClientIP:        input.ClientIP,
		Actor:           Actor{Type: constants.ActorTypeAdmin, ID: input.AdminID},
	}
	if input.UserID == 0 {
		name := strings.TrimSpace(input.GuestName)
		phone := strings.TrimSpace(input.GuestPhone)
		if name == "" || phone == "" {
			return nil, ErrMissingGuestContact
		}
		params.GuestName = name
		params.GuestPhone = phone
		params.IsGuest = true
	}
	return s.createOrder(params)
}

type orderBuildResult struct {
	Items          []models.OrderItem
	StockLines     []StockLine
	Subtotal       decimal.Decimal
	ShippingCost   decimal.Decimal
	DiscountAmount decimal.Decimal
	TotalAmount    decimal.Decimal
	AppliedPromo   *models.PromoCode
}

func (s *OrderService) createOrder(input orderCreateParams) (*models.Order, error) {
	source := strings.TrimSpace(input.Source)
	if source == "" {
		source = constants.OrderSourceWeb
	}
	if _, ok := sourcePrefixes[source]; !ok {
		return nil, ErrOrderSourceInvalid
	}

	result, err := s.buildOrderResult(input)
	if err != nil {
		return nil, err
	}

	orderNo, err := s.numberGen.GenerateOrderNo(source)
	if err != nil {
		return nil, err
	}
	trackingNo, err := s.numberGen.GenerateTrackingNo()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	order := &models.Order{
		OrderNo:         orderNo,
		UserID:          input.UserID,
		GuestName:       input.GuestName,
		GuestPhone:      input.GuestPhone,
		Source:          source,
		Status:          constants.OrderStatusPending,
		Subtotal:        models.NewMoneyFromDecimal(result.Subtotal),
		ShippingCost:    models.NewMoneyFromDecimal(result.ShippingCost),
		DiscountAmount:  models.NewMoneyFromDecimal(result.DiscountAmount),
		TotalAmount:     models.NewMoneyFromDecimal(result.TotalAmount),
		PaymentMethod:   strings.TrimSpace(input.PaymentMethod),
		TrackingNo:      trackingNo,
		ShippingAddress: input.ShippingAddress,
		LocationID:      input.LocationID,
		ClientIP:        strings.TrimSpace(input.ClientIP),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if result.AppliedPromo != nil {
		order.PromoCodeID = &result.AppliedPromo.ID
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		historyRepo := s.historyRepo.WithTx(tx)

		if err := orderRepo.Create(order, result.Items); err != nil {
			return err
		}
		history := &models.OrderStatusHistory{
			OrderID:   order.ID,
			Status:    constants.OrderStatusPending,
			ActorType: input.Actor.Type,
			ActorID:   input.Actor.ID,
			ActorName: input.Actor.Name,
			CreatedAt: now,
		}
		if err := historyRepo.Append(history); err != nil {
			return err
		}
		return s.stockService.ReserveAndDecrement(tx, result.StockLines)
	})
	if err != nil {
		return nil, err
	}

	// 事务提交后的次级效应，失败只记日志
	if result.AppliedPromo != nil && s.promoService != nil {
		discount := models.NewMoneyFromDecimal(result.DiscountAmount)
		if err := s.promoService.RecordUsage(result.AppliedPromo, order, discount); err != nil {
			logger.Warnw("order_promo_usage_record_failed",
				"order_id", order.ID,
				"promo_code_id", result.AppliedPromo.ID,
				"error", err,
			)
		}
	}
	s.enqueueStatusNotify(order)

	return order, nil
}

func (s *OrderService) buildOrderResult(input orderCreateParams) (*orderBuildResult, error) {
	if len(input.Items) == 0 {
		return nil, ErrInvalidOrderItem
	}

	productIDs := make([]uint, 0, len(input.Items))
	variantIDs := make([]uint, 0, len(input.Items))
	for _, item := range input.Items {
		if item.ProductID == 0 || item.Quantity <= 0 {
			return nil, ErrInvalidOrderItem
		}
		if item.UnitPrice.Decimal.LessThan(decimal.Zero) {
			return nil, ErrInvalidOrderItem
		}
		productIDs = append(productIDs, item.ProductID)
		if item.VariantID != nil && *item.VariantID != 0 {
			variantIDs = append(variantIDs, *item.VariantID)
		}
	}

	products, err := s.productRepo.ListByIDs(productIDs)
	if err != nil {
		return nil, err
	}
	productMap := make(map[uint]*models.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}

	variants, err := s.variantRepo.ListByIDs(variantIDs)
	if err != nil {
		return nil, err
	}
	variantMap := make(map[uint]*models.ProductVariant, len(variants))
	for i := range variants {
		variantMap[variants[i].ID] = &variants[i]
	}

	stockLines := make([]StockLine, 0, len(input.Items))
	orderItems := make([]models.OrderItem, 0, len(input.Items))
	promoItems := make([]PromoItem, 0, len(input.Items))
	subtotal := decimal.Zero
	for _, item := range input.Items {
		product, ok := productMap[item.ProductID]
		if !ok {
			return nil, ErrProductNotFound
		}
		if !product.IsActive {
			return nil, ErrProductNotAvailable
		}
		variantName := ""
		if item.VariantID != nil && *item.VariantID != 0 {
			variant, ok := variantMap[*item.VariantID]
			if !ok || variant.ProductID != item.ProductID {
				return nil, ErrVariantNotFound
			}
			variantName = variant.VariantCode
		}

		lineTotal := item.UnitPrice.Decimal.Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(lineTotal)

		orderItems = append(orderItems, models.OrderItem{
			ProductID:   item.ProductID,
			VariantID:   item.VariantID,
			ProductName: product.Name,
			VariantName: variantName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			LineTotal:   models.NewMoneyFromDecimal(lineTotal),
		})
		stockLines = append(stockLines, StockLine{VariantID: item.VariantID, Quantity: item.Quantity})
		promoItems = append(promoItems, PromoItem{
			ProductID:  item.ProductID,
			CategoryID: product.CategoryID,
			LineTotal:  models.NewMoneyFromDecimal(lineTotal),
		})
	}

	if err := s.stockService.CheckAvailability(stockLines); err != nil {
		return nil, err
	}

	discount := decimal.Zero
	var appliedPromo *models.PromoCode
	if strings.TrimSpace(input.PromoCode) != "" {
		if s.promoService == nil {
			return nil, ErrPromoInvalid
		}
		discountMoney, promo, err := s.promoService.Validate(input.PromoCode, input.UserID, promoItems)
		if err != nil {
			return nil, err
		}
		discount = discountMoney.Decimal
		appliedPromo = promo
	}

	shipping, err := s.resolveShippingCost(subtotal, input.LocationID, input.ManualShipping)
	if err != nil {
		return nil, err
	}

	total := subtotal.Sub(discount).Add(shipping)
	if total.LessThan(decimal.Zero) {
		total = decimal.Zero
	}

	return &orderBuildResult{
		Items:          orderItems,
		StockLines:     stockLines,
		Subtotal:       subtotal,
		ShippingCost:   shipping,
		DiscountAmount: discount,
		TotalAmount:    total,
		AppliedPromo:   appliedPromo,
	}, nil
}

// resolveShippingCost 运费解析优先级：手工价 >= 0 > 配送区域价 > 默认运费。
// 满额免运费只作用于区域价与默认运费，手工价不受阈值影响。
func (s *OrderService) resolveShippingCost(subtotal decimal.Decimal, locationID *uint, manual *models.Money) (decimal.Decimal, error) {
	if manual != nil && manual.Decimal.GreaterThanOrEqual(decimal.Zero) {
		return manual.Decimal, nil
	}

	threshold := decimal.NewFromFloat(s.orderCfg.FreeShippingThreshold)
	freeShipping := threshold.GreaterThan(decimal.Zero) && subtotal.GreaterThanOrEqual(threshold)

	if locationID != nil && *locationID != 0 {
		location, err := s.locationRepo.GetByID(*locationID)
		if err != nil {
			return decimal.Zero, err
		}
		if location == nil || !location.IsActive {
			return decimal.Zero, ErrDeliveryLocationInvalid
		}
		if freeShipping {
			return decimal.Zero, nil
		}
		return location.Price.Decimal, nil
	}

	if freeShipping {
		return decimal.Zero, nil
	}
	return decimal.NewFromFloat(s.orderCfg.DefaultShippingCost), nil
}

func (s *OrderService) enqueueStatusNotify(order *models.Order) {
	if s.queueClient == nil || !s.queueClient.Enabled() || order == nil {
		return
	}
	payload := queue.OrderNotifyStatusPayload{
		OrderID:    order.ID,
		OrderNo:    order.OrderNo,
		Status:     order.Status,
		TrackingNo: order.TrackingNo,
	}
	if err := s.queueClient.EnqueueOrderNotifyStatus(payload); err != nil {
		logger.Warnw("order_enqueue_status_notify_failed",
			"order_id", order.ID,
			"status", order.Status,
			"error", err,
		)
	}
}

// GetOrderByUser 用户查询自己的订单
func (s *OrderService) GetOrderByUser(orderID uint, userID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// GetOrderByUserOrderNo 用户按订单编号查询
func (s *OrderService) GetOrderByUserOrderNo(orderNo string, userID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByOrderNo(strings.TrimSpace(orderNo))
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil || order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListOrdersByUser 用户订单列表
func (s *OrderService) ListOrdersByUser(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	if filter.UserID == 0 {
		return nil, 0, ErrOrderNotFound
	}
	return s.orderRepo.ListByUser(filter)
}

// ListOrdersForAdmin 管理端订单列表
func (s *OrderService) ListOrdersForAdmin(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.ListAdmin(filter)
}

// GetOrderForAdmin 管理端订单详情
func (s *OrderService) GetOrderForAdmin(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// GetOrderHistory 查询订单状态历史
func (s *OrderService) GetOrderHistory(orderID uint) ([]models.OrderStatusHistory, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return s.historyRepo.ListByOrder(orderID)
}
