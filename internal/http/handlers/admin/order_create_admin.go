package admin

import (
	"errors"

	"github.com/homeplus-shop/internal/http/response"
	"github.com/homeplus-shop/internal/models"
	"github.com/homeplus-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminOrderItemRequest 管理端录单订单项
type AdminOrderItemRequest struct {
	ProductID uint         `json:"product_id" binding:"required"`
	VariantID *uint        `json:"variant_id"`
	Quantity  int          `json:"quantity" binding:"required"`
	UnitPrice models.Money `json:"unit_price"`
}

// AdminCreateOrderRequest 管理端录单请求
type AdminCreateOrderRequest struct {
	UserID          uint                    `json:"user_id"`
	GuestName       string                  `json:"guest_name"`
	GuestPhone      string                  `json:"guest_phone"`
	Items           []AdminOrderItemRequest `json:"items" binding:"required"`
	PromoCode       string                  `json:"promo_code"`
	PaymentMethod   string                  `json:"payment_method"`
	ShippingAddress models.JSON             `json:"shipping_address"`
	LocationID      *uint                   `json:"location_id"`
	ShippingCost    *models.Money           `json:"shipping_cost"`
}

var adminOrderCreateErrorRules = []struct {
	target error
	code   int
	msg    string
}{
	{target: service.ErrInvalidOrderItem, code: response.CodeBadRequest, msg: "error.order_item_invalid"},
	{target: service.ErrMissingGuestContact, code: response.CodeBadRequest, msg: "error.guest_contact_required"},
	{target: service.ErrProductNotFound, code: response.CodeBadRequest, msg: "error.product_not_found"},
	{target: service.ErrProductNotAvailable, code: response.CodeBadRequest, msg: "error.product_not_available"},
	{target: service.ErrVariantNotFound, code: response.CodeBadRequest, msg: "error.variant_not_found"},
	{target: service.ErrInsufficientStock, code: response.CodeBadRequest, msg: "error.insufficient_stock"},
	{target: service.ErrDeliveryLocationInvalid, code: response.CodeBadRequest, msg: "error.delivery_location_invalid"},
	{target: service.ErrPromoInvalid, code: response.CodeBadRequest, msg: "error.promo_invalid"},
	{target: service.ErrPromoNotFound, code: response.CodeBadRequest, msg: "error.promo_not_found"},
	{target: service.ErrPromoInactive, code: response.CodeBadRequest, msg: "error.promo_inactive"},
	{target: service.ErrPromoNotStarted, code: response.CodeBadRequest, msg: "error.promo_not_started"},
	{target: service.ErrPromoExpired, code: response.CodeBadRequest, msg: "error.promo_expired"},
	{target: service.ErrPromoUsageLimit, code: response.CodeBadRequest, msg: "error.promo_usage_limit"},
	{target: service.ErrPromoPerUserLimit, code: response.CodeBadRequest, msg: "error.promo_per_user_limit"},
	{target: service.ErrPromoMinAmount, code: response.CodeBadRequest, msg: "error.promo_min_amount"},
	{target: service.ErrPromoScopeInvalid, code: response.CodeBadRequest, msg: "error.promo_scope_invalid"},
}

func respondAdminOrderCreateError(c *gin.Context, err error) {
	for _, rule := range adminOrderCreateErrorRules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, response.CodeInternal, "error.order_create_failed", err)
}

// AdminCreateOrder 管理端录单，支持代注册用户或游客下单。
func (h *Handler) AdminCreateOrder(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}

	var req AdminCreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	items := make([]service.CreateOrderItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.CreateOrderItemInput{
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	order, err := h.OrderService.CreateAdminOrder(service.CreateAdminOrderInput{
		AdminID:         adminID,
		UserID:          req.UserID,
		GuestName:       req.GuestName,
		GuestPhone:      req.GuestPhone,
		Items:           items,
		PromoCode:       req.PromoCode,
		PaymentMethod:   req.PaymentMethod,
		ShippingAddress: req.ShippingAddress,
		LocationID:      req.LocationID,
		ManualShipping:  req.ShippingCost,
		ClientIP:        c.ClientIP(),
	})
	if err != nil {
		respondAdminOrderCreateError(c, err)
		return
	}

	response.Success(c, order)
}
