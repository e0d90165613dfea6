package public

import (
	"errors"
	"strconv"
	"strings"

	"github.com/homeplus-shop/internal/http/response"
	"github.com/homeplus-shop/internal/models"
	"github.com/homeplus-shop/internal/repository"
	"github.com/homeplus-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// OrderItemRequest 订单项请求
type OrderItemRequest struct {
	ProductID uint         `json:"product_id" binding:"required"`
	VariantID *uint        `json:"variant_id"`
	Quantity  int          `json:"quantity" binding:"required"`
	UnitPrice models.Money `json:"unit_price"`
}

// CreateOrderRequest 创建订单请求
type CreateOrderRequest struct {
	Items           []OrderItemRequest `json:"items" binding:"required"`
	Source          string             `json:"source"`
	PromoCode       string             `json:"promo_code"`
	PaymentMethod   string             `json:"payment_method"`
	ShippingAddress models.JSON        `json:"shipping_address"`
	LocationID      *uint              `json:"location_id"`
	ShippingCost    *models.Money      `json:"shipping_cost"`
}

// CreateGuestOrderRequest 游客创建订单请求
type CreateGuestOrderRequest struct {
	GuestName  string `json:"guest_name" binding:"required"`
	GuestPhone string `json:"guest_phone"`
	CreateOrderRequest
}

func buildOrderItems(items []OrderItemRequest) []service.CreateOrderItemInput {
	result := make([]service.CreateOrderItemInput, 0, len(items))
	for _, item := range items {
		result = append(result, service.CreateOrderItemInput{
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return result
}

// CreateOrder 创建订单
func (h *Handler) CreateOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	order, err := h.OrderService.CreateOrder(service.CreateOrderInput{
		UserID:          uid,
		Source:          req.Source,
		Items:           buildOrderItems(req.Items),
		PromoCode:       req.PromoCode,
		PaymentMethod:   req.PaymentMethod,
		ShippingAddress: req.ShippingAddress,
		LocationID:      req.LocationID,
		ManualShipping:  req.ShippingCost,
		ClientIP:        c.ClientIP(),
	})
	if err != nil {
		respondUserOrderCreateError(c, err)
		return
	}

	response.Success(c, order)
}

// CreateGuestOrder 游客创建订单
func (h *Handler) CreateGuestOrder(c *gin.Context) {
	var req CreateGuestOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	order, err := h.OrderService.CreateGuestOrder(service.CreateGuestOrderInput{
		GuestName:       req.GuestName,
		GuestPhone:      req.GuestPhone,
		Source:          req.Source,
		Items:           buildOrderItems(req.Items),
		PromoCode:       req.PromoCode,
		PaymentMethod:   req.PaymentMethod,
		ShippingAddress: req.ShippingAddress,
		LocationID:      req.LocationID,
		ManualShipping:  req.ShippingCost,
		ClientIP:        c.ClientIP(),
	})
	if err != nil {
		respondGuestOrderCreateError(c, err)
		return
	}

	response.Success(c, order)
}

// ListOrders 获取订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	status := strings.TrimSpace(c.Query("status"))
	orderNo := strings.TrimSpace(c.Query("order_no"))

	orders, total, err := h.OrderService.ListOrdersByUser(repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   uid,
		Status:   status,
		OrderNo:  orderNo,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
		return
	}

	pagination := response.BuildPagination(page, pageSize, total)
	response.SuccessWithPage(c, orders, pagination)
}

// GetOrder 获取订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "error.order_id_invalid", nil)
		return
	}

	order, err := h.OrderService.GetOrderByUser(uint(orderID), uid)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondError(c, response.CodeNotFound, "error.order_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
		return
	}

	response.Success(c, order)
}

// GetOrderByOrderNo 按订单号获取订单详情
func (h *Handler) GetOrderByOrderNo(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	orderNo := strings.TrimSpace(c.Param("order_no"))
	if orderNo == "" {
		respondError(c, response.CodeBadRequest, "error.order_no_invalid", nil)
		return
	}

	order, err := h.OrderService.GetOrderByUserOrderNo(orderNo, uid)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondError(c, response.CodeNotFound, "error.order_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
		return
	}

	response.Success(c, order)
}

// GetOrderHistory 获取订单状态历史
func (h *Handler) GetOrderHistory(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "error.order_id_invalid", nil)
		return
	}

	// 先做归属校验，避免跨用户读取历史
	if _, err := h.OrderService.GetOrderByUser(uint(orderID), uid); err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondError(c, response.CodeNotFound, "error.order_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
		return
	}

	histories, err := h.OrderService.GetOrderHistory(uint(orderID))
	if err != nil {
		respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
		return
	}

	response.Success(c, histories)
}
