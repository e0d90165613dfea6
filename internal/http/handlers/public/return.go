package public

import (
	"strconv"

	"github.com/homeplus-shop/internal/http/response"
	"github.com/homeplus-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// ReturnItemRequest 退货项请求
type ReturnItemRequest struct {
	OrderItemID uint `json:"order_item_id" binding:"required"`
	Quantity    int  `json:"quantity" binding:"required"`
}

// CreateReturnRequest 创建退货申请请求
type CreateReturnRequest struct {
	Items  []ReturnItemRequest `json:"items" binding:"required"`
	Reason string              `json:"reason"`
}

// CreateReturn 为已送达订单发起退货申请
func (h *Handler) CreateReturn(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "error.order_id_invalid", nil)
		return
	}

	var req CreateReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	items := make([]service.ReturnItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.ReturnItemInput{
			OrderItemID: item.OrderItemID,
			Quantity:    item.Quantity,
		})
	}

	request, err := h.ReturnService.CreateReturn(service.CreateReturnInput{
		UserID:  uid,
		OrderID: uint(orderID),
		Items:   items,
		Reason:  req.Reason,
	})
	if err != nil {
		respondReturnCreateError(c, err)
		return
	}

	response.Success(c, request)
}

// ListOrderReturns 查询订单的退货申请
func (h *Handler) ListOrderReturns(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "error.order_id_invalid", nil)
		return
	}

	// 归属校验
	if _, err := h.OrderService.GetOrderByUser(uint(orderID), uid); err != nil {
		respondError(c, response.CodeNotFound, "error.order_not_found", nil)
		return
	}

	requests, err := h.ReturnService.ListReturnsByOrder(uint(orderID))
	if err != nil {
		respondError(c, response.CodeInternal, "error.return_fetch_failed", err)
		return
	}

	response.Success(c, requests)
}
