package admin

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

// AdminOrderListItem 管理端订单列表返回
type AdminOrderListItem struct {
	models.Order
	UserEmail       string `json:"user_email,omitempty"`
	UserDisplayName string `json:"user_display_name,omitempty"`
}

// AdminOrderDetail 管理端订单详情返回
type AdminOrderDetail struct {
	models.Order
	UserEmail       string                      `json:"user_email,omitempty"`
	UserDisplayName string                      `json:"user_display_name,omitempty"`
	PromoCode       string                      `json:"promo_code,omitempty"`
	Returns         []models.ReturnRequest      `json:"returns,omitempty"`
	History         []models.OrderStatusHistory `json:"history,omitempty"`
}

// AdminListOrders 管理端订单列表
func (h *Handler) AdminListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	status := strings.TrimSpace(c.Query("status"))
	source := strings.TrimSpace(c.Query("source"))
	userIDStr := strings.TrimSpace(c.Query("user_id"))
	orderNo := strings.TrimSpace(c.Query("order_no"))
	guestPhone := strings.TrimSpace(c.Query("guest_phone"))
	trackingNo := strings.TrimSpace(c.Query("tracking_no"))
	createdFromRaw := strings.TrimSpace(c.Query("created_from"))
	createdToRaw := strings.TrimSpace(c.Query("created_to"))

	createdFrom, err := parseTimeNullable(createdFromRaw)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	createdTo, err := parseTimeNullable(createdToRaw)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	var userID uint
	if userIDStr != "" {
		if parsed, err := strconv.ParseUint(userIDStr, 10, 64); err == nil {
			userID = uint(parsed)
		}
	}

	orders, total, err := h.OrderService.ListOrdersForAdmin(repository.OrderListFilter{
		Page:        page,
		PageSize:    pageSize,
		UserID:      userID,
		Status:      status,
		Source:      source,
		OrderNo:     orderNo,
		GuestPhone:  guestPhone,
		TrackingNo:  trackingNo,
		CreatedFrom: createdFrom,
		CreatedTo:   createdTo,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
		return
	}

	userMap := map[uint]models.User{}
	userIDs := make([]uint, 0, len(orders))
	seen := map[uint]struct{}{}
	for _, order := range orders {
		if order.UserID == 0 {
			continue
		}
		if _, ok := seen[order.UserID]; ok {
			continue
		}
		seen[order.UserID] = struct{}{}
		userIDs = append(userIDs, order.UserID)
	}
	if len(userIDs) > 0 {
		users, err := h.UserRepo.ListByIDs(userIDs)
		if err != nil {
			respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
			return
		}
		for _, user := range users {
			userMap[user.ID] = user
		}
	}

	items := make([]AdminOrderListItem, 0, len(orders))
	for _, order := range orders {
		var email, displayName string
		if user, ok := userMap[order.UserID]; ok {
			email = user.Email
			displayName = user.DisplayName
		}
		items = append(items, AdminOrderListItem{
			Order:           order,
			UserEmail:       email,
			UserDisplayName: displayName,
		})
	}

	pagination := response.BuildPagination(page, pageSize, total)
	response.SuccessWithPage(c, items, pagination)
}

// AdminGetOrder 管理端订单详情
func (h *Handler) AdminGetOrder(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "error.order_id_invalid", nil)
		return
	}

	order, err := h.OrderService.GetOrderForAdmin(uint(orderID))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			respondError(c, response.CodeNotFound, "error.order_not_found", nil)
		default:
			respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
		}
		return
	}

	var email, displayName string
	if order.UserID != 0 {
		user, err := h.UserRepo.GetByID(order.UserID)
		if err != nil {
			respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
			return
		}
		if user != nil {
			email = user.Email
			displayName = user.DisplayName
		}
	}

	var promoCode string
	if order.PromoCodeID != nil && *order.PromoCodeID > 0 {
		promo, err := h.PromoRepo.GetByID(*order.PromoCodeID)
		if err != nil {
			respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
			return
		}
		if promo != nil {
			promoCode = promo.Code
		}
	}

	returns, err := h.ReturnService.ListReturnsByOrder(order.ID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
		return
	}

	histories, err := h.OrderService.GetOrderHistory(order.ID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
		return
	}

	response.Success(c, AdminOrderDetail{
		Order:           *order,
		UserEmail:       email,
		UserDisplayName: displayName,
		PromoCode:       promoCode,
		Returns:         returns,
		History:         histories,
	})
}

// AdminUpdateOrderStatusRequest 管理端更新订单状态请求
type AdminUpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

// AdminUpdateOrderStatus 管理端更新订单状态
func (h *Handler) AdminUpdateOrderStatus(c *gin.Context) {
	actor, ok := adminActor(c)
	if !ok {
		return
	}

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "error.order_id_invalid", nil)
		return
	}

	var req AdminUpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	order, err := h.OrderStatusService.Transition(uint(orderID), req.Status, req.Notes, actor)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			respondError(c, response.CodeNotFound, "error.order_not_found", nil)
		case errors.Is(err, service.ErrOrderStatusUnknown):
			respondError(c, response.CodeBadRequest, "error.order_status_unknown", nil)
		case errors.Is(err, service.ErrOrderStatusInvalid):
			respondError(c, response.CodeBadRequest, "error.order_status_invalid", nil)
		default:
			respondError(c, response.CodeInternal, "error.order_update_failed", err)
		}
		return
	}

	response.Success(c, order)
}

// AdminBulkOrderStatusRequest 批量更新订单状态请求
type AdminBulkOrderStatusRequest struct {
	OrderIDs []uint `json:"order_ids" binding:"required"`
	Status   string `json:"status" binding:"required"`
	Notes    string `json:"notes"`
}

// AdminBulkOrderIDsRequest 批量删除订单请求
type AdminBulkOrderIDsRequest struct {
	OrderIDs []uint `json:"order_ids" binding:"required"`
}

// AdminBulkUpdateOrderStatus 批量更新订单状态，逐单执行并返回逐条结果。
func (h *Handler) AdminBulkUpdateOrderStatus(c *gin.Context) {
	actor, ok := adminActor(c)
	if !ok {
		return
	}

	var req AdminBulkOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if len(req.OrderIDs) == 0 {
		respondError(c, response.CodeBadRequest, "error.order_ids_required", nil)
		return
	}

	results := h.OrderStatusService.BulkUpdateStatus(req.OrderIDs, req.Status, req.Notes, actor)
	response.Success(c, results)
}

// AdminBulkDeleteOrders 批量删除订单
func (h *Handler) AdminBulkDeleteOrders(c *gin.Context) {
	if _, ok := getAdminID(c); !ok {
		return
	}

	var req AdminBulkOrderIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if len(req.OrderIDs) == 0 {
		respondError(c, response.CodeBadRequest, "error.order_ids_required", nil)
		return
	}

	results := h.OrderStatusService.BulkDelete(req.OrderIDs)
	response.Success(c, results)
}

// AdminDeleteOrder 删除单笔订单
func (h *Handler) AdminDeleteOrder(c *gin.Context) {
	if _, ok := getAdminID(c); !ok {
		return
	}

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "error.order_id_invalid", nil)
		return
	}

	if err := h.OrderStatusService.DeleteOrder(uint(orderID)); err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			respondError(c, response.CodeNotFound, "error.order_not_found", nil)
		case errors.Is(err, service.ErrOrderHasOpenReturn):
			respondError(c, response.CodeBadRequest, "error.order_has_open_return", nil)
		default:
			respondError(c, response.CodeInternal, "error.order_delete_failed", err)
		}
		return
	}

	response.Success(c, nil)
}
