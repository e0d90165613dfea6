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

// AdminListReturns 管理端退货申请列表
func (h *Handler) AdminListReturns(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	status := strings.TrimSpace(c.Query("status"))
	returnNo := strings.TrimSpace(c.Query("return_no"))
	orderIDStr := strings.TrimSpace(c.Query("order_id"))
	userIDStr := strings.TrimSpace(c.Query("user_id"))
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
	var orderID, userID uint
	if orderIDStr != "" {
		if parsed, err := strconv.ParseUint(orderIDStr, 10, 64); err == nil {
			orderID = uint(parsed)
		}
	}
	if userIDStr != "" {
		if parsed, err := strconv.ParseUint(userIDStr, 10, 64); err == nil {
			userID = uint(parsed)
		}
	}

	requests, total, err := h.ReturnService.ListReturnsForAdmin(repository.ReturnListFilter{
		Page:        page,
		PageSize:    pageSize,
		OrderID:     orderID,
		UserID:      userID,
		Status:      status,
		ReturnNo:    returnNo,
		CreatedFrom: createdFrom,
		CreatedTo:   createdTo,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.return_fetch_failed", err)
		return
	}

	pagination := response.BuildPagination(page, pageSize, total)
	response.SuccessWithPage(c, requests, pagination)
}

// AdminGetReturn 管理端退货申请详情
func (h *Handler) AdminGetReturn(c *gin.Context) {
	returnID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || returnID == 0 {
		respondError(c, response.CodeBadRequest, "error.return_id_invalid", nil)
		return
	}

	request, err := h.ReturnService.GetReturn(uint(returnID))
	if err != nil {
		if errors.Is(err, service.ErrReturnNotFound) {
			respondError(c, response.CodeNotFound, "error.return_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.return_fetch_failed", err)
		return
	}

	response.Success(c, request)
}

// AdminProcessReturnRequest 处理退货申请请求
type AdminProcessReturnRequest struct {
	Decision     string        `json:"decision" binding:"required"`
	Notes        string        `json:"notes"`
	RefundAmount *models.Money `json:"refund_amount"`
}

// AdminProcessReturn 处理退货申请（通过或驳回）
func (h *Handler) AdminProcessReturn(c *gin.Context) {
	actor, ok := adminActor(c)
	if !ok {
		return
	}

	returnID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || returnID == 0 {
		respondError(c, response.CodeBadRequest, "error.return_id_invalid", nil)
		return
	}

	var req AdminProcessReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	request, err := h.ReturnService.ProcessReturn(service.ProcessReturnInput{
		ReturnID:     uint(returnID),
		Decision:     req.Decision,
		Notes:        req.Notes,
		RefundAmount: req.RefundAmount,
		Actor:        actor,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReturnNotFound):
			respondError(c, response.CodeNotFound, "error.return_not_found", nil)
		case errors.Is(err, service.ErrReturnAlreadyDecided):
			respondError(c, response.CodeBadRequest, "error.return_already_decided", nil)
		case errors.Is(err, service.ErrReturnDecisionInvalid):
			respondError(c, response.CodeBadRequest, "error.return_decision_invalid", nil)
		case errors.Is(err, service.ErrOrderNotFound):
			respondError(c, response.CodeNotFound, "error.order_not_found", nil)
		default:
			respondError(c, response.CodeInternal, "error.return_process_failed", err)
		}
		return
	}

	response.Success(c, request)
}
