package public

import (
	"errors"
	"strings"

	"github.com/homeplus-shop/internal/http/response"
	"github.com/homeplus-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// TrackOrder 公开物流查询，按运单号返回订单进度。
func (h *Handler) TrackOrder(c *gin.Context) {
	trackingNo := strings.TrimSpace(c.Param("tracking_no"))
	if trackingNo == "" {
		respondError(c, response.CodeBadRequest, "error.tracking_no_invalid", nil)
		return
	}

	info, err := h.TrackingService.Track(c.Request.Context(), trackingNo)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondError(c, response.CodeNotFound, "error.order_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.tracking_fetch_failed", err)
		return
	}

	response.Success(c, info)
}

// GetDeliveryLocations 获取启用的配送区域列表
func (h *Handler) GetDeliveryLocations(c *gin.Context) {
	locations, err := h.LocationRepo.ListActive()
	if err != nil {
		respondError(c, response.CodeInternal, "error.location_fetch_failed", err)
		return
	}

	response.Success(c, locations)
}
