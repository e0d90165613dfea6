package admin

import (
	"github.com/homeplus-shop/internal/http/response"

	"github.com/gin-gonic/gin"
)

// AdminListLocations 管理端配送区域列表（含停用项）
func (h *Handler) AdminListLocations(c *gin.Context) {
	locations, err := h.LocationRepo.ListAll()
	if err != nil {
		respondError(c, response.CodeInternal, "error.location_fetch_failed", err)
		return
	}

	response.Success(c, locations)
}
