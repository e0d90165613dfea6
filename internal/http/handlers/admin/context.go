package admin

import (
	"github.com/homeplus-shop/internal/constants"
	handlershared "github.com/homeplus-shop/internal/http/handlers/shared"
	"github.com/homeplus-shop/internal/service"

	"github.com/gin-gonic/gin"
)

func getAdminID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUintWithKeys(c, "admin_id", "error.admin_id_invalid", "error.admin_id_type_invalid")
}

// adminActor 构造管理端操作者，写入状态历史。
func adminActor(c *gin.Context) (service.Actor, bool) {
	adminID, ok := getAdminID(c)
	if !ok {
		return service.Actor{}, false
	}
	return service.Actor{
		Type: constants.ActorTypeAdmin,
		ID:   adminID,
	}, true
}
