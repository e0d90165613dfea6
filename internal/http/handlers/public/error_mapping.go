package public

import (
	"errors"

	"github.com/homeplus-shop/internal/http/response"
	"github.com/homeplus-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

var orderCreateCommonErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidOrderItem, code: response.CodeBadRequest, msg: "error.order_item_invalid"},
	{target: service.ErrOrderSourceInvalid, code: response.CodeBadRequest, msg: "error.order_source_invalid"},
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
	{target: service.ErrOrderNumberExhausted, code: response.CodeInternal, msg: "error.order_no_exhausted"},
}

var guestOrderCreateExtraErrorRules = []mappedHandlerError{
	{target: service.ErrMissingGuestContact, code: response.CodeBadRequest, msg: "error.guest_contact_required"},
}

var returnCreateErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, msg: "error.order_not_found"},
	{target: service.ErrReturnNotAllowed, code: response.CodeBadRequest, msg: "error.return_not_allowed"},
	{target: service.ErrReturnAlreadyOpen, code: response.CodeBadRequest, msg: "error.return_already_open"},
	{target: service.ErrReturnItemInvalid, code: response.CodeBadRequest, msg: "error.return_item_invalid"},
	{target: service.ErrReturnQuantityInvalid, code: response.CodeBadRequest, msg: "error.return_quantity_invalid"},
	{target: service.ErrOrderNumberExhausted, code: response.CodeInternal, msg: "error.return_no_exhausted"},
}

func respondUserOrderCreateError(c *gin.Context, err error) {
	respondWithMappedError(c, err, orderCreateCommonErrorRules, response.CodeInternal, "error.order_create_failed")
}

func respondGuestOrderCreateError(c *gin.Context, err error) {
	rules := concatMappedHandlerErrors(orderCreateCommonErrorRules, guestOrderCreateExtraErrorRules)
	respondWithMappedError(c, err, rules, response.CodeInternal, "error.order_create_failed")
}

func respondReturnCreateError(c *gin.Context, err error) {
	respondWithMappedError(c, err, returnCreateErrorRules, response.CodeInternal, "error.return_create_failed")
}
