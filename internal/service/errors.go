package service

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderFetchFailed   = errors.New("order fetch failed")
	ErrOrderUpdateFailed  = errors.New("order update failed")
	ErrOrderStatusInvalid = errors.New("order status transition not allowed")
	ErrOrderStatusUnknown = errors.New("order status unknown")
	ErrOrderSourceInvalid = errors.New("order source invalid")
	ErrOrderHasOpenReturn = errors.New("order has open return request")

	ErrInvalidOrderItem        = errors.New("order item invalid")
	ErrMissingGuestContact     = errors.New("guest contact missing")
	ErrProductNotFound         = errors.New("product not found")
	ErrProductNotAvailable     = errors.New("product not available")
	ErrVariantNotFound         = errors.New("product variant not found")
	ErrInsufficientStock       = errors.New("insufficient stock")
	ErrDeliveryLocationInvalid = errors.New("delivery location invalid")

	ErrPromoInvalid      = errors.New("promo code invalid")
	ErrPromoNotFound     = errors.New("promo code not found")
	ErrPromoInactive     = errors.New("promo code inactive")
	ErrPromoNotStarted   = errors.New("promo code not started")
	ErrPromoExpired      = errors.New("promo code expired")
	ErrPromoUsageLimit   = errors.New("promo code usage limit reached")
	ErrPromoPerUserLimit = errors.New("promo code per user limit reached")
	ErrPromoMinAmount    = errors.New("promo code minimum amount not met")
	ErrPromoScopeInvalid = errors.New("promo code not applicable to order items")

	ErrReturnNotFound        = errors.New("return request not found")
	ErrReturnNotAllowed      = errors.New("return not allowed for order status")
	ErrReturnAlreadyOpen     = errors.New("return request already open for order")
	ErrReturnAlreadyDecided  = errors.New("return request already processed")
	ErrReturnItemInvalid     = errors.New("return item invalid")
	ErrReturnQuantityInvalid = errors.New("return quantity exceeds ordered quantity")
	ErrReturnDecisionInvalid = errors.New("return decision invalid")

	ErrOrderNumberExhausted = errors.New("order number generation exhausted")
)

// InsufficientStockError 携带缺货明细的库存错误
type InsufficientStockError struct {
	VariantID uint
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for variant %d (requested %d)", e.VariantID, e.Requested)
}

// Is 使 errors.Is(err, ErrInsufficientStock) 成立
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
