package service

import (
	"strconv"
	"strings"
	"time"

	"github.com/homeplus-shop/internal/constants"
	"github.com/homeplus-shop/internal/logger"
	"github.com/homeplus-shop/internal/models"
	"github.com/homeplus-shop/internal/repository"

	"github.com/shopspring/decimal"
)

// PromoItem 参与优惠码范围匹配的行项目
type PromoItem struct {
	ProductID  uint
	CategoryID uint
	LineTotal  models.Money
}

// PromoService 优惠码服务
type PromoService struct {
	promoRepo repository.PromoCodeRepository
	usageRepo repository.PromoCodeUsageRepository
}

// NewPromoService 创建优惠码服务
func NewPromoService(promoRepo repository.PromoCodeRepository, usageRepo repository.PromoCodeUsageRepository) *PromoService {
	return &PromoService{
		promoRepo: promoRepo,
		usageRepo: usageRepo,
	}
}

// Validate 校验优惠码并计算折扣金额。
// 商品与分类范围都为空时作用于全单，否则只作用于命中范围的行项目。
func (s *PromoService) Validate(code string, userID uint, items []PromoItem) (models.Money, *models.PromoCode, error) {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return models.Money{}, nil, ErrPromoInvalid
	}

	promo, err := s.promoRepo.GetByCode(trimmed)
	if err != nil {
		return models.Money{}, nil, err
	}
	if promo == nil {
		return models.Money{}, nil, ErrPromoNotFound
	}
	if !promo.IsActive {
		return models.Money{}, promo, ErrPromoInactive
	}

	now := time.Now()
	if promo.StartsAt != nil && now.Before(*promo.StartsAt) {
		return models.Money{}, promo, ErrPromoNotStarted
	}
	if promo.ExpiresAt != nil && now.After(*promo.ExpiresAt) {
		return models.Money{}, promo, ErrPromoExpired
	}

	if promo.MaxUses > 0 && promo.UsedCount >= promo.MaxUses {
		return models.Money{}, promo, ErrPromoUsageLimit
	}
	if promo.MaxUsesUser > 0 && userID != 0 {
		count, err := s.usageRepo.CountByPromoAndUser(promo.ID, userID)
		if err != nil {
			return models.Money{}, promo, err
		}
		if int(count) >= promo.MaxUsesUser {
			return models.Money{}, promo, ErrPromoPerUserLimit
		}
	}

	eligibleSubtotal, err := s.resolveEligibleSubtotal(promo, items)
	if err != nil {
		return models.Money{}, promo, err
	}

	if eligibleSubtotal.Decimal.Cmp(promo.MinAmount.Decimal) < 0 {
		return models.Money{}, promo, ErrPromoMinAmount
	}

	discount, err := s.calculateDiscount(promo, eligibleSubtotal)
	if err != nil {
		return models.Money{}, promo, err
	}
	if discount.Decimal.GreaterThan(eligibleSubtotal.Decimal) {
		discount = models.NewMoneyFromDecimal(eligibleSubtotal.Decimal)
	}

	return discount, promo, nil
}

// RecordUsage 落库使用记录并累加使用次数（订单提交后调用，尽力而为）
func (s *PromoService) RecordUsage(promo *models.PromoCode, order *models.Order, discount models.Money) error {
	if promo == nil || order == nil {
		return nil
	}
	usage := &models.PromoCodeUsage{
		PromoCodeID:    promo.ID,
		UserID:         order.UserID,
		OrderID:        order.ID,
		DiscountAmount: discount,
		OrderAmount:    order.TotalAmount,
	}
	if err := s.usageRepo.Create(usage); err != nil {
		return err
	}
	if err := s.promoRepo.IncrementUsedCount(promo.ID); err != nil {
		logger.Warnw("promo_used_count_increment_failed",
			"promo_code_id", promo.ID,
			"order_id", order.ID,
			"error", err,
		)
	}
	return nil
}

func (s *PromoService) resolveEligibleSubtotal(promo *models.PromoCode, items []PromoItem) (models.Money, error) {
	productIDs := decodeScopeIDs(promo.ProductIDs)
	categoryIDs := decodeScopeIDs(promo.CategoryIDs)

	eligible := decimal.Zero
	scoped := len(productIDs) > 0 || len(categoryIDs) > 0
	for _, item := range items {
		if scoped {
			_, productHit := productIDs[item.ProductID]
			_, categoryHit := categoryIDs[item.CategoryID]
			if !productHit && !categoryHit {
				continue
			}
		}
		eligible = eligible.Add(item.LineTotal.Decimal)
	}

	if scoped && eligible.IsZero() {
		return models.Money{}, ErrPromoScopeInvalid
	}
	return models.NewMoneyFromDecimal(eligible), nil
}

func (s *PromoService) calculateDiscount(promo *models.PromoCode, eligibleSubtotal models.Money) (models.Money, error) {
	switch strings.ToLower(strings.TrimSpace(promo.Type)) {
	case constants.PromoTypeFixed:
		if promo.Value.Decimal.LessThanOrEqual(decimal.Zero) {
			return models.Money{}, ErrPromoInvalid
		}
		return models.NewMoneyFromDecimal(promo.Value.Decimal), nil
	case constants.PromoTypePercent:
		if promo.Value.Decimal.LessThanOrEqual(decimal.Zero) {
			return models.Money{}, ErrPromoInvalid
		}
		percent := promo.Value.Decimal.Div(decimal.NewFromInt(100))
		return models.NewMoneyFromDecimal(eligibleSubtotal.Decimal.Mul(percent)), nil
	default:
		return models.Money{}, ErrPromoInvalid
	}
}

func decodeScopeIDs(raw models.StringArray) map[uint]struct{} {
	result := make(map[uint]struct{}, len(raw))
	for _, entry := range raw {
		id, err := strconv.ParseUint(strings.TrimSpace(entry), 10, 64)
		if err != nil || id == 0 {
			continue
		}
		result[uint(id)] = struct{}{}
	}
	return result
}
