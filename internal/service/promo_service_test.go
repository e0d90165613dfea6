package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/homeplus-shop/internal/constants"
	"github.com/homeplus-shop/internal/models"
	"github.com/homeplus-shop/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupPromoTest(t *testing.T) (*PromoService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:promo_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.PromoCode{}, &models.PromoCodeUsage{}, &models.Order{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	models.DB = db
	return NewPromoService(repository.NewPromoCodeRepository(db), repository.NewPromoCodeUsageRepository(db)), db
}

func createTestPromo(t *testing.T, db *gorm.DB, promo *models.PromoCode) *models.PromoCode {
	t.Helper()
	if err := db.Create(promo).Error; err != nil {
		t.Fatalf("create promo failed: %v", err)
	}
	return promo
}

func promoItems(lineTotals ...int64) []PromoItem {
	items := make([]PromoItem, 0, len(lineTotals))
	for i, total := range lineTotals {
		items = append(items, PromoItem{
			ProductID: uint(i + 1),
			LineTotal: models.NewMoneyFromInt(total),
		})
	}
	return items
}

func TestPromoValidateFixed(t *testing.T) {
	svc, db := setupPromoTest(t)
	createTestPromo(t, db, &models.PromoCode{
		Code:     "FIX100",
		Type:     constants.PromoTypeFixed,
		Value:    models.NewMoneyFromInt(100),
		IsActive: true,
	})

	discount, promo, err := svc.Validate("FIX100", 1, promoItems(500))
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if promo == nil || promo.Code != "FIX100" {
		t.Fatalf("unexpected promo: %+v", promo)
	}
	if !discount.Decimal.Equal(models.NewMoneyFromInt(100).Decimal) {
		t.Fatalf("expected discount 100, got %s", discount.String())
	}
}

func TestPromoValidatePercent(t *testing.T) {
	svc, db := setupPromoTest(t)
	createTestPromo(t, db, &models.PromoCode{
		Code:     "PCT10",
		Type:     constants.PromoTypePercent,
		Value:    models.NewMoneyFromInt(10),
		IsActive: true,
	})

	discount, _, err := svc.Validate("PCT10", 1, promoItems(1000))
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !discount.Decimal.Equal(models.NewMoneyFromInt(100).Decimal) {
		t.Fatalf("expected discount 100, got %s", discount.String())
	}
}

func TestPromoValidateNotFound(t *testing.T) {
	svc, _ := setupPromoTest(t)

	if _, _, err := svc.Validate("NOPE", 1, promoItems(500)); !errors.Is(err, ErrPromoNotFound) {
		t.Fatalf("expected not found, got: %v", err)
	}
	if _, _, err := svc.Validate("   ", 1, promoItems(500)); !errors.Is(err, ErrPromoInvalid) {
		t.Fatalf("expected invalid, got: %v", err)
	}
}

func TestPromoValidateInactive(t *testing.T) {
	svc, db := setupPromoTest(t)
	createTestPromo(t, db, &models.PromoCode{
		Code:     "OFF",
		Type:     constants.PromoTypeFixed,
		Value:    models.NewMoneyFromInt(50),
		IsActive: false,
	})

	if _, _, err := svc.Validate("OFF", 1, promoItems(500)); !errors.Is(err, ErrPromoInactive) {
		t.Fatalf("expected inactive, got: %v", err)
	}
}

func TestPromoValidateTimeWindow(t *testing.T) {
	svc, db := setupPromoTest(t)
	future := time.Now().Add(time.Hour)
	past := time.Now().Add(-time.Hour)
	createTestPromo(t, db, &models.PromoCode{
		Code:     "SOON",
		Type:     constants.PromoTypeFixed,
		Value:    models.NewMoneyFromInt(50),
		IsActive: true,
		StartsAt: &future,
	})
	createTestPromo(t, db, &models.PromoCode{
		Code:      "GONE",
		Type:      constants.PromoTypeFixed,
		Value:     models.NewMoneyFromInt(50),
		IsActive:  true,
		ExpiresAt: &past,
	})

	if _, _, err := svc.Validate("SOON", 1, promoItems(500)); !errors.Is(err, ErrPromoNotStarted) {
		t.Fatalf("expected not started, got: %v", err)
	}
	if _, _, err := svc.Validate("GONE", 1, promoItems(500)); !errors.Is(err, ErrPromoExpired) {
		t.Fatalf("expected expired, got: %v", err)
	}
}

func TestPromoValidateUsageLimit(t *testing.T) {
	svc, db := setupPromoTest(t)
	createTestPromo(t, db, &models.PromoCode{
		Code:      "CAP",
		Type:      constants.PromoTypeFixed,
		Value:     models.NewMoneyFromInt(50),
		IsActive:  true,
		MaxUses:   3,
		UsedCount: 3,
	})

	if _, _, err := svc.Validate("CAP", 1, promoItems(500)); !errors.Is(err, ErrPromoUsageLimit) {
		t.Fatalf("expected usage limit, got: %v", err)
	}
}

func TestPromoValidatePerUserLimit(t *testing.T) {
	svc, db := setupPromoTest(t)
	promo := createTestPromo(t, db, &models.PromoCode{
		Code:        "ONCE",
		Type:        constants.PromoTypeFixed,
		Value:       models.NewMoneyFromInt(50),
		IsActive:    true,
		MaxUsesUser: 1,
	})
	if err := db.Create(&models.PromoCodeUsage{PromoCodeID: promo.ID, UserID: 7, OrderID: 1}).Error; err != nil {
		t.Fatalf("create usage failed: %v", err)
	}

	if _, _, err := svc.Validate("ONCE", 7, promoItems(500)); !errors.Is(err, ErrPromoPerUserLimit) {
		t.Fatalf("expected per user limit, got: %v", err)
	}
	// 其他用户不受影响
	if _, _, err := svc.Validate("ONCE", 8, promoItems(500)); err != nil {
		t.Fatalf("expected other user to pass, got: %v", err)
	}
	// 访客（userID 为 0）不做单用户限制
	if _, _, err := svc.Validate("ONCE", 0, promoItems(500)); err != nil {
		t.Fatalf("expected guest to pass, got: %v", err)
	}
}

func TestPromoValidateMinAmount(t *testing.T) {
	svc, db := setupPromoTest(t)
	createTestPromo(t, db, &models.PromoCode{
		Code:      "MIN500",
		Type:      constants.PromoTypeFixed,
		Value:     models.NewMoneyFromInt(100),
		MinAmount: models.NewMoneyFromInt(500),
		IsActive:  true,
	})

	if _, _, err := svc.Validate("MIN500", 1, promoItems(499)); !errors.Is(err, ErrPromoMinAmount) {
		t.Fatalf("expected min amount, got: %v", err)
	}
	if _, _, err := svc.Validate("MIN500", 1, promoItems(500)); err != nil {
		t.Fatalf("expected exactly-min to pass, got: %v", err)
	}
}

func TestPromoValidateScope(t *testing.T) {
	svc, db := setupPromoTest(t)
	createTestPromo(t, db, &models.PromoCode{
		Code:       "SCOPED",
		Type:       constants.PromoTypePercent,
		Value:      models.NewMoneyFromInt(10),
		IsActive:   true,
		ProductIDs: models.StringArray{"1"},
	})

	items := []PromoItem{
		{ProductID: 1, LineTotal: models.NewMoneyFromInt(300)},
		{ProductID: 2, LineTotal: models.NewMoneyFromInt(700)},
	}
	// 折扣只作用于命中范围的行项目
	discount, _, err := svc.Validate("SCOPED", 1, items)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !discount.Decimal.Equal(models.NewMoneyFromInt(30).Decimal) {
		t.Fatalf("expected discount 30, got %s", discount.String())
	}

	miss := []PromoItem{{ProductID: 9, LineTotal: models.NewMoneyFromInt(300)}}
	if _, _, err := svc.Validate("SCOPED", 1, miss); !errors.Is(err, ErrPromoScopeInvalid) {
		t.Fatalf("expected scope invalid, got: %v", err)
	}
}

func TestPromoValidateCategoryScope(t *testing.T) {
	svc, db := setupPromoTest(t)
	createTestPromo(t, db, &models.PromoCode{
		Code:        "CAT",
		Type:        constants.PromoTypeFixed,
		Value:       models.NewMoneyFromInt(20),
		IsActive:    true,
		CategoryIDs: models.StringArray{"5"},
	})

	items := []PromoItem{{ProductID: 1, CategoryID: 5, LineTotal: models.NewMoneyFromInt(200)}}
	if _, _, err := svc.Validate("CAT", 1, items); err != nil {
		t.Fatalf("expected category hit to pass, got: %v", err)
	}
}

func TestPromoDiscountCappedAtEligible(t *testing.T) {
	svc, db := setupPromoTest(t)
	createTestPromo(t, db, &models.PromoCode{
		Code:     "BIG",
		Type:     constants.PromoTypeFixed,
		Value:    models.NewMoneyFromInt(1000),
		IsActive: true,
	})

	discount, _, err := svc.Validate("BIG", 1, promoItems(300))
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !discount.Decimal.Equal(models.NewMoneyFromInt(300).Decimal) {
		t.Fatalf("expected discount capped at 300, got %s", discount.String())
	}
}

func TestPromoRecordUsage(t *testing.T) {
	svc, db := setupPromoTest(t)
	promo := createTestPromo(t, db, &models.PromoCode{
		Code:     "TRACKED",
		Type:     constants.PromoTypeFixed,
		Value:    models.NewMoneyFromInt(100),
		IsActive: true,
	})
	order := &models.Order{
		OrderNo:     "HP-20260101-010101-A1B2",
		UserID:      3,
		Status:      constants.OrderStatusPending,
		Source:      constants.OrderSourceWeb,
		TotalAmount: models.NewMoneyFromInt(400),
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if err := svc.RecordUsage(promo, order, models.NewMoneyFromInt(100)); err != nil {
		t.Fatalf("record usage failed: %v", err)
	}

	var usage models.PromoCodeUsage
	if err := db.Where("promo_code_id = ? AND order_id = ?", promo.ID, order.ID).First(&usage).Error; err != nil {
		t.Fatalf("load usage failed: %v", err)
	}
	if usage.UserID != 3 {
		t.Fatalf("expected usage user 3, got %d", usage.UserID)
	}

	var reloaded models.PromoCode
	if err := db.First(&reloaded, promo.ID).Error; err != nil {
		t.Fatalf("reload promo failed: %v", err)
	}
	if reloaded.UsedCount != 1 {
		t.Fatalf("expected used count 1, got %d", reloaded.UsedCount)
	}
}
