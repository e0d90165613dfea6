package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/homeplus-shop/internal/models"
	"github.com/homeplus-shop/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupStockTest(t *testing.T) (*StockService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:stock_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.ProductVariant{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	models.DB = db
	return NewStockService(repository.NewProductVariantRepository(db)), db
}

func createTestVariant(t *testing.T, db *gorm.DB, stock int) *models.ProductVariant {
	t.Helper()
	product := &models.Product{
		Slug:     fmt.Sprintf("test-product-%d", time.Now().UnixNano()),
		Name:     "测试商品",
		IsActive: true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	variant := &models.ProductVariant{
		ProductID:   product.ID,
		VariantCode: fmt.Sprintf("v-%d", time.Now().UnixNano()),
		Stock:       stock,
		IsActive:    true,
	}
	if err := db.Create(variant).Error; err != nil {
		t.Fatalf("create variant failed: %v", err)
	}
	return variant
}

func TestCheckAvailability(t *testing.T) {
	svc, db := setupStockTest(t)
	variant := createTestVariant(t, db, 5)

	if err := svc.CheckAvailability([]StockLine{{VariantID: &variant.ID, Quantity: 5}}); err != nil {
		t.Fatalf("expected stock sufficient, got: %v", err)
	}

	err := svc.CheckAvailability([]StockLine{{VariantID: &variant.ID, Quantity: 6}})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock error, got: %v", err)
	}
	var stockErr *InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError, got: %v", err)
	}
	if stockErr.VariantID != variant.ID || stockErr.Requested != 6 {
		t.Fatalf("unexpected stock error detail: %+v", stockErr)
	}
}

func TestCheckAvailabilitySkipsBaseProduct(t *testing.T) {
	svc, _ := setupStockTest(t)

	// 未指定规格的行项目不做库存校验
	if err := svc.CheckAvailability([]StockLine{{VariantID: nil, Quantity: 3}}); err != nil {
		t.Fatalf("expected base product line to skip check, got: %v", err)
	}
}

func TestCheckAvailabilityVariantNotFound(t *testing.T) {
	svc, _ := setupStockTest(t)

	missing := uint(9999)
	err := svc.CheckAvailability([]StockLine{{VariantID: &missing, Quantity: 1}})
	if !errors.Is(err, ErrVariantNotFound) {
		t.Fatalf("expected variant not found, got: %v", err)
	}
}

func TestCheckAvailabilityInvalidQuantity(t *testing.T) {
	svc, _ := setupStockTest(t)

	err := svc.CheckAvailability([]StockLine{{VariantID: nil, Quantity: 0}})
	if !errors.Is(err, ErrInvalidOrderItem) {
		t.Fatalf("expected invalid item error, got: %v", err)
	}
}

func TestReserveAndDecrement(t *testing.T) {
	svc, db := setupStockTest(t)
	variant := createTestVariant(t, db, 10)

	err := db.Transaction(func(tx *gorm.DB) error {
		return svc.ReserveAndDecrement(tx, []StockLine{{VariantID: &variant.ID, Quantity: 4}})
	})
	if err != nil {
		t.Fatalf("decrement failed: %v", err)
	}

	var reloaded models.ProductVariant
	if err := db.First(&reloaded, variant.ID).Error; err != nil {
		t.Fatalf("reload variant failed: %v", err)
	}
	if reloaded.Stock != 6 {
		t.Fatalf("expected stock 6, got %d", reloaded.Stock)
	}
}

func TestReserveAndDecrementShortfall(t *testing.T) {
	svc, db := setupStockTest(t)
	variant := createTestVariant(t, db, 3)

	err := db.Transaction(func(tx *gorm.DB) error {
		return svc.ReserveAndDecrement(tx, []StockLine{{VariantID: &variant.ID, Quantity: 4}})
	})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock error, got: %v", err)
	}

	// 条件扣减未命中时库存保持不变
	var reloaded models.ProductVariant
	if err := db.First(&reloaded, variant.ID).Error; err != nil {
		t.Fatalf("reload variant failed: %v", err)
	}
	if reloaded.Stock != 3 {
		t.Fatalf("expected stock unchanged at 3, got %d", reloaded.Stock)
	}
}

func TestRestore(t *testing.T) {
	svc, db := setupStockTest(t)
	variant := createTestVariant(t, db, 2)

	err := db.Transaction(func(tx *gorm.DB) error {
		return svc.Restore(tx, []StockLine{{VariantID: &variant.ID, Quantity: 5}})
	})
	if err != nil {
		t.Fatalf("restore failed: %v", err)
	}

	var reloaded models.ProductVariant
	if err := db.First(&reloaded, variant.ID).Error; err != nil {
		t.Fatalf("reload variant failed: %v", err)
	}
	if reloaded.Stock != 7 {
		t.Fatalf("expected stock 7, got %d", reloaded.Stock)
	}
}
