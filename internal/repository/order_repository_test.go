package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/homeplus-shop/internal/constants"
	"github.com/homeplus-shop/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupOrderRepoTest(t *testing.T) (*GormOrderRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:order_repo_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Order{},
		&models.OrderItem{},
		&models.OrderStatusHistory{},
	); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return NewOrderRepository(db), db
}

func TestHardDeleteCascadesInOneTransaction(t *testing.T) {
	repo, db := setupOrderRepoTest(t)

	order := &models.Order{
		OrderNo: fmt.Sprintf("HP-20260101-010101-%d", time.Now().UnixNano()),
		UserID:  1,
		Source:  constants.OrderSourceWeb,
		Status:  constants.OrderStatusCancelled,
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	item := &models.OrderItem{
		OrderID:     order.ID,
		ProductID:   1,
		ProductName: "玻璃保鲜盒",
		UnitPrice:   models.NewMoneyFromInt(80),
		Quantity:    1,
		LineTotal:   models.NewMoneyFromInt(80),
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("create item failed: %v", err)
	}
	history := &models.OrderStatusHistory{
		OrderID:   order.ID,
		Status:    constants.OrderStatusCancelled,
		ActorType: constants.ActorTypeSystem,
	}
	if err := db.Create(history).Error; err != nil {
		t.Fatalf("create history failed: %v", err)
	}

	if err := repo.HardDelete(order.ID); err != nil {
		t.Fatalf("hard delete failed: %v", err)
	}

	for _, model := range []interface{}{&models.Order{}, &models.OrderItem{}, &models.OrderStatusHistory{}} {
		var count int64
		if err := db.Unscoped().Model(model).Count(&count).Error; err != nil {
			t.Fatalf("count %T failed: %v", model, err)
		}
		if count != 0 {
			t.Fatalf("expected %T cascade deleted, got %d rows", model, count)
		}
	}
}

func TestHardDeleteInvalidID(t *testing.T) {
	repo, _ := setupOrderRepoTest(t)

	if err := repo.HardDelete(0); err == nil {
		t.Fatalf("expected error for zero id")
	}
}
