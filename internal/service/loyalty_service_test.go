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

func setupLoyaltyTest(t *testing.T, earnRate float64) (*LoyaltyService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:loyalty_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Order{}, &models.OrderItem{}, &models.OrderStatusHistory{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	models.DB = db
	return NewLoyaltyService(repository.NewOrderRepository(db), repository.NewUserRepository(db), earnRate), db
}

func createLoyaltyUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{Email: fmt.Sprintf("user_%d@example.com", time.Now().UnixNano())}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func createLoyaltyOrder(t *testing.T, db *gorm.DB, userID uint, status string, total int64) *models.Order {
	t.Helper()
	order := &models.Order{
		OrderNo:     fmt.Sprintf("HP-20260101-010101-%d", time.Now().UnixNano()),
		UserID:      userID,
		Source:      constants.OrderSourceWeb,
		Status:      status,
		TotalAmount: models.NewMoneyFromInt(total),
	}
	if status == constants.OrderStatusDelivered {
		now := time.Now()
		order.DeliveredAt = &now
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

func TestAccrueForOrder(t *testing.T) {
	svc, db := setupLoyaltyTest(t, 0.1)
	user := createLoyaltyUser(t, db)
	createLoyaltyOrder(t, db, user.ID, constants.OrderStatusDelivered, 500)
	order := createLoyaltyOrder(t, db, user.ID, constants.OrderStatusDelivered, 1250)

	if err := svc.AccrueForOrder(order.ID, user.ID); err != nil {
		t.Fatalf("accrue failed: %v", err)
	}

	var reloaded models.User
	if err := db.First(&reloaded, user.ID).Error; err != nil {
		t.Fatalf("reload user failed: %v", err)
	}
	if reloaded.TotalOrders != 2 {
		t.Fatalf("expected 2 delivered orders, got %d", reloaded.TotalOrders)
	}
	if !reloaded.TotalSpent.Decimal.Equal(models.NewMoneyFromInt(1750).Decimal) {
		t.Fatalf("expected total spent 1750, got %s", reloaded.TotalSpent.String())
	}
	if reloaded.LoyaltyPoints != 125 {
		t.Fatalf("expected 125 points, got %d", reloaded.LoyaltyPoints)
	}
}

func TestAccrueForOrderGuestNoop(t *testing.T) {
	svc, db := setupLoyaltyTest(t, 0.1)

	if err := svc.AccrueForOrder(1, 0); err != nil {
		t.Fatalf("expected guest noop, got: %v", err)
	}
	var userCount int64
	if err := db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		t.Fatalf("count users failed: %v", err)
	}
	if userCount != 0 {
		t.Fatalf("expected no users touched, got %d", userCount)
	}
}

func TestAccrueForOrderNotDelivered(t *testing.T) {
	svc, db := setupLoyaltyTest(t, 0.1)
	user := createLoyaltyUser(t, db)
	order := createLoyaltyOrder(t, db, user.ID, constants.OrderStatusShipped, 800)

	if err := svc.AccrueForOrder(order.ID, user.ID); err != nil {
		t.Fatalf("expected skip for undelivered, got: %v", err)
	}

	var reloaded models.User
	if err := db.First(&reloaded, user.ID).Error; err != nil {
		t.Fatalf("reload user failed: %v", err)
	}
	if reloaded.TotalOrders != 0 || reloaded.LoyaltyPoints != 0 {
		t.Fatalf("expected stats untouched, got %+v", reloaded)
	}
}

func TestAccrueForOrderOwnershipMismatch(t *testing.T) {
	svc, db := setupLoyaltyTest(t, 0.1)
	owner := createLoyaltyUser(t, db)
	other := createLoyaltyUser(t, db)
	order := createLoyaltyOrder(t, db, owner.ID, constants.OrderStatusDelivered, 500)

	if err := svc.AccrueForOrder(order.ID, other.ID); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected not found for mismatched user, got: %v", err)
	}
}

func TestAccrueForOrderZeroEarnRate(t *testing.T) {
	svc, db := setupLoyaltyTest(t, 0)
	user := createLoyaltyUser(t, db)
	order := createLoyaltyOrder(t, db, user.ID, constants.OrderStatusDelivered, 900)

	if err := svc.AccrueForOrder(order.ID, user.ID); err != nil {
		t.Fatalf("accrue failed: %v", err)
	}

	// 统计照常更新，积分不累加
	var reloaded models.User
	if err := db.First(&reloaded, user.ID).Error; err != nil {
		t.Fatalf("reload user failed: %v", err)
	}
	if reloaded.TotalOrders != 1 || reloaded.LoyaltyPoints != 0 {
		t.Fatalf("expected stats without points, got %+v", reloaded)
	}
}
