package service

import (
	"context"
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

func setupTrackingTest(t *testing.T) (*TrackingService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:tracking_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Order{}, &models.OrderItem{}, &models.OrderStatusHistory{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	models.DB = db
	return NewTrackingService(repository.NewOrderRepository(db)), db
}

func TestTrack(t *testing.T) {
	svc, db := setupTrackingTest(t)
	delivered := time.Now().Add(-time.Hour)
	order := &models.Order{
		OrderNo:     "HP-20260101-010101-C0DE",
		UserID:      1,
		Source:      constants.OrderSourceWeb,
		Status:      constants.OrderStatusDelivered,
		TrackingNo:  "TRK-20260101-010101-C0DE",
		DeliveredAt: &delivered,
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	info, err := svc.Track(context.Background(), "TRK-20260101-010101-C0DE")
	if err != nil {
		t.Fatalf("track failed: %v", err)
	}
	if info.OrderNo != order.OrderNo || info.Status != constants.OrderStatusDelivered {
		t.Fatalf("unexpected tracking info: %+v", info)
	}
	if info.DeliveredAt == nil {
		t.Fatalf("expected delivered_at in tracking info")
	}

	// 带空白的单号也能命中
	if _, err := svc.Track(context.Background(), "  TRK-20260101-010101-C0DE  "); err != nil {
		t.Fatalf("track with whitespace failed: %v", err)
	}
}

func TestTrackNotFound(t *testing.T) {
	svc, _ := setupTrackingTest(t)

	if _, err := svc.Track(context.Background(), "TRK-20260101-010101-FFFF"); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected not found, got: %v", err)
	}
	if _, err := svc.Track(context.Background(), "   "); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected not found for blank no, got: %v", err)
	}
}
