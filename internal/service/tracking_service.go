package service

import (
	"context"
	"strings"
	"time"

	"github.com/homeplus-shop/internal/cache"
	"github.com/homeplus-shop/internal/logger"
	"github.com/homeplus-shop/internal/repository"
)

const trackingCacheTTL = 60 * time.Second

// TrackingInfo 公开物流查询结果
type TrackingInfo struct {
	OrderNo     string     `json:"order_no"`
	Status      string     `json:"status"`
	TrackingNo  string     `json:"tracking_no"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TrackingService 公开物流查询服务，结果走 Redis 短缓存
type TrackingService struct {
	orderRepo repository.OrderRepository
}

// NewTrackingService 创建物流查询服务
func NewTrackingService(orderRepo repository.OrderRepository) *TrackingService {
	return &TrackingService{orderRepo: orderRepo}
}

// Track 根据物流单号查询订单物流状态
func (s *TrackingService) Track(ctx context.Context, trackingNo string) (*TrackingInfo, error) {
	trimmed := strings.TrimSpace(trackingNo)
	if trimmed == "" {
		return nil, ErrOrderNotFound
	}

	cacheKey := "tracking:" + trimmed
	var cached TrackingInfo
	hit, err := cache.GetJSON(ctx, cacheKey, &cached)
	if err != nil {
		logger.Warnw("tracking_cache_read_failed", "tracking_no", trimmed, "error", err)
	}
	if hit {
		return &cached, nil
	}

	order, err := s.orderRepo.GetByTrackingNo(trimmed)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	info := &TrackingInfo{
		OrderNo:     order.OrderNo,
		Status:      order.Status,
		TrackingNo:  order.TrackingNo,
		DeliveredAt: order.DeliveredAt,
		UpdatedAt:   order.UpdatedAt,
	}
	if err := cache.SetJSON(ctx, cacheKey, info, trackingCacheTTL); err != nil {
		logger.Warnw("tracking_cache_write_failed", "tracking_no", trimmed, "error", err)
	}
	return info, nil
}
