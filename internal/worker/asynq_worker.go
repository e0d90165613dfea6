package worker

import (
	"context"
	"encoding/json"

	"github.com/homeplus-shop/internal/logger"
	"github.com/homeplus-shop/internal/provider"
	"github.com/homeplus-shop/internal/queue"
	"github.com/homeplus-shop/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderNotifyStatus, c.handleOrderNotifyStatus)
	mux.HandleFunc(queue.TaskOrderNotifyTracking, c.handleOrderNotifyTracking)
	mux.HandleFunc(queue.TaskOrderLoyaltyAccrue, c.handleOrderLoyaltyAccrue)
}

func (c *Consumer) handleOrderNotifyStatus(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.OrderNotifyStatusPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_notify_status_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_notify_status_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	c.NotificationService.Dispatch(ctx, service.NotificationEvent{
		Kind:       "order_status",
		OrderID:    payload.OrderID,
		OrderNo:    payload.OrderNo,
		Status:     payload.Status,
		TrackingNo: payload.TrackingNo,
	})
	return nil
}

func (c *Consumer) handleOrderNotifyTracking(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.OrderNotifyTrackingPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_notify_tracking_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_notify_tracking_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	event := service.NotificationEvent{
		Kind:       "tracking",
		OrderID:    payload.OrderID,
		Status:     payload.Status,
		TrackingNo: payload.TrackingNo,
	}
	for _, entry := range payload.History {
		event.History = append(event.History, service.NotificationHistoryEntry{
			Status:    entry.Status,
			ActorName: entry.ActorName,
			Notes:     entry.Notes,
			CreatedAt: entry.CreatedAt,
		})
	}
	c.NotificationService.Dispatch(ctx, event)
	return nil
}

func (c *Consumer) handleOrderLoyaltyAccrue(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.OrderLoyaltyAccruePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_loyalty_accrue_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 || payload.UserID == 0 {
		logger.Debugw("worker_order_loyalty_accrue_skip_invalid_payload",
			"order_id", payload.OrderID,
			"user_id", payload.UserID,
		)
		return nil
	}
	if err := c.LoyaltyService.AccrueForOrder(payload.OrderID, payload.UserID); err != nil {
		logger.Warnw("worker_order_loyalty_accrue_failed",
			"order_id", payload.OrderID,
			"user_id", payload.UserID,
			"error", err,
		)
		return err
	}
	return nil
}
