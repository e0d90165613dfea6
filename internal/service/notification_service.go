package service

import (
	"context"
	"time"

	"github.com/homeplus-shop/internal/logger"
)

// NotificationHistoryEntry 通知事件携带的状态历史条目
type NotificationHistoryEntry struct {
	Status    string    `json:"status"`
	ActorName string    `json:"actor_name,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationEvent 通知事件
type NotificationEvent struct {
	Kind       string                     `json:"kind"` // order_status / tracking
	OrderID    uint                       `json:"order_id"`
	OrderNo    string                     `json:"order_no"`
	Status     string                     `json:"status"`
	TrackingNo string                     `json:"tracking_no,omitempty"`
	History    []NotificationHistoryEntry `json:"history,omitempty"`
}

// NotificationSink 通知下发边界。
// 具体渠道（WhatsApp、短信等）由外部实现，核心只负责分发。
type NotificationSink interface {
	Send(ctx context.Context, event NotificationEvent) error
}

// LogSink 默认通知实现，仅记录日志
type LogSink struct{}

// Send 记录通知事件
func (LogSink) Send(_ context.Context, event NotificationEvent) error {
	logger.Infow("notification_dispatched",
		"kind", event.Kind,
		"order_id", event.OrderID,
		"order_no", event.OrderNo,
		"status", event.Status,
		"tracking_no", event.TrackingNo,
		"history_len", len(event.History),
	)
	return nil
}

// NotificationService 通知分发服务
type NotificationService struct {
	sink    NotificationSink
	timeout time.Duration
}

// NewNotificationService 创建通知服务，timeoutSeconds <= 0 时使用 5 秒
func NewNotificationService(sink NotificationSink, timeoutSeconds int) *NotificationService {
	if sink == nil {
		sink = LogSink{}
	}
	if timeoutSeconds <= 0 {
		timeoutSeconds = 5
	}
	return &NotificationService{
		sink:    sink,
		timeout: time.Duration(timeoutSeconds) * time.Second,
	}
}

// Dispatch 分发通知事件。下发失败只记日志，不向上传播。
func (s *NotificationService) Dispatch(ctx context.Context, event NotificationEvent) {
	if s == nil || s.sink == nil {
		return
	}
	sendCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.sink.Send(sendCtx, event); err != nil {
		logger.Warnw("notification_send_failed",
			"kind", event.Kind,
			"order_id", event.OrderID,
			"error", err,
		)
	}
}
