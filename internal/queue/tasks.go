package queue

import (
	"encoding/json"
	"time"

	"github.com/homeplus-shop/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderNotifyStatus 订单状态变更通知任务
	TaskOrderNotifyStatus = constants.TaskOrderNotifyStatus
	// TaskOrderNotifyTracking 物流状态通知任务
	TaskOrderNotifyTracking = constants.TaskOrderNotifyTrack
	// TaskOrderLoyaltyAccrue 积分累积与用户统计任务
	TaskOrderLoyaltyAccrue = constants.TaskOrderLoyaltyAccrue
)

// OrderNotifyStatusPayload 订单状态通知任务载荷
type OrderNotifyStatusPayload struct {
	OrderID    uint   `json:"order_id"`
	OrderNo    string `json:"order_no"`
	Status     string `json:"status"`
	TrackingNo string `json:"tracking_no,omitempty"`
}

// TrackingHistoryEntry 物流通知携带的状态历史条目
type TrackingHistoryEntry struct {
	Status    string    `json:"status"`
	ActorName string    `json:"actor_name,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// OrderNotifyTrackingPayload 物流状态通知任务载荷
type OrderNotifyTrackingPayload struct {
	OrderID    uint                   `json:"order_id"`
	TrackingNo string                 `json:"tracking_no"`
	Status     string                 `json:"status"`
	History    []TrackingHistoryEntry `json:"history,omitempty"`
}

// OrderLoyaltyAccruePayload 积分累积任务载荷
type OrderLoyaltyAccruePayload struct {
	OrderID uint `json:"order_id"`
	UserID  uint `json:"user_id"`
}

// NewOrderNotifyStatusTask 创建订单状态通知任务
func NewOrderNotifyStatusTask(payload OrderNotifyStatusPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderNotifyStatus, body), nil
}

// NewOrderNotifyTrackingTask 创建物流状态通知任务
func NewOrderNotifyTrackingTask(payload OrderNotifyTrackingPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderNotifyTracking, body), nil
}

// NewOrderLoyaltyAccrueTask 创建积分累积任务
func NewOrderLoyaltyAccrueTask(payload OrderLoyaltyAccruePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderLoyaltyAccrue, body), nil
}
