package worker

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/homeplus-shop/internal/provider"
	"github.com/homeplus-shop/internal/queue"
	"github.com/homeplus-shop/internal/service"

	"github.com/hibiken/asynq"
)

type recordingSink struct {
	events []service.NotificationEvent
}

func (s *recordingSink) Send(_ context.Context, event service.NotificationEvent) error {
	s.events = append(s.events, event)
	return nil
}

func newTestConsumer(sink service.NotificationSink) *Consumer {
	return NewConsumer(&provider.Container{
		NotificationService: service.NewNotificationService(sink, 1),
	})
}

func TestHandleOrderNotifyStatus(t *testing.T) {
	sink := &recordingSink{}
	consumer := newTestConsumer(sink)

	payload, err := json.Marshal(queue.OrderNotifyStatusPayload{
		OrderID:    12,
		OrderNo:    "HP-20260101-010101-AAAA",
		Status:     "shipped",
		TrackingNo: "TRK-20260101-010101-AAAA",
	})
	if err != nil {
		t.Fatalf("marshal payload failed: %v", err)
	}

	task := asynq.NewTask(queue.TaskOrderNotifyStatus, payload)
	if err := consumer.handleOrderNotifyStatus(context.Background(), task); err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	if len(sink.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(sink.events))
	}
	event := sink.events[0]
	if event.Kind != "order_status" || event.OrderID != 12 || event.Status != "shipped" {
		t.Fatalf("unexpected event: %+v", event)
	}
}

func TestHandleOrderNotifyStatusInvalidPayload(t *testing.T) {
	sink := &recordingSink{}
	consumer := newTestConsumer(sink)

	bad := asynq.NewTask(queue.TaskOrderNotifyStatus, []byte("not-json"))
	if err := consumer.handleOrderNotifyStatus(context.Background(), bad); err == nil {
		t.Fatalf("expected unmarshal error")
	}

	// order_id 为 0 的任务静默跳过
	empty, err := json.Marshal(queue.OrderNotifyStatusPayload{})
	if err != nil {
		t.Fatalf("marshal payload failed: %v", err)
	}
	task := asynq.NewTask(queue.TaskOrderNotifyStatus, empty)
	if err := consumer.handleOrderNotifyStatus(context.Background(), task); err != nil {
		t.Fatalf("expected skip, got: %v", err)
	}
	if len(sink.events) != 0 {
		t.Fatalf("expected no events, got %d", len(sink.events))
	}
}

func TestHandleOrderNotifyTracking(t *testing.T) {
	sink := &recordingSink{}
	consumer := newTestConsumer(sink)

	payload, err := json.Marshal(queue.OrderNotifyTrackingPayload{
		OrderID:    34,
		TrackingNo: "TRK-20260101-010101-BBBB",
		Status:     "shipped",
		History: []queue.TrackingHistoryEntry{
			{Status: "confirmed", Notes: "电话确认"},
			{Status: "shipped"},
		},
	})
	if err != nil {
		t.Fatalf("marshal payload failed: %v", err)
	}

	task := asynq.NewTask(queue.TaskOrderNotifyTracking, payload)
	if err := consumer.handleOrderNotifyTracking(context.Background(), task); err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	if len(sink.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(sink.events))
	}
	event := sink.events[0]
	if event.Kind != "tracking" || event.TrackingNo != "TRK-20260101-010101-BBBB" {
		t.Fatalf("unexpected event: %+v", event)
	}
	if len(event.History) != 2 || event.History[0].Status != "confirmed" || event.History[1].Status != "shipped" {
		t.Fatalf("unexpected history: %+v", event.History)
	}
	if event.History[0].Notes != "电话确认" {
		t.Fatalf("expected notes carried through, got: %+v", event.History[0])
	}
}

func TestHandleOrderLoyaltyAccrueSkipsInvalidPayload(t *testing.T) {
	consumer := newTestConsumer(&recordingSink{})

	payload, err := json.Marshal(queue.OrderLoyaltyAccruePayload{OrderID: 0, UserID: 0})
	if err != nil {
		t.Fatalf("marshal payload failed: %v", err)
	}
	task := asynq.NewTask(queue.TaskOrderLoyaltyAccrue, payload)
	if err := consumer.handleOrderLoyaltyAccrue(context.Background(), task); err != nil {
		t.Fatalf("expected skip, got: %v", err)
	}
}
