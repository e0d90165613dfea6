package service

import (
	"strings"
	"time"

	"github.com/homeplus-shop/internal/constants"
	"github.com/homeplus-shop/internal/logger"
	"github.com/homeplus-shop/internal/models"
	"github.com/homeplus-shop/internal/queue"
	"github.com/homeplus-shop/internal/repository"

	"gorm.io/gorm"
)

// allowedTransitions 严格策略下的状态流转图。
// returned 不在图中，只能由退货流程驱动。
var allowedTransitions = map[string]map[string]bool{
	constants.OrderStatusPending: {
		constants.OrderStatusConfirmed: true,
		constants.OrderStatusCancelled: true,
	},
	constants.OrderStatusConfirmed: {
		constants.OrderStatusProcessing: true,
		constants.OrderStatusCancelled:  true,
	},
	constants.OrderStatusProcessing: {
		constants.OrderStatusShipped:   true,
		constants.OrderStatusCancelled: true,
	},
	constants.OrderStatusShipped: {
		constants.OrderStatusDelivered: true,
	},
}

var knownStatuses = map[string]bool{
	constants.OrderStatusPending:    true,
	constants.OrderStatusConfirmed:  true,
	constants.OrderStatusProcessing: true,
	constants.OrderStatusShipped:    true,
	constants.OrderStatusDelivered:  true,
	constants.OrderStatusCancelled:  true,
	constants.OrderStatusReturned:   true,
}

func isTransitionAllowed(current, target string) bool {
	nexts, ok := allowedTransitions[current]
	if !ok {
		return false
	}
	return nexts[target]
}

// OrderStatusService 订单状态机服务
type OrderStatusService struct {
	orderRepo    repository.OrderRepository
	historyRepo  repository.OrderStatusHistoryRepository
	returnRepo   repository.ReturnRepository
	stockService *StockService
	numberGen    *NumberGenerator
	queueClient  *queue.Client
	policy       string
}

// NewOrderStatusService 创建状态机服务，policy 为 strict 或 free
func NewOrderStatusService(
	orderRepo repository.OrderRepository,
	historyRepo repository.OrderStatusHistoryRepository,
	returnRepo repository.ReturnRepository,
	stockService *StockService,
	numberGen *NumberGenerator,
	queueClient *queue.Client,
	policy string,
) *OrderStatusService {
	normalized := strings.ToLower(strings.TrimSpace(policy))
	if normalized != constants.StatusPolicyFree {
		normalized = constants.StatusPolicyStrict
	}
	return &OrderStatusService{
		orderRepo:    orderRepo,
		historyRepo:  historyRepo,
		returnRepo:   returnRepo,
		stockService: stockService,
		numberGen:    numberGen,
		queueClient:  queueClient,
		policy:       normalized,
	}
}

// Transition 执行状态流转。
// strict 策略按流转图校验，free 策略允许任意跨状态（管理端兜底），
// 两种策略下 returned 都不可直接设置。
func (s *OrderStatusService) Transition(orderID uint, target string, notes string, actor Actor) (*models.Order, error) {
	target = strings.ToLower(strings.TrimSpace(target))
	if !knownStatuses[target] {
		return nil, ErrOrderStatusUnknown
	}
	if target == constants.OrderStatusReturned {
		return nil, ErrOrderStatusInvalid
	}

	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status == target {
		return order, nil
	}
	if s.policy == constants.StatusPolicyStrict && !isTransitionAllowed(order.Status, target) {
		return nil, ErrOrderStatusInvalid
	}

	now := time.Now()
	updates := map[string]interface{}{"updated_at": now}

	trackingNo := order.TrackingNo
	if target == constants.OrderStatusShipped && strings.TrimSpace(trackingNo) == "" {
		generated, err := s.numberGen.GenerateTrackingNo()
		if err != nil {
			return nil, err
		}
		trackingNo = generated
		updates["tracking_no"] = trackingNo
	}
	if target == constants.OrderStatusDelivered {
		updates["delivered_at"] = now
	}
	if target == constants.OrderStatusCancelled {
		updates["cancelled_at"] = now
	}

	// 发货前取消需要回补已扣减的库存
	restoreStock := target == constants.OrderStatusCancelled && isPreShipped(order.Status)

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		historyRepo := s.historyRepo.WithTx(tx)

		if err := orderRepo.UpdateStatus(order.ID, target, updates); err != nil {
			return ErrOrderUpdateFailed
		}
		history := &models.OrderStatusHistory{
			OrderID:   order.ID,
			Status:    target,
			ActorType: actor.Type,
			ActorID:   actor.ID,
			ActorName: actor.Name,
			Notes:     strings.TrimSpace(notes),
			CreatedAt: now,
		}
		if err := historyRepo.Append(history); err != nil {
			return err
		}
		if restoreStock {
			return s.stockService.Restore(tx, stockLinesFromItems(order.Items))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order.Status = target
	order.TrackingNo = trackingNo
	order.UpdatedAt = now
	if target == constants.OrderStatusDelivered {
		order.DeliveredAt = &now
	}
	if target == constants.OrderStatusCancelled {
		order.CancelledAt = &now
	}

	s.notifyAfterTransition(order, target)
	return order, nil
}

func (s *OrderStatusService) notifyAfterTransition(order *models.Order, target string) {
	if s.queueClient == nil || !s.queueClient.Enabled() {
		return
	}
	statusPayload := queue.OrderNotifyStatusPayload{
		OrderID:    order.ID,
		OrderNo:    order.OrderNo,
		Status:     target,
		TrackingNo: order.TrackingNo,
	}
	if err := s.queueClient.EnqueueOrderNotifyStatus(statusPayload); err != nil {
		logger.Warnw("order_enqueue_status_notify_failed",
			"order_id", order.ID,
			"status", target,
			"error", err,
		)
	}
	if trackingPayload, ok := s.buildTrackingNotification(order, target); ok {
		if err := s.queueClient.EnqueueOrderNotifyTracking(trackingPayload); err != nil {
			logger.Warnw("order_enqueue_tracking_notify_failed",
				"order_id", order.ID,
				"tracking_no", order.TrackingNo,
				"error", err,
			)
		}
	}
	if target == constants.OrderStatusDelivered && order.UserID != 0 {
		loyaltyPayload := queue.OrderLoyaltyAccruePayload{
			OrderID: order.ID,
			UserID:  order.UserID,
		}
		if err := s.queueClient.EnqueueOrderLoyaltyAccrue(loyaltyPayload); err != nil {
			logger.Warnw("order_enqueue_loyalty_accrue_failed",
				"order_id", order.ID,
				"user_id", order.UserID,
				"error", err,
			)
		}
	}
}

// buildTrackingNotification 组装物流通知载荷，附带完整状态历史。
// 没有物流单号的订单不下发物流通知；历史读取失败时降级为空历史。
func (s *OrderStatusService) buildTrackingNotification(order *models.Order, target string) (queue.OrderNotifyTrackingPayload, bool) {
	if order == nil || strings.TrimSpace(order.TrackingNo) == "" {
		return queue.OrderNotifyTrackingPayload{}, false
	}
	payload := queue.OrderNotifyTrackingPayload{
		OrderID:    order.ID,
		TrackingNo: order.TrackingNo,
		Status:     target,
	}
	entries, err := s.historyRepo.ListByOrder(order.ID)
	if err != nil {
		logger.Warnw("order_notify_history_load_failed",
			"order_id", order.ID,
			"error", err,
		)
		return payload, true
	}
	for _, entry := range entries {
		payload.History = append(payload.History, queue.TrackingHistoryEntry{
			Status:    entry.Status,
			ActorName: entry.ActorName,
			Notes:     entry.Notes,
			CreatedAt: entry.CreatedAt,
		})
	}
	return payload, true
}

// markReturned 在退货流程的事务内把订单置为 returned 并追加历史
func (s *OrderStatusService) markReturned(tx *gorm.DB, order *models.Order, notes string, actor Actor) error {
	now := time.Now()
	orderRepo := s.orderRepo.WithTx(tx)
	historyRepo := s.historyRepo.WithTx(tx)

	if err := orderRepo.UpdateStatus(order.ID, constants.OrderStatusReturned, map[string]interface{}{"updated_at": now}); err != nil {
		return ErrOrderUpdateFailed
	}
	history := &models.OrderStatusHistory{
		OrderID:   order.ID,
		Status:    constants.OrderStatusReturned,
		ActorType: actor.Type,
		ActorID:   actor.ID,
		ActorName: actor.Name,
		Notes:     strings.TrimSpace(notes),
		CreatedAt: now,
	}
	return historyRepo.Append(history)
}

// BulkOperationResult 批量操作单项结果
type BulkOperationResult struct {
	OrderID uint   `json:"order_id"`
	OK      bool   `json:"ok"`
	Error   string `json:"error,omitempty"`
}

// BulkUpdateStatus 批量状态流转，单项失败不影响其余项
func (s *OrderStatusService) BulkUpdateStatus(orderIDs []uint, target string, notes string, actor Actor) []BulkOperationResult {
	results := make([]BulkOperationResult, 0, len(orderIDs))
	for _, id := range orderIDs {
		if _, err := s.Transition(id, target, notes, actor); err != nil {
			results = append(results, BulkOperationResult{OrderID: id, OK: false, Error: err.Error()})
			continue
		}
		results = append(results, BulkOperationResult{OrderID: id, OK: true})
	}
	return results
}

// DeleteOrder 硬删除订单及其订单项和历史。
// 存在未处理退货申请时拒绝删除。
func (s *OrderStatusService) DeleteOrder(orderID uint) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return ErrOrderFetchFailed
	}
	if order == nil {
		return ErrOrderNotFound
	}
	openReturns, err := s.returnRepo.CountOpenByOrder(orderID)
	if err != nil {
		return err
	}
	if openReturns > 0 {
		return ErrOrderHasOpenReturn
	}
	return s.orderRepo.HardDelete(orderID)
}

// BulkDelete 批量硬删除，单项失败不影响其余项
func (s *OrderStatusService) BulkDelete(orderIDs []uint) []BulkOperationResult {
	results := make([]BulkOperationResult, 0, len(orderIDs))
	for _, id := range orderIDs {
		if err := s.DeleteOrder(id); err != nil {
			results = append(results, BulkOperationResult{OrderID: id, OK: false, Error: err.Error()})
			continue
		}
		results = append(results, BulkOperationResult{OrderID: id, OK: true})
	}
	return results
}

func isPreShipped(status string) bool {
	switch status {
	case constants.OrderStatusPending, constants.OrderStatusConfirmed, constants.OrderStatusProcessing:
		return true
	default:
		return false
	}
}

func stockLinesFromItems(items []models.OrderItem) []StockLine {
	lines := make([]StockLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, StockLine{VariantID: item.VariantID, Quantity: item.Quantity})
	}
	return lines
}
