package service

import (
	"strings"
	"time"

	"github.com/homeplus-shop/internal/constants"
	"github.com/homeplus-shop/internal/models"
	"github.com/homeplus-shop/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReturnService 退货处理服务
type ReturnService struct {
	returnRepo    repository.ReturnRepository
	orderRepo     repository.OrderRepository
	refundRepo    repository.RefundRepository
	stockService  *StockService
	statusService *OrderStatusService
	numberGen     *NumberGenerator
}

// NewReturnService 创建退货服务
func NewReturnService(
	returnRepo repository.ReturnRepository,
	orderRepo repository.OrderRepository,
	refundRepo repository.RefundRepository,
	stockService *StockService,
	statusService *OrderStatusService,
	numberGen *NumberGenerator,
) *ReturnService {
	return &ReturnService{
		returnRepo:    returnRepo,
		orderRepo:     orderRepo,
		refundRepo:    refundRepo,
		stockService:  stockService,
		statusService: statusService,
		numberGen:     numberGen,
	}
}

// ReturnItemInput 退货项输入
type ReturnItemInput struct {
	OrderItemID uint
	Quantity    int
}

// CreateReturnInput 创建退货申请输入
type CreateReturnInput struct {
	UserID  uint
	OrderID uint
	Items   []ReturnItemInput
	Reason  string
}

// CreateReturn 创建退货申请。
// 仅限已送达、且归属匹配的订单，一单同一时间最多一个未处理申请。
func (s *ReturnService) CreateReturn(input CreateReturnInput) (*models.ReturnRequest, error) {
	if input.OrderID == 0 || len(input.Items) == 0 {
		return nil, ErrReturnItemInvalid
	}

	order, err := s.orderRepo.GetByID(input.OrderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil || order.UserID != input.UserID {
		return nil, ErrOrderNotFound
	}
	if order.Status != constants.OrderStatusDelivered {
		return nil, ErrReturnNotAllowed
	}

	open, err := s.returnRepo.CountOpenByOrder(order.ID)
	if err != nil {
		return nil, err
	}
	if open > 0 {
		return nil, ErrReturnAlreadyOpen
	}

	orderItems := make(map[uint]models.OrderItem, len(order.Items))
	for _, item := range order.Items {
		orderItems[item.ID] = item
	}

	returnItems := make([]models.ReturnItem, 0, len(input.Items))
	for _, item := range input.Items {
		ordered, ok := orderItems[item.OrderItemID]
		if !ok {
			return nil, ErrReturnItemInvalid
		}
		if item.Quantity <= 0 {
			return nil, ErrReturnItemInvalid
		}
		if item.Quantity > ordered.Quantity {
			return nil, ErrReturnQuantityInvalid
		}
		returnItems = append(returnItems, models.ReturnItem{
			OrderItemID: item.OrderItemID,
			Quantity:    item.Quantity,
		})
	}

	returnNo, err := s.numberGen.GenerateReturnNo()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	request := &models.ReturnRequest{
		ReturnNo:  returnNo,
		OrderID:   order.ID,
		UserID:    order.UserID,
		Status:    constants.ReturnStatusRequested,
		Reason:    strings.TrimSpace(input.Reason),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.returnRepo.Create(request, returnItems); err != nil {
		return nil, err
	}
	return request, nil
}

// ProcessReturnInput 处理退货申请输入
type ProcessReturnInput struct {
	ReturnID     uint
	Decision     string // approve / reject
	Notes        string
	RefundAmount *models.Money
	Actor        Actor
}

// ProcessReturn 处理退货申请。
// 通过时在同一事务内回补库存、落退款流水并把订单置为 returned，
// 驳回只更新申请状态与备注。
func (s *ReturnService) ProcessReturn(input ProcessReturnInput) (*models.ReturnRequest, error) {
	request, err := s.returnRepo.GetByID(input.ReturnID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, ErrReturnNotFound
	}
	if request.Status != constants.ReturnStatusRequested {
		return nil, ErrReturnAlreadyDecided
	}

	decision := strings.ToLower(strings.TrimSpace(input.Decision))
	switch decision {
	case constants.ReturnDecisionApprove:
		return s.approveReturn(request, input)
	case constants.ReturnDecisionReject:
		return s.rejectReturn(request, input)
	default:
		return nil, ErrReturnDecisionInvalid
	}
}

func (s *ReturnService) approveReturn(request *models.ReturnRequest, input ProcessReturnInput) (*models.ReturnRequest, error) {
	order, err := s.orderRepo.GetByID(request.OrderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	orderItems := make(map[uint]models.OrderItem, len(order.Items))
	for _, item := range order.Items {
		orderItems[item.ID] = item
	}

	restoreLines := make([]StockLine, 0, len(request.Items))
	computedRefund := decimal.Zero
	for _, item := range request.Items {
		ordered, ok := orderItems[item.OrderItemID]
		if !ok {
			return nil, ErrReturnItemInvalid
		}
		restoreLines = append(restoreLines, StockLine{VariantID: ordered.VariantID, Quantity: item.Quantity})
		computedRefund = computedRefund.Add(ordered.UnitPrice.Decimal.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	refund := models.NewMoneyFromDecimal(computedRefund)
	if input.RefundAmount != nil && input.RefundAmount.Decimal.GreaterThanOrEqual(decimal.Zero) {
		refund = *input.RefundAmount
	}

	now := time.Now()
	notes := strings.TrimSpace(input.Notes)
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		returnRepo := s.returnRepo.WithTx(tx)
		refundRepo := s.refundRepo.WithTx(tx)

		request.Status = constants.ReturnStatusApproved
		request.Notes = notes
		request.RefundAmount = refund
		request.ProcessedAt = &now
		request.UpdatedAt = now
		if err := returnRepo.Update(request); err != nil {
			return err
		}
		if err := s.stockService.Restore(tx, restoreLines); err != nil {
			return err
		}
		row := &models.Refund{
			OrderID:         order.ID,
			ReturnRequestID: request.ID,
			Amount:          refund,
			Notes:           notes,
			CreatedAt:       now,
		}
		if err := refundRepo.Create(row); err != nil {
			return err
		}
		return s.statusService.markReturned(tx, order, notes, input.Actor)
	})
	if err != nil {
		return nil, err
	}

	order.Status = constants.OrderStatusReturned
	s.statusService.notifyAfterTransition(order, constants.OrderStatusReturned)
	return request, nil
}

func (s *ReturnService) rejectReturn(request *models.ReturnRequest, input ProcessReturnInput) (*models.ReturnRequest, error) {
	now := time.Now()
	request.Status = constants.ReturnStatusRejected
	request.Notes = strings.TrimSpace(input.Notes)
	request.ProcessedAt = &now
	request.UpdatedAt = now
	if err := s.returnRepo.Update(request); err != nil {
		return nil, err
	}
	return request, nil
}

// GetReturn 查询退货申请
func (s *ReturnService) GetReturn(returnID uint) (*models.ReturnRequest, error) {
	request, err := s.returnRepo.GetByID(returnID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, ErrReturnNotFound
	}
	return request, nil
}

// ListReturnsByOrder 查询订单的退货申请
func (s *ReturnService) ListReturnsByOrder(orderID uint) ([]models.ReturnRequest, error) {
	return s.returnRepo.ListByOrder(orderID)
}

// ListReturnsForAdmin 管理端退货列表
func (s *ReturnService) ListReturnsForAdmin(filter repository.ReturnListFilter) ([]models.ReturnRequest, int64, error) {
	return s.returnRepo.ListAdmin(filter)
}
