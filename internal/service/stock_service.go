package service

import (
	"github.com/homeplus-shop/internal/repository"

	"gorm.io/gorm"
)

// StockLine 参与库存操作的行项目
type StockLine struct {
	VariantID *uint
	Quantity  int
}

// StockService 库存台账服务。
// 仅规格（variant）级别做库存追踪，未指定规格的基础商品不参与扣减。
type StockService struct {
	variantRepo repository.ProductVariantRepository
}

// NewStockService 创建库存服务
func NewStockService(variantRepo repository.ProductVariantRepository) *StockService {
	return &StockService{variantRepo: variantRepo}
}

// CheckAvailability 读侧校验库存是否充足，首个缺货项即返回
func (s *StockService) CheckAvailability(lines []StockLine) error {
	for _, line := range lines {
		if line.Quantity <= 0 {
			return ErrInvalidOrderItem
		}
		if line.VariantID == nil || *line.VariantID == 0 {
			continue
		}
		variant, err := s.variantRepo.GetByID(*line.VariantID)
		if err != nil {
			return err
		}
		if variant == nil {
			return ErrVariantNotFound
		}
		if variant.Stock < line.Quantity {
			return &InsufficientStockError{VariantID: *line.VariantID, Requested: line.Quantity}
		}
	}
	return nil
}

// ReserveAndDecrement 在调用方事务内条件扣减库存。
// 扣减语句自带 stock >= quantity 条件，影响行数为 0 即视为缺货，
// 返回错误由调用方回滚整个事务。
func (s *StockService) ReserveAndDecrement(tx *gorm.DB, lines []StockLine) error {
	repo := s.variantRepo.WithTx(tx)
	for _, line := range lines {
		if line.VariantID == nil || *line.VariantID == 0 {
			continue
		}
		if line.Quantity <= 0 {
			return ErrInvalidOrderItem
		}
		affected, err := repo.DecrementStock(*line.VariantID, line.Quantity)
		if err != nil {
			return err
		}
		if affected == 0 {
			return &InsufficientStockError{VariantID: *line.VariantID, Requested: line.Quantity}
		}
	}
	return nil
}

// Restore 在调用方事务内回补库存（退货通过 / 订单取消）
func (s *StockService) Restore(tx *gorm.DB, lines []StockLine) error {
	repo := s.variantRepo.WithTx(tx)
	for _, line := range lines {
		if line.VariantID == nil || *line.VariantID == 0 {
			continue
		}
		if line.Quantity <= 0 {
			return ErrInvalidOrderItem
		}
		if _, err := repo.IncrementStock(*line.VariantID, line.Quantity); err != nil {
			return err
		}
	}
	return nil
}
