package repository

import (
	"errors"

	"github.com/homeplus-shop/internal/models"

	"gorm.io/gorm"
)

// OrderStatusHistoryRepository 订单状态历史数据访问接口（仅追加）
type OrderStatusHistoryRepository interface {
	Append(entry *models.OrderStatusHistory) error
	ListByOrder(orderID uint) ([]models.OrderStatusHistory, error)
	WithTx(tx *gorm.DB) OrderStatusHistoryRepository
}

// GormOrderStatusHistoryRepository GORM 实现
type GormOrderStatusHistoryRepository struct {
	db *gorm.DB
}

// NewOrderStatusHistoryRepository 创建状态历史仓库
func NewOrderStatusHistoryRepository(db *gorm.DB) *GormOrderStatusHistoryRepository {
	return &GormOrderStatusHistoryRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderStatusHistoryRepository) WithTx(tx *gorm.DB) OrderStatusHistoryRepository {
	if tx == nil {
		return r
	}
	return &GormOrderStatusHistoryRepository{db: tx}
}

// Append 追加一条状态历史
func (r *GormOrderStatusHistoryRepository) Append(entry *models.OrderStatusHistory) error {
	if entry == nil {
		return errors.New("history entry is nil")
	}
	if entry.OrderID == 0 {
		return errors.New("invalid order id")
	}
	return r.db.Create(entry).Error
}

// ListByOrder 获取订单状态历史（按时间正序）
func (r *GormOrderStatusHistoryRepository) ListByOrder(orderID uint) ([]models.OrderStatusHistory, error) {
	var entries []models.OrderStatusHistory
	if orderID == 0 {
		return entries, nil
	}
	if err := r.db.Where("order_id = ?", orderID).Order("id asc").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
