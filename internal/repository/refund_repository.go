package repository

import (
	"errors"

	"github.com/homeplus-shop/internal/models"

	"gorm.io/gorm"
)

// RefundRepository 退款流水数据访问接口
type RefundRepository interface {
	Create(refund *models.Refund) error
	ListByOrder(orderID uint) ([]models.Refund, error)
	WithTx(tx *gorm.DB) RefundRepository
}

// GormRefundRepository GORM 实现
type GormRefundRepository struct {
	db *gorm.DB
}

// NewRefundRepository 创建退款仓库
func NewRefundRepository(db *gorm.DB) *GormRefundRepository {
	return &GormRefundRepository{db: db}
}

// WithTx 绑定事务
func (r *GormRefundRepository) WithTx(tx *gorm.DB) RefundRepository {
	if tx == nil {
		return r
	}
	return &GormRefundRepository{db: tx}
}

// Create 创建退款流水
func (r *GormRefundRepository) Create(refund *models.Refund) error {
	if refund == nil {
		return errors.New("refund is nil")
	}
	return r.db.Create(refund).Error
}

// ListByOrder 获取订单退款流水
func (r *GormRefundRepository) ListByOrder(orderID uint) ([]models.Refund, error) {
	var refunds []models.Refund
	if orderID == 0 {
		return refunds, nil
	}
	if err := r.db.Where("order_id = ?", orderID).Order("id asc").Find(&refunds).Error; err != nil {
		return nil, err
	}
	return refunds, nil
}
