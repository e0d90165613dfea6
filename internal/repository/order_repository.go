package repository

import (
	"errors"
	"strings"

	"github.com/homeplus-shop/internal/constants"
	"github.com/homeplus-shop/internal/models"

	"gorm.io/gorm"
)

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	Create(order *models.Order, items []models.OrderItem) error
	GetByID(id uint) (*models.Order, error)
	GetByIDAndUser(id uint, userID uint) (*models.Order, error)
	GetByOrderNo(orderNo string) (*models.Order, error)
	GetByTrackingNo(trackingNo string) (*models.Order, error)
	ExistsOrderNo(orderNo string) (bool, error)
	ExistsTrackingNo(trackingNo string) (bool, error)
	ListByUser(filter OrderListFilter) ([]models.Order, int64, error)
	ListAdmin(filter OrderListFilter) ([]models.Order, int64, error)
	UpdateStatus(id uint, status string, updates map[string]interface{}) error
	HardDelete(id uint) error
	DeliveredStatsByUser(userID uint) (int64, models.Money, error)
	WithTx(tx *gorm.DB) OrderRepository
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderRepository) WithTx(tx *gorm.DB) OrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// Create 创建订单与订单项
func (r *GormOrderRepository) Create(order *models.Order, items []models.OrderItem) error {
	if err := r.db.Create(order).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].OrderID = order.ID
	}
	if len(items) > 0 {
		if err := r.db.Create(&items).Error; err != nil {
			return err
		}
		order.Items = items
	}
	return nil
}

// GetByID 根据 ID 获取订单
func (r *GormOrderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	query := r.db.Preload("Items").Preload("History")
	if err := query.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByIDAndUser 获取用户订单详情
func (r *GormOrderRepository) GetByIDAndUser(id uint, userID uint) (*models.Order, error) {
	var order models.Order
	query := r.db.Preload("Items").Preload("History")
	if err := query.Where("id = ? AND user_id = ?", id, userID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByOrderNo 根据订单编号获取订单
func (r *GormOrderRepository) GetByOrderNo(orderNo string) (*models.Order, error) {
	trimmed := strings.TrimSpace(orderNo)
	if trimmed == "" {
		return nil, nil
	}
	var order models.Order
	query := r.db.Preload("Items").Preload("History")
	if err := query.Where("order_no = ?", trimmed).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByTrackingNo 根据物流单号获取订单
func (r *GormOrderRepository) GetByTrackingNo(trackingNo string) (*models.Order, error) {
	trimmed := strings.TrimSpace(trackingNo)
	if trimmed == "" {
		return nil, nil
	}
	var order models.Order
	query := r.db.Preload("Items").Preload("History")
	if err := query.Where("tracking_no = ?", trimmed).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// ExistsOrderNo 判断订单编号是否已占用
func (r *GormOrderRepository) ExistsOrderNo(orderNo string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Order{}).Where("order_no = ?", orderNo).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsTrackingNo 判断物流单号是否已占用
func (r *GormOrderRepository) ExistsTrackingNo(trackingNo string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Order{}).Where("tracking_no = ?", trackingNo).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListByUser 获取用户订单列表
func (r *GormOrderRepository) ListByUser(filter OrderListFilter) ([]models.Order, int64, error) {
	var orders []models.Order
	query := r.db.Model(&models.Order{}).Where("user_id = ?", filter.UserID)

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.OrderNo != "" {
		query = query.Where("order_no LIKE ?", "%"+filter.OrderNo+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Preload("Items").Order("id desc").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// ListAdmin 管理端订单列表
func (r *GormOrderRepository) ListAdmin(filter OrderListFilter) ([]models.Order, int64, error) {
	var orders []models.Order
	query := r.db.Model(&models.Order{})

	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Source != "" {
		query = query.Where("source = ?", filter.Source)
	}
	if filter.OrderNo != "" {
		query = query.Where("order_no = ?", filter.OrderNo)
	}
	if filter.GuestPhone != "" {
		query = query.Where("guest_phone = ?", filter.GuestPhone)
	}
	if filter.TrackingNo != "" {
		query = query.Where("tracking_no = ?", filter.TrackingNo)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Preload("Items").Order("id desc").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// UpdateStatus 更新订单状态
func (r *GormOrderRepository) UpdateStatus(id uint, status string, updates map[string]interface{}) error {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = status
	return r.db.Model(&models.Order{}).Where("id = ?", id).Updates(updates).Error
}

// DeliveredStatsByUser 统计用户已送达订单数与累计消费金额
func (r *GormOrderRepository) DeliveredStatsByUser(userID uint) (int64, models.Money, error) {
	if userID == 0 {
		return 0, models.Money{}, errors.New("invalid user id")
	}
	var row struct {
		Count int64
		Total models.Money
	}
	if err := r.db.Model(&models.Order{}).
		Select("COUNT(*) AS count, COALESCE(SUM(total_amount), 0) AS total").
		Where("user_id = ? AND status = ?", userID, constants.OrderStatusDelivered).
		Take(&row).Error; err != nil {
		return 0, models.Money{}, err
	}
	return row.Count, row.Total, nil
}

// HardDelete 物理删除订单及其订单项与状态历史
func (r *GormOrderRepository) HardDelete(id uint) error {
	if id == 0 {
		return errors.New("invalid order id")
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("order_id = ?", id).Delete(&models.OrderStatusHistory{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&models.Order{}, id).Error
	})
}
