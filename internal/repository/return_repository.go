package repository

import (
	"errors"

	"github.com/homeplus-shop/internal/constants"
	"github.com/homeplus-shop/internal/models"

	"gorm.io/gorm"
)

// ReturnRepository 退货申请数据访问接口
type ReturnRepository interface {
	Create(request *models.ReturnRequest, items []models.ReturnItem) error
	GetByID(id uint) (*models.ReturnRequest, error)
	ListByOrder(orderID uint) ([]models.ReturnRequest, error)
	ListAdmin(filter ReturnListFilter) ([]models.ReturnRequest, int64, error)
	CountOpenByOrder(orderID uint) (int64, error)
	Update(request *models.ReturnRequest) error
	ExistsReturnNo(returnNo string) (bool, error)
	WithTx(tx *gorm.DB) ReturnRepository
}

// GormReturnRepository GORM 实现
type GormReturnRepository struct {
	db *gorm.DB
}

// NewReturnRepository 创建退货仓库
func NewReturnRepository(db *gorm.DB) *GormReturnRepository {
	return &GormReturnRepository{db: db}
}

// WithTx 绑定事务
func (r *GormReturnRepository) WithTx(tx *gorm.DB) ReturnRepository {
	if tx == nil {
		return r
	}
	return &GormReturnRepository{db: tx}
}

// Create 创建退货申请与退货项
func (r *GormReturnRepository) Create(request *models.ReturnRequest, items []models.ReturnItem) error {
	if request == nil {
		return errors.New("return request is nil")
	}
	if err := r.db.Create(request).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].ReturnRequestID = request.ID
	}
	if len(items) > 0 {
		if err := r.db.Create(&items).Error; err != nil {
			return err
		}
		request.Items = items
	}
	return nil
}

// GetByID 根据 ID 获取退货申请
func (r *GormReturnRepository) GetByID(id uint) (*models.ReturnRequest, error) {
	if id == 0 {
		return nil, errors.New("invalid return id")
	}
	var request models.ReturnRequest
	if err := r.db.Preload("Items").First(&request, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &request, nil
}

// ListByOrder 获取订单退货申请列表
func (r *GormReturnRepository) ListByOrder(orderID uint) ([]models.ReturnRequest, error) {
	var requests []models.ReturnRequest
	if orderID == 0 {
		return requests, nil
	}
	if err := r.db.Preload("Items").Where("order_id = ?", orderID).Order("id desc").Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// ListAdmin 管理端退货申请列表
func (r *GormReturnRepository) ListAdmin(filter ReturnListFilter) ([]models.ReturnRequest, int64, error) {
	var requests []models.ReturnRequest
	query := r.db.Model(&models.ReturnRequest{})

	if filter.OrderID != 0 {
		query = query.Where("order_id = ?", filter.OrderID)
	}
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.ReturnNo != "" {
		query = query.Where("return_no = ?", filter.ReturnNo)
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
	if err := query.Preload("Items").Order("id desc").Find(&requests).Error; err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

// CountOpenByOrder 统计订单下未处理的退货申请数
func (r *GormReturnRepository) CountOpenByOrder(orderID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.ReturnRequest{}).
		Where("order_id = ? AND status = ?", orderID, constants.ReturnStatusRequested).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Update 更新退货申请
func (r *GormReturnRepository) Update(request *models.ReturnRequest) error {
	if request == nil || request.ID == 0 {
		return errors.New("invalid return request")
	}
	return r.db.Save(request).Error
}

// ExistsReturnNo 判断退货编号是否已占用
func (r *GormReturnRepository) ExistsReturnNo(returnNo string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.ReturnRequest{}).Where("return_no = ?", returnNo).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
