package repository

import (
	"errors"

	"github.com/homeplus-shop/internal/models"

	"gorm.io/gorm"
)

// DeliveryLocationRepository 配送区域数据访问接口
type DeliveryLocationRepository interface {
	GetByID(id uint) (*models.DeliveryLocation, error)
	ListActive() ([]models.DeliveryLocation, error)
	ListAll() ([]models.DeliveryLocation, error)
	WithTx(tx *gorm.DB) DeliveryLocationRepository
}

// GormDeliveryLocationRepository GORM 实现
type GormDeliveryLocationRepository struct {
	db *gorm.DB
}

// NewDeliveryLocationRepository 创建配送区域仓库
func NewDeliveryLocationRepository(db *gorm.DB) *GormDeliveryLocationRepository {
	return &GormDeliveryLocationRepository{db: db}
}

// WithTx 绑定事务
func (r *GormDeliveryLocationRepository) WithTx(tx *gorm.DB) DeliveryLocationRepository {
	if tx == nil {
		return r
	}
	return &GormDeliveryLocationRepository{db: tx}
}

// GetByID 根据 ID 获取配送区域
func (r *GormDeliveryLocationRepository) GetByID(id uint) (*models.DeliveryLocation, error) {
	if id == 0 {
		return nil, errors.New("invalid location id")
	}
	var location models.DeliveryLocation
	if err := r.db.First(&location, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &location, nil
}

// ListActive 获取启用中的配送区域列表
func (r *GormDeliveryLocationRepository) ListActive() ([]models.DeliveryLocation, error) {
	var locations []models.DeliveryLocation
	if err := r.db.Where("is_active = ?", true).Order("sort_order DESC, id ASC").Find(&locations).Error; err != nil {
		return nil, err
	}
	return locations, nil
}

// ListAll 获取全部配送区域（含停用）
func (r *GormDeliveryLocationRepository) ListAll() ([]models.DeliveryLocation, error) {
	var locations []models.DeliveryLocation
	if err := r.db.Order("sort_order DESC, id ASC").Find(&locations).Error; err != nil {
		return nil, err
	}
	return locations, nil
}
