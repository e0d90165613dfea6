package repository

import (
	"errors"

	"github.com/homeplus-shop/internal/models"

	"gorm.io/gorm"
)

// PromoCodeUsageRepository 优惠码使用记录数据访问接口
type PromoCodeUsageRepository interface {
	Create(usage *models.PromoCodeUsage) error
	CountByPromo(promoCodeID uint) (int64, error)
	CountByPromoAndUser(promoCodeID, userID uint) (int64, error)
	WithTx(tx *gorm.DB) PromoCodeUsageRepository
}

// GormPromoCodeUsageRepository GORM 实现
type GormPromoCodeUsageRepository struct {
	db *gorm.DB
}

// NewPromoCodeUsageRepository 创建优惠码使用记录仓库
func NewPromoCodeUsageRepository(db *gorm.DB) *GormPromoCodeUsageRepository {
	return &GormPromoCodeUsageRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPromoCodeUsageRepository) WithTx(tx *gorm.DB) PromoCodeUsageRepository {
	if tx == nil {
		return r
	}
	return &GormPromoCodeUsageRepository{db: tx}
}

// Create 创建使用记录
func (r *GormPromoCodeUsageRepository) Create(usage *models.PromoCodeUsage) error {
	if usage == nil {
		return errors.New("usage is nil")
	}
	return r.db.Create(usage).Error
}

// CountByPromo 统计优惠码总使用次数
func (r *GormPromoCodeUsageRepository) CountByPromo(promoCodeID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.PromoCodeUsage{}).
		Where("promo_code_id = ?", promoCodeID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByPromoAndUser 统计单用户使用次数
func (r *GormPromoCodeUsageRepository) CountByPromoAndUser(promoCodeID, userID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.PromoCodeUsage{}).
		Where("promo_code_id = ? AND user_id = ?", promoCodeID, userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
