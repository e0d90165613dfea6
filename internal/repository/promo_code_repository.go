package repository

import (
	"errors"
	"strings"

	"github.com/homeplus-shop/internal/models"

	"gorm.io/gorm"
)

// PromoCodeRepository 优惠码数据访问接口
type PromoCodeRepository interface {
	GetByCode(code string) (*models.PromoCode, error)
	GetByID(id uint) (*models.PromoCode, error)
	IncrementUsedCount(id uint) error
	WithTx(tx *gorm.DB) PromoCodeRepository
}

// GormPromoCodeRepository GORM 实现
type GormPromoCodeRepository struct {
	db *gorm.DB
}

// NewPromoCodeRepository 创建优惠码仓库
func NewPromoCodeRepository(db *gorm.DB) *GormPromoCodeRepository {
	return &GormPromoCodeRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPromoCodeRepository) WithTx(tx *gorm.DB) PromoCodeRepository {
	if tx == nil {
		return r
	}
	return &GormPromoCodeRepository{db: tx}
}

// GetByCode 根据优惠码获取记录
func (r *GormPromoCodeRepository) GetByCode(code string) (*models.PromoCode, error) {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return nil, nil
	}
	var promo models.PromoCode
	if err := r.db.Where("code = ?", trimmed).First(&promo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &promo, nil
}

// GetByID 根据 ID 获取优惠码
func (r *GormPromoCodeRepository) GetByID(id uint) (*models.PromoCode, error) {
	if id == 0 {
		return nil, errors.New("invalid promo code id")
	}
	var promo models.PromoCode
	if err := r.db.First(&promo, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &promo, nil
}

// IncrementUsedCount 累加使用次数
func (r *GormPromoCodeRepository) IncrementUsedCount(id uint) error {
	if id == 0 {
		return errors.New("invalid promo code id")
	}
	return r.db.Model(&models.PromoCode{}).
		Where("id = ?", id).
		Update("used_count", gorm.Expr("used_count + 1")).Error
}
