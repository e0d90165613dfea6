package repository

import (
	"errors"

	"github.com/homeplus-shop/internal/models"

	"gorm.io/gorm"
)

// UserRepository 用户数据访问接口
type UserRepository interface {
	GetByID(id uint) (*models.User, error)
	ListByIDs(ids []uint) ([]models.User, error)
	UpdateStats(userID uint, totalOrders int, totalSpent models.Money) error
	AddLoyaltyPoints(userID uint, points int64) error
	WithTx(tx *gorm.DB) UserRepository
}

// GormUserRepository GORM 实现
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓库
func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// WithTx 绑定事务
func (r *GormUserRepository) WithTx(tx *gorm.DB) UserRepository {
	if tx == nil {
		return r
	}
	return &GormUserRepository{db: tx}
}

// GetByID 根据 ID 获取用户
func (r *GormUserRepository) GetByID(id uint) (*models.User, error) {
	if id == 0 {
		return nil, errors.New("invalid user id")
	}
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// ListByIDs 批量获取用户
func (r *GormUserRepository) ListByIDs(ids []uint) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []models.User
	if err := r.db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateStats 覆盖写入用户累计统计
func (r *GormUserRepository) UpdateStats(userID uint, totalOrders int, totalSpent models.Money) error {
	if userID == 0 {
		return errors.New("invalid user id")
	}
	return r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"total_orders": totalOrders,
			"total_spent":  totalSpent,
		}).Error
}

// AddLoyaltyPoints 累加用户积分
func (r *GormUserRepository) AddLoyaltyPoints(userID uint, points int64) error {
	if userID == 0 {
		return errors.New("invalid user id")
	}
	if points <= 0 {
		return nil
	}
	return r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("loyalty_points", gorm.Expr("loyalty_points + ?", points)).Error
}
