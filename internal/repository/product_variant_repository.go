package repository

import (
	"errors"

	"github.com/homeplus-shop/internal/models"

	"gorm.io/gorm"
)

// ProductVariantRepository 商品规格数据访问接口
type ProductVariantRepository interface {
	GetByID(id uint) (*models.ProductVariant, error)
	ListByIDs(ids []uint) ([]models.ProductVariant, error)
	ListByProduct(productID uint, onlyActive bool) ([]models.ProductVariant, error)
	DecrementStock(variantID uint, quantity int) (int64, error)
	IncrementStock(variantID uint, quantity int) (int64, error)
	WithTx(tx *gorm.DB) ProductVariantRepository
}

// GormProductVariantRepository GORM 实现
type GormProductVariantRepository struct {
	db *gorm.DB
}

// NewProductVariantRepository 创建规格仓库
func NewProductVariantRepository(db *gorm.DB) *GormProductVariantRepository {
	return &GormProductVariantRepository{db: db}
}

// WithTx 绑定事务
func (r *GormProductVariantRepository) WithTx(tx *gorm.DB) ProductVariantRepository {
	if tx == nil {
		return r
	}
	return &GormProductVariantRepository{db: tx}
}

// GetByID 根据 ID 获取规格
func (r *GormProductVariantRepository) GetByID(id uint) (*models.ProductVariant, error) {
	if id == 0 {
		return nil, errors.New("invalid variant id")
	}
	var item models.ProductVariant
	if err := r.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// ListByIDs 批量获取规格
func (r *GormProductVariantRepository) ListByIDs(ids []uint) ([]models.ProductVariant, error) {
	if len(ids) == 0 {
		return []models.ProductVariant{}, nil
	}
	var items []models.ProductVariant
	if err := r.db.Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ListByProduct 根据商品获取规格列表
func (r *GormProductVariantRepository) ListByProduct(productID uint, onlyActive bool) ([]models.ProductVariant, error) {
	if productID == 0 {
		return nil, errors.New("invalid product id")
	}
	query := r.db.Model(&models.ProductVariant{}).Where("product_id = ?", productID)
	if onlyActive {
		query = query.Where("is_active = ?", true)
	}
	var items []models.ProductVariant
	if err := query.Order("sort_order DESC, id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// DecrementStock 条件扣减库存，库存不足时不更新任何行。
// 调用方通过返回的影响行数判断扣减是否成功。
func (r *GormProductVariantRepository) DecrementStock(variantID uint, quantity int) (int64, error) {
	if variantID == 0 || quantity <= 0 {
		return 0, errors.New("invalid stock decrement params")
	}
	result := r.db.Model(&models.ProductVariant{}).
		Where("id = ? AND stock >= ?", variantID, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// IncrementStock 回补库存（取消订单 / 退货通过）
func (r *GormProductVariantRepository) IncrementStock(variantID uint, quantity int) (int64, error) {
	if variantID == 0 || quantity <= 0 {
		return 0, errors.New("invalid stock increment params")
	}
	result := r.db.Model(&models.ProductVariant{}).
		Where("id = ?", variantID).
		Update("stock", gorm.Expr("stock + ?", quantity))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
