package models

import (
	"time"

	"gorm.io/gorm"
)

// ProductVariant 商品规格表（库存按规格维度管理）
type ProductVariant struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                                                     // 主键
	ProductID   uint           `gorm:"not null;index;uniqueIndex:idx_product_variant_code" json:"product_id"`                    // 商品ID
	VariantCode string         `gorm:"type:varchar(64);not null;uniqueIndex:idx_product_variant_code" json:"variant_code"`      // 规格编码（同商品内唯一）
	SpecJSON    JSON           `gorm:"type:json" json:"spec_values"`                                                             // 规格值（如颜色/尺寸）
	PriceAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price_amount"`                                // 规格价格
	Stock       int            `gorm:"not null;default:0" json:"stock"`                                                          // 库存数量（永不为负）
	IsActive    bool           `gorm:"default:true;index" json:"is_active"`                                                      // 是否启用
	SortOrder   int            `gorm:"default:0;index" json:"sort_order"`                                                        // 排序权重
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                                                                  // 创建时间
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`                                                                  // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                                                           // 软删除时间

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 关联商品
}

// TableName 指定表名
func (ProductVariant) TableName() string {
	return "product_variants"
}
