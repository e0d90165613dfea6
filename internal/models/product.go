package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                      // 主键
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`                          // 唯一标识
	Name        string         `gorm:"not null" json:"name"`                                      // 商品名称
	Description string         `gorm:"type:text" json:"description"`                              // 描述
	CategoryID  uint           `gorm:"index" json:"category_id"`                                  // 分类ID
	PriceAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price_amount"` // 基础价格
	Images      StringArray    `gorm:"type:json" json:"images"`                                   // 图片数组
	Tags        StringArray    `gorm:"type:json" json:"tags"`                                     // 标签数组
	IsActive    bool           `gorm:"default:true;index" json:"is_active"`                       // 是否上架
	SortOrder   int            `gorm:"default:0;index" json:"sort_order"`                         // 排序权重
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                                // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                            // 软删除时间

	// 关联
	Variants []ProductVariant `gorm:"foreignKey:ProductID" json:"variants,omitempty"` // 规格列表
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}
