package models

import (
	"time"

	"gorm.io/gorm"
)

// DeliveryLocation 配送区域表（运费按区域计价）
type DeliveryLocation struct {
	ID        uint           `gorm:"primarykey" json:"id"`                               // 主键
	Name      string         `gorm:"not null;index" json:"name"`                         // 区域名称
	Price     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"` // 区域运费
	IsActive  bool           `gorm:"default:true;index" json:"is_active"`                // 是否启用
	SortOrder int            `gorm:"default:0;index" json:"sort_order"`                  // 排序权重
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                            // 创建时间
	UpdatedAt time.Time      `json:"updated_at"`                                         // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                                     // 软删除时间
}

// TableName 指定表名
func (DeliveryLocation) TableName() string {
	return "delivery_locations"
}
