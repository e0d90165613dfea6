package models

import (
	"time"

	"gorm.io/gorm"
)

// PromoCode 优惠码表
type PromoCode struct {
	ID           uint           `gorm:"primarykey" json:"id"`                                    // 主键
	Code         string         `gorm:"uniqueIndex;not null" json:"code"`                        // 优惠码
	Type         string         `gorm:"type:varchar(20);not null" json:"type"`                   // 类型（fixed/percent）
	Value        Money          `gorm:"type:decimal(20,2);not null;default:0" json:"value"`      // 面值或折扣百分比
	MinAmount    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"min_amount"` // 最低使用金额
	MaxUses      int            `gorm:"not null;default:0" json:"max_uses"`                      // 总使用次数上限（0 不限制）
	MaxUsesUser  int            `gorm:"not null;default:0" json:"max_uses_user"`                 // 单用户使用次数上限（0 不限制）
	UsedCount    int            `gorm:"not null;default:0" json:"used_count"`                    // 已使用次数
	ProductIDs   StringArray    `gorm:"type:json" json:"product_ids"`                            // 限定商品范围（空为全场）
	CategoryIDs  StringArray    `gorm:"type:json" json:"category_ids"`                           // 限定分类范围（空为全场）
	StartsAt     *time.Time     `gorm:"index" json:"starts_at"`                                  // 生效时间
	ExpiresAt    *time.Time     `gorm:"index" json:"expires_at"`                                 // 失效时间
	IsActive     bool           `gorm:"default:true;index" json:"is_active"`                     // 是否启用
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                                 // 创建时间
	UpdatedAt    time.Time      `json:"updated_at"`                                              // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                          // 软删除时间
}

// TableName 指定表名
func (PromoCode) TableName() string {
	return "promo_codes"
}
