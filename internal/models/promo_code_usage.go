package models

import "time"

// PromoCodeUsage 优惠码使用记录表（一单最多一条）
type PromoCodeUsage struct {
	ID             uint      `gorm:"primarykey" json:"id"`                                         // 主键
	PromoCodeID    uint      `gorm:"index;not null" json:"promo_code_id"`                          // 优惠码ID
	UserID         uint      `gorm:"index;not null;default:0" json:"user_id"`                      // 用户ID（游客为 0）
	OrderID        uint      `gorm:"uniqueIndex;not null" json:"order_id"`                         // 订单ID
	DiscountAmount Money     `gorm:"type:decimal(20,2);not null;default:0" json:"discount_amount"` // 抵扣金额
	OrderAmount    Money     `gorm:"type:decimal(20,2);not null;default:0" json:"order_amount"`    // 使用时订单金额
	CreatedAt      time.Time `gorm:"index" json:"created_at"`                                      // 创建时间
}

// TableName 指定表名
func (PromoCodeUsage) TableName() string {
	return "promo_code_usages"
}
