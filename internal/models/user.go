package models

import (
	"time"

	"gorm.io/gorm"
)

// User 用户表
type User struct {
	ID            uint           `gorm:"primarykey" json:"id"`                                     // 主键
	Email         string         `gorm:"uniqueIndex;not null" json:"email"`                        // 邮箱
	DisplayName   string         `gorm:"default:''" json:"display_name"`                           // 昵称
	Phone         string         `gorm:"type:varchar(32)" json:"phone"`                            // 手机号
	TotalOrders   int            `gorm:"not null;default:0" json:"total_orders"`                   // 累计完成订单数
	TotalSpent    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_spent"` // 累计消费金额
	LoyaltyPoints int64          `gorm:"not null;default:0" json:"loyalty_points"`                 // 累计积分
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                                  // 创建时间
	UpdatedAt     time.Time      `gorm:"index" json:"updated_at"`                                  // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                                           // 软删除时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
