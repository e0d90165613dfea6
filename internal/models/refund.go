package models

import "time"

// Refund 退款流水表
type Refund struct {
	ID              uint      `gorm:"primarykey" json:"id"`                                // 主键
	OrderID         uint      `gorm:"index;not null" json:"order_id"`                      // 订单ID
	ReturnRequestID uint      `gorm:"index;not null" json:"return_request_id"`             // 退货申请ID
	Amount          Money     `gorm:"type:decimal(20,2);not null;default:0" json:"amount"` // 退款金额
	Notes           string    `gorm:"type:text" json:"notes,omitempty"`                    // 备注
	CreatedAt       time.Time `gorm:"index" json:"created_at"`                             // 创建时间
}

// TableName 指定表名
func (Refund) TableName() string {
	return "refunds"
}
