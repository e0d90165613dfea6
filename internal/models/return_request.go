package models

import (
	"time"

	"gorm.io/gorm"
)

// ReturnRequest 退货申请表
type ReturnRequest struct {
	ID           uint           `gorm:"primarykey" json:"id"`                                       // 主键
	ReturnNo     string         `gorm:"uniqueIndex;not null" json:"return_no"`                      // 退货编号
	OrderID      uint           `gorm:"index;not null" json:"order_id"`                             // 订单ID
	UserID       uint           `gorm:"index;not null;default:0" json:"user_id"`                    // 用户ID（游客为 0）
	Status       string         `gorm:"index;not null" json:"status"`                               // 状态（requested/approved/rejected）
	Reason       string         `gorm:"type:text" json:"reason"`                                    // 退货原因
	Notes        string         `gorm:"type:text" json:"notes,omitempty"`                           // 处理备注
	RefundAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"refund_amount"` // 退款金额
	ProcessedAt  *time.Time     `gorm:"index" json:"processed_at"`                                  // 处理时间
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                                    // 创建时间
	UpdatedAt    time.Time      `gorm:"index" json:"updated_at"`                                    // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                             // 软删除时间

	Items []ReturnItem `gorm:"foreignKey:ReturnRequestID" json:"items,omitempty"` // 退货项
}

// TableName 指定表名
func (ReturnRequest) TableName() string {
	return "return_requests"
}

// ReturnItem 退货项表
type ReturnItem struct {
	ID              uint      `gorm:"primarykey" json:"id"`                    // 主键
	ReturnRequestID uint      `gorm:"index;not null" json:"return_request_id"` // 退货申请ID
	OrderItemID     uint      `gorm:"index;not null" json:"order_item_id"`     // 原订单项ID
	Quantity        int       `gorm:"not null" json:"quantity"`                // 退货数量（不超过原购数量）
	CreatedAt       time.Time `gorm:"index" json:"created_at"`                 // 创建时间
}

// TableName 指定表名
func (ReturnItem) TableName() string {
	return "return_items"
}
