package models

import "time"

// OrderStatusHistory 订单状态历史表（仅追加，永不修改或删除）
type OrderStatusHistory struct {
	ID        uint      `gorm:"primarykey" json:"id"`                           // 主键
	OrderID   uint      `gorm:"index;not null" json:"order_id"`                 // 订单ID
	Status    string    `gorm:"not null" json:"status"`                         // 变更后状态
	ActorType string    `gorm:"type:varchar(20);not null" json:"actor_type"`    // 操作者类型（user/admin/system）
	ActorID   uint      `gorm:"not null;default:0" json:"actor_id"`             // 操作者ID（system 为 0）
	ActorName string    `gorm:"type:varchar(100)" json:"actor_name,omitempty"`  // 操作者名称
	Notes     string    `gorm:"type:text" json:"notes,omitempty"`               // 备注
	CreatedAt time.Time `gorm:"index" json:"created_at"`                        // 创建时间
}

// TableName 指定表名
func (OrderStatusHistory) TableName() string {
	return "order_status_histories"
}
