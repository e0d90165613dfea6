package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表
type Order struct {
	ID              uint           `gorm:"primarykey" json:"id"`                                         // 主键
	OrderNo         string         `gorm:"uniqueIndex;not null" json:"order_no"`                         // 订单编号
	UserID          uint           `gorm:"index;not null" json:"user_id,omitempty"`                      // 用户ID（游客订单为 0）
	GuestName       string         `gorm:"type:varchar(100)" json:"guest_name,omitempty"`                // 游客姓名
	GuestPhone      string         `gorm:"type:varchar(32);index" json:"guest_phone,omitempty"`          // 游客手机号
	Source          string         `gorm:"type:varchar(20);not null;index" json:"source"`                // 来源渠道
	Status          string         `gorm:"index;not null" json:"status"`                                 // 订单状态
	Subtotal        Money          `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`        // 商品小计
	ShippingCost    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"shipping_cost"`   // 运费
	DiscountAmount  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"discount_amount"` // 优惠金额
	TotalAmount     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`    // 实付金额
	PromoCodeID     *uint          `gorm:"index" json:"promo_code_id,omitempty"`                         // 优惠码ID
	PaymentMethod   string         `gorm:"type:varchar(20)" json:"payment_method"`                       // 支付方式
	TrackingNo      string         `gorm:"type:varchar(64);index" json:"tracking_no,omitempty"`          // 物流单号
	ShippingAddress JSON           `gorm:"type:json" json:"shipping_address"`                            // 收货地址快照
	LocationID      *uint          `gorm:"index" json:"location_id,omitempty"`                           // 配送区域ID
	ClientIP        string         `gorm:"type:varchar(64)" json:"client_ip,omitempty"`                  // 下单客户端IP
	DeliveredAt     *time.Time     `gorm:"index" json:"delivered_at"`                                    // 送达时间
	CancelledAt     *time.Time     `gorm:"index" json:"cancelled_at"`                                    // 取消时间
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`                                      // 创建时间
	UpdatedAt       time.Time      `gorm:"index" json:"updated_at"`                                      // 更新时间
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                                               // 软删除时间

	// 关联
	Items   []OrderItem          `gorm:"foreignKey:OrderID" json:"items,omitempty"`   // 订单项
	History []OrderStatusHistory `gorm:"foreignKey:OrderID" json:"history,omitempty"` // 状态历史
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// IsGuest 判断是否游客订单
func (o *Order) IsGuest() bool {
	return o != nil && o.UserID == 0
}
