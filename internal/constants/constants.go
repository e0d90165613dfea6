package constants

// 订单状态常量
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
	OrderStatusReturned   = "returned"
)

// 订单来源渠道常量
const (
	OrderSourceWeb      = "web"
	OrderSourceWhatsApp = "whatsapp"
	OrderSourceAdmin    = "admin"
)

// 订单编号前缀常量
const (
	OrderPrefixWeb      = "HP"
	OrderPrefixWhatsApp = "WA"
	OrderPrefixAdmin    = "AD"
)

// 状态流转策略常量
const (
	StatusPolicyStrict = "strict"
	StatusPolicyFree   = "free"
)

// 操作者类型常量
const (
	ActorTypeUser   = "user"
	ActorTypeAdmin  = "admin"
	ActorTypeSystem = "system"
)

// 退货状态常量
const (
	ReturnStatusRequested = "requested"
	ReturnStatusApproved  = "approved"
	ReturnStatusRejected  = "rejected"
)

// 退货处理动作常量
const (
	ReturnDecisionApprove = "approve"
	ReturnDecisionReject  = "reject"
)

// 优惠码类型常量
const (
	PromoTypeFixed   = "fixed"
	PromoTypePercent = "percent"
)

// 支付方式常量
const (
	PaymentMethodCOD      = "cod"
	PaymentMethodCard     = "card"
	PaymentMethodTransfer = "transfer"
)

// 队列常量
const (
	QueueDefault           = "default"
	TaskOrderNotifyStatus  = "order:notify_status"
	TaskOrderNotifyTrack   = "order:notify_tracking"
	TaskOrderLoyaltyAccrue = "order:loyalty_accrue"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "hp"
)
