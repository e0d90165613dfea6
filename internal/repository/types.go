package repository

import "time"

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	Status      string
	Source      string
	OrderNo     string
	GuestPhone  string
	TrackingNo  string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// ReturnListFilter 查询退货申请列表的过滤条件
type ReturnListFilter struct {
	Page        int
	PageSize    int
	OrderID     uint
	UserID      uint
	Status      string
	ReturnNo    string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}
