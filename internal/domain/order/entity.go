// internal/domain/order/entity.go
package order

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// OrderStatus represents the order status
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusShipping  OrderStatus = "shipping"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

var validTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:  {OrderStatusPaid, OrderStatusCancelled},
	OrderStatusPaid:     {OrderStatusShipping, OrderStatusCancelled},
	OrderStatusShipping: {OrderStatusDelivered},
}

// CanTransition reports whether an order may move from one status to another
func CanTransition(from, to OrderStatus) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Order is a placed order with its shipping details
type Order struct {
	OID        uint           `gorm:"column:oid;primaryKey" json:"oid"`
	OrderID    string         `gorm:"column:order_id;uniqueIndex;not null;size:36" json:"orderId"`
	Email      string         `gorm:"not null;size:255;index" json:"email"`
	Status     OrderStatus    `gorm:"not null;size:20;default:'pending'" json:"status"`
	Name       string         `gorm:"not null;size:100" json:"name"`
	PostCode   string         `gorm:"size:10" json:"postCode"`
	Addr       string         `gorm:"size:255" json:"addr"`
	DetailAddr string         `gorm:"size:255" json:"detailAddr"`
	Tel        string         `gorm:"size:20" json:"tel"`
	Req        string         `gorm:"size:500" json:"req"`
	Way        string         `gorm:"size:50" json:"way"`
	TotalPrice int64          `gorm:"not null" json:"totalPrice"`
	RegDate    time.Time      `gorm:"autoCreateTime" json:"regDate"`
	UpdatedAt  time.Time      `json:"updatedAt"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	Items []OrderItem `gorm:"foreignKey:OID;references:OID" json:"items,omitempty"`
}

// OrderItem is one purchased option. Name and option text are copied at
// purchase time.
type OrderItem struct {
	OIID   uint   `gorm:"column:oiid;primaryKey" json:"oiid"`
	OID    uint   `gorm:"column:oid;not null;index" json:"oid"`
	IID    uint   `gorm:"column:iid;not null;index" json:"iid"`
	IOID   uint   `gorm:"column:ioid;not null" json:"ioid"`
	Name   string `gorm:"size:255" json:"name"`
	Option string `gorm:"size:255" json:"option"`
	Img    string `gorm:"size:500" json:"img"`
	Count  int    `gorm:"not null" json:"count"`
	Price  int64  `gorm:"not null" json:"price"`
}

func (Order) TableName() string     { return "orders" }
func (OrderItem) TableName() string { return "order_items" }

// LineTotal returns Price × Count
func (oi *OrderItem) LineTotal() int64 {
	return oi.Price * int64(oi.Count)
}
