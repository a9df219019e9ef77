// internal/domain/cart/entity.go
package cart

import (
	"errors"
	"time"
)

var (
	ErrCartItemNotFound = errors.New("cart item not found")
)

// CartItem is one option of one item in a user's cart
type CartItem struct {
	CID       uint      `gorm:"column:cid;primaryKey" json:"cid"`
	Email     string    `gorm:"not null;size:255;index;uniqueIndex:idx_cart_email_option" json:"email"`
	IID       uint      `gorm:"column:iid;not null;index" json:"iid"`
	IOID      uint      `gorm:"column:ioid;not null;uniqueIndex:idx_cart_email_option" json:"ioid"`
	Count     int       `gorm:"not null;default:1" json:"count"`
	RegDate   time.Time `gorm:"autoCreateTime" json:"regDate"`
	UpdatedAt time.Time `json:"-"`
}

// TableName overrides the table name
func (CartItem) TableName() string {
	return "cart_items"
}

// Row is a cart item joined with its item and option
type Row struct {
	CID        uint       `gorm:"column:cid" json:"cid"`
	IID        uint       `gorm:"column:iid" json:"iid"`
	IOID       uint       `gorm:"column:ioid" json:"ioid"`
	Option     string     `gorm:"column:option" json:"option"`
	Name       string     `gorm:"column:name" json:"name"`
	Img1       string     `gorm:"column:img1" json:"img1"`
	Price      int64      `gorm:"column:price" json:"price"`
	SalePrice  int64      `gorm:"column:sale_price" json:"salePrice"`
	SaleDate   *time.Time `gorm:"column:sale_date" json:"saleDate"`
	Count      int        `gorm:"column:count" json:"count"`
	StockCount int        `gorm:"column:stock_count" json:"stockCount"`
}

// AddRequest adds picked options of one item to the cart
type AddRequest struct {
	IID   uint        `json:"iid" binding:"required"`
	Picks []PickCount `json:"picks"`
}

// PickCount is an option and how many of it to add
type PickCount struct {
	IOID  uint `json:"ioid" binding:"required"`
	Count int  `json:"count"`
}

// UpdateQuantityRequest changes the count of one row
type UpdateQuantityRequest struct {
	Count int `json:"count"`
}

// ViewRow is a cart row as shown on the cart page
type ViewRow struct {
	Row
	UnitPrice       int64  `json:"unitPrice"`
	TotalPrice      int64  `json:"totalPrice"`
	TotalPriceLabel string `json:"totalPriceLabel"`
	Selected        bool   `json:"selected"`
	StockShort      bool   `json:"stockShort"`
}

// View is the cart page: rows, selection and totals
type View struct {
	Items                 []ViewRow `json:"items"`
	Count                 int       `json:"count"`
	SelectedCount         int       `json:"selectedCount"`
	AllSelected           bool      `json:"allSelected"`
	GrandTotal            int64     `json:"grandTotal"`
	GrandTotalLabel       string    `json:"grandTotalLabel"`
	SelectedSubtotal      int64     `json:"selectedSubtotal"`
	SelectedSubtotalLabel string    `json:"selectedSubtotalLabel"`
}
