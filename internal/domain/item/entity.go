// internal/domain/item/entity.go
package item

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrItemNotFound        = errors.New("item not found")
	ErrOptionNotFound      = errors.New("item option not found")
	ErrOptionAlreadyPicked = errors.New("option already picked")
	ErrNothingPicked       = errors.New("no option picked")
)

// Item is a product shown on the item detail page
type Item struct {
	IID       uint           `gorm:"column:iid;primaryKey" json:"iid"`
	Name      string         `gorm:"not null;size:255" json:"name"`
	Category  string         `gorm:"size:100;index" json:"category"`
	Img1      string         `gorm:"column:img1;size:500" json:"img1"`
	Img2      string         `gorm:"column:img2;size:500" json:"img2"`
	Img3      string         `gorm:"column:img3;size:500" json:"img3"`
	Content   string         `gorm:"type:text" json:"content"`
	Price     int64          `gorm:"not null" json:"price"`
	SalePrice int64          `gorm:"default:0" json:"salePrice"`
	SaleDate  *time.Time     `json:"saleDate"`
	TotalSta  float64        `gorm:"default:0" json:"totalSta"`
	RegDate   time.Time      `gorm:"autoCreateTime" json:"regDate"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Options []ItemOption `gorm:"foreignKey:IID;references:IID" json:"options,omitempty"`
	Tags    []ItemTag    `gorm:"foreignKey:IID;references:IID" json:"tags,omitempty"`
}

// ItemOption is a purchasable variant of an item; Count is its stock
type ItemOption struct {
	IOID      uint           `gorm:"column:ioid;primaryKey" json:"ioid"`
	IID       uint           `gorm:"column:iid;not null;index" json:"iid"`
	Option    string         `gorm:"not null;size:255" json:"option"`
	Count     int            `gorm:"not null;default:0" json:"count"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// ItemTag is a free-form search tag
type ItemTag struct {
	ITID uint   `gorm:"column:itid;primaryKey" json:"itid"`
	IID  uint   `gorm:"column:iid;not null;index" json:"iid"`
	Tag  string `gorm:"not null;size:100;index" json:"tag"`
}

func (Item) TableName() string       { return "items" }
func (ItemOption) TableName() string { return "item_options" }
func (ItemTag) TableName() string    { return "item_tags" }

// OnSale reports whether the sale price applies at now
func (i *Item) OnSale(now time.Time) bool {
	return onSale(i.SalePrice, i.SaleDate, now)
}

// EffectivePrice is the price charged at now
func (i *Item) EffectivePrice(now time.Time) int64 {
	return EffectivePrice(i.Price, i.SalePrice, i.SaleDate, now)
}

// EffectivePrice returns salePrice while the sale runs (salePrice > 0 and
// saleDate after now), else price.
func EffectivePrice(price, salePrice int64, saleDate *time.Time, now time.Time) int64 {
	if onSale(salePrice, saleDate, now) {
		return salePrice
	}
	return price
}

func onSale(salePrice int64, saleDate *time.Time, now time.Time) bool {
	return salePrice > 0 && saleDate != nil && saleDate.After(now)
}

// Option returns the option with id ioid
func (i *Item) Option(ioid uint) (ItemOption, bool) {
	for _, opt := range i.Options {
		if opt.IOID == ioid {
			return opt, true
		}
	}
	return ItemOption{}, false
}

// Detail is everything the item detail page needs
type Detail struct {
	Item      *Item        `json:"item"`
	Options   []ItemOption `json:"options"`
	Tags      []ItemTag    `json:"tags"`
	UnitPrice int64        `json:"unitPrice"`
	OnSale    bool         `json:"onSale"`
	Wish      int          `json:"wish"`
	WishCount int64        `json:"wishCount"`
}
