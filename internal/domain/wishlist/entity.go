package wishlist

import "time"

// WishItem records whether a user wishes for an item. Value is 1 when wished
// and 0 after the wish has been withdrawn.
type WishItem struct {
	WID       uint      `gorm:"column:wid;primaryKey" json:"wid"`
	IID       uint      `gorm:"column:iid;not null;uniqueIndex:idx_wish_item_email" json:"iid"`
	Email     string    `gorm:"not null;size:255;uniqueIndex:idx_wish_item_email" json:"email"`
	Value     int       `gorm:"not null;default:0" json:"value"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName overrides the table name
func (WishItem) TableName() string {
	return "wish_items"
}
