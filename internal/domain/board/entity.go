// internal/domain/board/entity.go
package board

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrBoardNotFound = errors.New("board entry not found")
	ErrNotOwner      = errors.New("board entry belongs to another user")
	ErrInvalidType   = errors.New("type must be review or qna")
	ErrInvalidStar   = errors.New("review star must be between 1 and 5")
)

// Board types
const (
	TypeReview = "review"
	TypeQnA    = "qna"
)

// Board is a review or a question posted on an item
type Board struct {
	BID       uint           `gorm:"column:bid;primaryKey" json:"bid"`
	IID       uint           `gorm:"column:iid;not null;index:idx_board_item_type" json:"iid"`
	Email     string         `gorm:"not null;size:255;index" json:"email"`
	Type      string         `gorm:"not null;size:20;index:idx_board_item_type" json:"type"`
	TypeQnA   string         `gorm:"column:type_qna;size:50" json:"typeQnA"`
	Title     string         `gorm:"not null;size:255" json:"title"`
	Content   string         `gorm:"type:text" json:"content"`
	Img       string         `gorm:"size:500" json:"img"`
	Sta       int            `gorm:"default:0" json:"sta"`
	RegDate   time.Time      `gorm:"autoCreateTime" json:"regDate"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (Board) TableName() string { return "boards" }

// IsReview reports whether the entry counts toward the item's star average
func (b *Board) IsReview() bool { return b.Type == TypeReview }
