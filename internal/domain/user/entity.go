// internal/domain/user/entity.go
package user

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrWeakPassword       = errors.New("password does not meet requirements")
)

// User is a storefront customer or administrator
type User struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Email       string         `gorm:"uniqueIndex;not null;size:255" json:"email"`
	Password    string         `gorm:"not null;size:255" json:"-"`
	Name        string         `gorm:"size:100" json:"name"`
	Tel         string         `gorm:"size:20" json:"tel"`
	PostCode    string         `gorm:"size:10" json:"postCode"`
	Addr        string         `gorm:"size:255" json:"addr"`
	DetailAddr  string         `gorm:"size:255" json:"detailAddr"`
	IsActive    bool           `gorm:"default:true" json:"isActive"`
	IsAdmin     bool           `gorm:"default:false" json:"isAdmin"`
	LastLoginAt *time.Time     `json:"lastLoginAt"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}

// BeforeCreate normalises the email
func (u *User) BeforeCreate(tx *gorm.DB) error {
	u.Email = NormalizeEmail(u.Email)
	return nil
}

// NormalizeEmail lowercases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
