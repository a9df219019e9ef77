// internal/domain/user/service.go
package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
	"gorm.io/gorm"
)

// Service handles user business logic
type Service struct {
	db              *gorm.DB
	passwordManager *auth.PasswordManager
	jwtManager      *auth.JWTManager
	logger          *logrus.Logger
}

// NewService creates a new user service
func NewService(db *gorm.DB, cfg *config.Config, logger *logrus.Logger) *Service {
	return &Service{
		db:              db,
		passwordManager: auth.NewPasswordManager(cfg),
		jwtManager:      auth.NewJWTManager(cfg),
		logger:          logger,
	}
}

// RegisterRequest represents user registration data
type RegisterRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
	Name            string `json:"name" binding:"required"`
	Tel             string `json:"tel"`
	PostCode        string `json:"postCode"`
	Addr            string `json:"addr"`
	DetailAddr      string `json:"detailAddr"`
}

// LoginRequest represents user login data
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User        *User     `json:"user"`
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// Register creates a new user account and signs it in
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	if req.Password != req.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWeakPassword, err)
	}

	email := NormalizeEmail(req.Email)
	var count int64
	if err := s.db.WithContext(ctx).Model(&User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := s.passwordManager.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	u := &User{
		Email:      email,
		Password:   hashedPassword,
		Name:       req.Name,
		Tel:        req.Tel,
		PostCode:   req.PostCode,
		Addr:       req.Addr,
		DetailAddr: req.DetailAddr,
		IsActive:   true,
	}
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.WithField("email", u.Email).Info("User registered")
	return s.signIn(ctx, u)
}

// Login authenticates a user
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	var u User
	err := s.db.WithContext(ctx).Where("email = ? AND is_active = ?", NormalizeEmail(req.Email), true).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.passwordManager.VerifyPassword(req.Password, u.Password); err != nil {
		s.logger.WithField("email", u.Email).Warn("Failed login attempt")
		return nil, ErrInvalidCredentials
	}

	return s.signIn(ctx, &u)
}

// GetByEmail returns the active user with email
func (s *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := s.db.WithContext(ctx).Where("email = ? AND is_active = ?", NormalizeEmail(email), true).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

func (s *Service) signIn(ctx context.Context, u *User) (*AuthResponse, error) {
	token, expiresAt, err := s.jwtManager.GenerateAccessToken(u.ID, u.Email, u.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	now := time.Now().UTC()
	if err := s.db.WithContext(ctx).Model(u).Update("last_login_at", now).Error; err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}
	u.LastLoginAt = &now

	return &AuthResponse{
		User:        u,
		AccessToken: token,
		ExpiresAt:   expiresAt,
	}, nil
}
