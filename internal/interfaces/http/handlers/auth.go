// internal/interfaces/http/handlers/auth.go
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/domain/user"
)

// UserService is the account surface used by AuthHandler
type UserService interface {
	Register(ctx context.Context, req *user.RegisterRequest) (*user.AuthResponse, error)
	Login(ctx context.Context, req *user.LoginRequest) (*user.AuthResponse, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
}

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	users UserService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(users UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req user.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.users.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to register user")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"data":    resp,
	})
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.users.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to login")
		return
	}

	respondOK(c, "Login successful", resp)
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	email, ok := requireEmail(c)
	if !ok {
		return
	}

	u, err := h.users.GetByEmail(c.Request.Context(), email)
	if err != nil {
		respondError(c, err, "Failed to retrieve user")
		return
	}

	respondOK(c, "User retrieved successfully", u)
}
