// internal/interfaces/http/handlers/response.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/domain/board"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/checkout"
	"github.com/your-org/storefront-backend/internal/domain/item"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/user"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
)

var errorStatuses = []struct {
	err    error
	status int
}{
	{item.ErrItemNotFound, http.StatusNotFound},
	{item.ErrOptionNotFound, http.StatusNotFound},
	{cart.ErrCartItemNotFound, http.StatusNotFound},
	{checkout.ErrHandoffNotFound, http.StatusNotFound},
	{order.ErrOrderNotFound, http.StatusNotFound},
	{board.ErrBoardNotFound, http.StatusNotFound},
	{user.ErrUserNotFound, http.StatusNotFound},
	{checkout.ErrNotOwner, http.StatusForbidden},
	{board.ErrNotOwner, http.StatusForbidden},
	{user.ErrInvalidCredentials, http.StatusUnauthorized},
	{user.ErrEmailTaken, http.StatusConflict},
	{order.ErrInsufficientStock, http.StatusConflict},
	{order.ErrInvalidTransition, http.StatusConflict},
	{checkout.ErrEmptyHandoff, http.StatusBadRequest},
	{item.ErrNothingPicked, http.StatusBadRequest},
	{item.ErrOptionAlreadyPicked, http.StatusBadRequest},
	{board.ErrInvalidType, http.StatusBadRequest},
	{board.ErrInvalidStar, http.StatusBadRequest},
	{user.ErrPasswordMismatch, http.StatusBadRequest},
	{user.ErrWeakPassword, http.StatusBadRequest},
}

// statusFor maps a domain error to an HTTP status
func statusFor(err error) int {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

// respondError writes the error envelope. Unmapped errors are reported as
// fallback without leaking their text.
func respondError(c *gin.Context, err error, fallback string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(status, gin.H{
			"error": fallback,
		})
		return
	}

	c.JSON(status, gin.H{
		"error": err.Error(),
	})
}

func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request data",
		"details": err.Error(),
	})
}

func respondOK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"data":    data,
	})
}

// parseIDParam reads a positive numeric path parameter
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid " + name,
		})
		return 0, false
	}
	return uint(id), true
}

// requireEmail returns the signed-in user's email or writes 401
func requireEmail(c *gin.Context) (string, bool) {
	email, ok := middleware.GetUserEmailFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return "", false
	}
	return email, true
}
