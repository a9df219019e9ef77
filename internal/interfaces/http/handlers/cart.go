// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/checkout"
)

// CartService is the cart page surface
type CartService interface {
	GetView(ctx context.Context, email string) (*cart.View, error)
	Add(ctx context.Context, email string, req *cart.AddRequest) (bool, error)
	ToggleSelect(ctx context.Context, email string, cid uint) (*cart.View, error)
	ToggleSelectAll(ctx context.Context, email string) (*cart.View, error)
	ChangeQuantity(ctx context.Context, email string, cid uint, count int) (*cart.View, bool, error)
	Remove(ctx context.Context, email string, cid uint) (*cart.View, error)
	RemoveAll(ctx context.Context, email string) (*cart.View, error)
	Checkout(ctx context.Context, email string) (*checkout.Handoff, error)
}

// CartHandler handles cart endpoints
type CartHandler struct {
	carts CartService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(carts CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	email, ok := requireEmail(c)
	if !ok {
		return
	}

	view, err := h.carts.GetView(c.Request.Context(), email)
	if err != nil {
		respondError(c, err, "Failed to retrieve cart")
		return
	}

	respondOK(c, "Cart retrieved successfully", view)
}

// AddToCart handles POST /cart. Options already in the cart are not added
// again and the request answers 409.
func (h *CartHandler) AddToCart(c *gin.Context) {
	email, ok := requireEmail(c)
	if !ok {
		return
	}

	var req cart.AddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	added, err := h.carts.Add(c.Request.Context(), email, &req)
	if err != nil {
		respondError(c, err, "Failed to add to cart")
		return
	}
	if !added {
		c.JSON(http.StatusConflict, gin.H{
			"error": "No option picked or option already in cart",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Item added to cart successfully",
	})
}

// UpdateQuantity handles PUT /cart/items/:cid
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	email, ok := requireEmail(c)
	if !ok {
		return
	}
	cid, ok := parseIDParam(c, "cid")
	if !ok {
		return
	}

	var req cart.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	view, updated, err := h.carts.ChangeQuantity(c.Request.Context(), email, cid, req.Count)
	if err != nil {
		respondError(c, err, "Failed to update quantity")
		return
	}
	if !updated {
		c.JSON(http.StatusConflict, gin.H{
			"error": "Not enough stock",
			"data":  view,
		})
		return
	}

	respondOK(c, "Quantity updated successfully", view)
}

// ToggleSelect handles POST /cart/items/:cid/select
func (h *CartHandler) ToggleSelect(c *gin.Context) {
	email, ok := requireEmail(c)
	if !ok {
		return
	}
	cid, ok := parseIDParam(c, "cid")
	if !ok {
		return
	}

	view, err := h.carts.ToggleSelect(c.Request.Context(), email, cid)
	if err != nil {
		respondError(c, err, "Failed to update selection")
		return
	}

	respondOK(c, "Selection updated successfully", view)
}

// ToggleSelectAll handles POST /cart/select-all
func (h *CartHandler) ToggleSelectAll(c *gin.Context) {
	email, ok := requireEmail(c)
	if !ok {
		return
	}

	view, err := h.carts.ToggleSelectAll(c.Request.Context(), email)
	if err != nil {
		respondError(c, err, "Failed to update selection")
		return
	}

	respondOK(c, "Selection updated successfully", view)
}

// RemoveFromCart handles DELETE /cart/items/:cid
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	email, ok := requireEmail(c)
	if !ok {
		return
	}
	cid, ok := parseIDParam(c, "cid")
	if !ok {
		return
	}

	view, err := h.carts.Remove(c.Request.Context(), email, cid)
	if err != nil {
		respondError(c, err, "Failed to remove item from cart")
		return
	}

	respondOK(c, "Item removed from cart successfully", view)
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	email, ok := requireEmail(c)
	if !ok {
		return
	}

	view, err := h.carts.RemoveAll(c.Request.Context(), email)
	if err != nil {
		respondError(c, err, "Failed to clear cart")
		return
	}

	respondOK(c, "Cart cleared successfully", view)
}

// Checkout handles POST /cart/checkout
func (h *CartHandler) Checkout(c *gin.Context) {
	email, ok := requireEmail(c)
	if !ok {
		return
	}

	handoff, err := h.carts.Checkout(c.Request.Context(), email)
	if err != nil {
		respondError(c, err, "Failed to start order")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order handoff created successfully",
		"data":    handoff,
	})
}
