// internal/interfaces/http/handlers/wishlist.go
package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/domain/wishlist"
)

// WishService is the wish toggle surface
type WishService interface {
	Toggle(ctx context.Context, iid uint, email string) (*wishlist.ToggleResult, error)
	Count(ctx context.Context, iid uint) (int64, error)
	List(ctx context.Context, email string) ([]uint, error)
}

// ItemLookup checks that an item exists before it is wished
type ItemLookup interface {
	Exists(ctx context.Context, iid uint) error
}

// WishlistHandler handles wishlist endpoints
type WishlistHandler struct {
	wishes WishService
	items  ItemLookup
}

// NewWishlistHandler creates a new wishlist handler
func NewWishlistHandler(wishes WishService, items ItemLookup) *WishlistHandler {
	return &WishlistHandler{wishes: wishes, items: items}
}

// Toggle handles POST /items/:iid/wish
func (h *WishlistHandler) Toggle(c *gin.Context) {
	email, ok := requireEmail(c)
	if !ok {
		return
	}
	iid, ok := parseIDParam(c, "iid")
	if !ok {
		return
	}

	if err := h.items.Exists(c.Request.Context(), iid); err != nil {
		respondError(c, err, "Failed to retrieve item")
		return
	}

	result, err := h.wishes.Toggle(c.Request.Context(), iid, email)
	if err != nil {
		respondError(c, err, "Failed to update wishlist")
		return
	}

	message := "Item removed from wishlist"
	if result.Value == 1 {
		message = "Item added to wishlist"
	}
	respondOK(c, message, result)
}

// Count handles GET /items/:iid/wish/count
func (h *WishlistHandler) Count(c *gin.Context) {
	iid, ok := parseIDParam(c, "iid")
	if !ok {
		return
	}

	count, err := h.wishes.Count(c.Request.Context(), iid)
	if err != nil {
		respondError(c, err, "Failed to count wishes")
		return
	}

	respondOK(c, "Wish count retrieved successfully", gin.H{"iid": iid, "count": count})
}

// List handles GET /wishes
func (h *WishlistHandler) List(c *gin.Context) {
	email, ok := requireEmail(c)
	if !ok {
		return
	}

	ids, err := h.wishes.List(c.Request.Context(), email)
	if err != nil {
		respondError(c, err, "Failed to retrieve wishlist")
		return
	}

	respondOK(c, "Wishlist retrieved successfully", gin.H{"items": ids, "count": len(ids)})
}
