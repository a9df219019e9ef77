// internal/interfaces/http/handlers/item.go
package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/domain/checkout"
	"github.com/your-org/storefront-backend/internal/domain/item"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
)

// ItemService is the item detail page surface
type ItemService interface {
	GetDetail(ctx context.Context, iid uint, email string) (*item.Detail, error)
	List(ctx context.Context) ([]item.Item, error)
	Search(ctx context.Context, query string) ([]item.Item, error)
	Quote(ctx context.Context, iid uint, reqs []item.PickRequest) (*item.Quote, error)
	Handoff(ctx context.Context, email string, iid uint, reqs []item.PickRequest) (*checkout.Handoff, error)

	Create(ctx context.Context, req *item.CreateItemRequest) (*item.Item, error)
	Update(ctx context.Context, iid uint, req *item.UpdateItemRequest) (*item.Item, error)
	Delete(ctx context.Context, iid uint) error
	SetSale(ctx context.Context, iid uint, req *item.SaleRequest) (*item.Item, error)
	AddOption(ctx context.Context, iid uint, req *item.CreateOptionRequest) (*item.ItemOption, error)
	AddTag(ctx context.Context, iid uint, tag string) (*item.ItemTag, error)
}

// PicksRequest carries the options picked on the detail page
type PicksRequest struct {
	Picks []item.PickRequest `json:"picks" binding:"dive"`
}

// AddTagRequest represents a tag added to an item
type AddTagRequest struct {
	Tag string `json:"tag" binding:"required,max=50"`
}

// ItemHandler handles item endpoints
type ItemHandler struct {
	items ItemService
}

// NewItemHandler creates a new item handler
func NewItemHandler(items ItemService) *ItemHandler {
	return &ItemHandler{items: items}
}

// ListItems handles GET /items
func (h *ItemHandler) ListItems(c *gin.Context) {
	items, err := h.items.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to retrieve items")
		return
	}

	respondOK(c, "Items retrieved successfully", items)
}

// SearchItems handles GET /items/search?q=
func (h *ItemHandler) SearchItems(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Search query is required",
		})
		return
	}

	items, err := h.items.Search(c.Request.Context(), query)
	if err != nil {
		respondError(c, err, "Failed to search items")
		return
	}

	respondOK(c, "Items retrieved successfully", items)
}

// GetItem handles GET /items/:iid. Signed-in callers also get their wish flag.
func (h *ItemHandler) GetItem(c *gin.Context) {
	iid, ok := parseIDParam(c, "iid")
	if !ok {
		return
	}

	email, _ := middleware.GetUserEmailFromContext(c)
	detail, err := h.items.GetDetail(c.Request.Context(), iid, email)
	if err != nil {
		respondError(c, err, "Failed to retrieve item")
		return
	}

	respondOK(c, "Item retrieved successfully", detail)
}

// Quote handles POST /items/:iid/quote
func (h *ItemHandler) Quote(c *gin.Context) {
	iid, ok := parseIDParam(c, "iid")
	if !ok {
		return
	}

	var req PicksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	quote, err := h.items.Quote(c.Request.Context(), iid, req.Picks)
	if err != nil {
		respondError(c, err, "Failed to price picks")
		return
	}

	respondOK(c, "Quote calculated successfully", quote)
}

// Handoff handles POST /items/:iid/handoff
func (h *ItemHandler) Handoff(c *gin.Context) {
	email, ok := requireEmail(c)
	if !ok {
		return
	}
	iid, ok := parseIDParam(c, "iid")
	if !ok {
		return
	}

	var req PicksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	handoff, err := h.items.Handoff(c.Request.Context(), email, iid, req.Picks)
	if err != nil {
		respondError(c, err, "Failed to start order")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order handoff created successfully",
		"data":    handoff,
	})
}

// CreateItem handles POST /admin/items
func (h *ItemHandler) CreateItem(c *gin.Context) {
	var req item.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	it, err := h.items.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to create item")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Item created successfully",
		"data":    it,
	})
}

// UpdateItem handles PUT /admin/items/:iid
func (h *ItemHandler) UpdateItem(c *gin.Context) {
	iid, ok := parseIDParam(c, "iid")
	if !ok {
		return
	}

	var req item.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	it, err := h.items.Update(c.Request.Context(), iid, &req)
	if err != nil {
		respondError(c, err, "Failed to update item")
		return
	}

	respondOK(c, "Item updated successfully", it)
}

// DeleteItem handles DELETE /admin/items/:iid
func (h *ItemHandler) DeleteItem(c *gin.Context) {
	iid, ok := parseIDParam(c, "iid")
	if !ok {
		return
	}

	if err := h.items.Delete(c.Request.Context(), iid); err != nil {
		respondError(c, err, "Failed to delete item")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item deleted successfully",
	})
}

// SetSale handles PUT /admin/items/:iid/sale
func (h *ItemHandler) SetSale(c *gin.Context) {
	iid, ok := parseIDParam(c, "iid")
	if !ok {
		return
	}

	var req item.SaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	it, err := h.items.SetSale(c.Request.Context(), iid, &req)
	if err != nil {
		respondError(c, err, "Failed to update sale")
		return
	}

	respondOK(c, "Sale updated successfully", it)
}

// AddOption handles POST /admin/items/:iid/options
func (h *ItemHandler) AddOption(c *gin.Context) {
	iid, ok := parseIDParam(c, "iid")
	if !ok {
		return
	}

	var req item.CreateOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	opt, err := h.items.AddOption(c.Request.Context(), iid, &req)
	if err != nil {
		respondError(c, err, "Failed to add option")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Option added successfully",
		"data":    opt,
	})
}

// AddTag handles POST /admin/items/:iid/tags
func (h *ItemHandler) AddTag(c *gin.Context) {
	iid, ok := parseIDParam(c, "iid")
	if !ok {
		return
	}

	var req AddTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	tag, err := h.items.AddTag(c.Request.Context(), iid, req.Tag)
	if err != nil {
		respondError(c, err, "Failed to add tag")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Tag added successfully",
		"data":    tag,
	})
}
