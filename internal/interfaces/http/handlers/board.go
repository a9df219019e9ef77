// internal/interfaces/http/handlers/board.go
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/domain/board"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
)

// BoardService is the reviews and Q&A surface
type BoardService interface {
	ListByItem(ctx context.Context, iid uint, boardType string) (*board.ListResponse, error)
	Create(ctx context.Context, email string, req *board.CreateRequest) (*board.Board, error)
	Update(ctx context.Context, email string, bid uint, req *board.UpdateRequest) (*board.Board, error)
	Delete(ctx context.Context, email string, isAdmin bool, bid uint) error
}

// BoardHandler handles review and Q&A endpoints
type BoardHandler struct {
	boards BoardService
}

// NewBoardHandler creates a new board handler
func NewBoardHandler(boards BoardService) *BoardHandler {
	return &BoardHandler{boards: boards}
}

// ListReviews handles GET /items/:iid/reviews
func (h *BoardHandler) ListReviews(c *gin.Context) {
	h.list(c, board.TypeReview)
}

// ListQnA handles GET /items/:iid/qna
func (h *BoardHandler) ListQnA(c *gin.Context) {
	h.list(c, board.TypeQnA)
}

func (h *BoardHandler) list(c *gin.Context, boardType string) {
	iid, ok := parseIDParam(c, "iid")
	if !ok {
		return
	}

	resp, err := h.boards.ListByItem(c.Request.Context(), iid, boardType)
	if err != nil {
		respondError(c, err, "Failed to retrieve board")
		return
	}

	respondOK(c, "Board retrieved successfully", resp)
}

// Create handles POST /boards
func (h *BoardHandler) Create(c *gin.Context) {
	email, ok := requireEmail(c)
	if !ok {
		return
	}

	var req board.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	b, err := h.boards.Create(c.Request.Context(), email, &req)
	if err != nil {
		respondError(c, err, "Failed to create board entry")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Board entry created successfully",
		"data":    b,
	})
}

// Update handles PUT /boards/:bid
func (h *BoardHandler) Update(c *gin.Context) {
	email, ok := requireEmail(c)
	if !ok {
		return
	}
	bid, ok := parseIDParam(c, "bid")
	if !ok {
		return
	}

	var req board.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	b, err := h.boards.Update(c.Request.Context(), email, bid, &req)
	if err != nil {
		respondError(c, err, "Failed to update board entry")
		return
	}

	respondOK(c, "Board entry updated successfully", b)
}

// Delete handles DELETE /boards/:bid
func (h *BoardHandler) Delete(c *gin.Context) {
	email, ok := requireEmail(c)
	if !ok {
		return
	}
	bid, ok := parseIDParam(c, "bid")
	if !ok {
		return
	}

	err := h.boards.Delete(c.Request.Context(), email, middleware.IsAdminFromContext(c), bid)
	if err != nil {
		respondError(c, err, "Failed to delete board entry")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Board entry deleted successfully",
	})
}
