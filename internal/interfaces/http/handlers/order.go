// internal/interfaces/http/handlers/order.go
package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/domain/checkout"
	"github.com/your-org/storefront-backend/internal/domain/order"
)

// OrderService is the order surface
type OrderService interface {
	GetHandoff(ctx context.Context, token, email string) (*checkout.Handoff, error)
	Create(ctx context.Context, email string, req *order.CreateOrderRequest) (*order.Order, error)
	ListByEmail(ctx context.Context, email string) ([]order.Order, error)
	Get(ctx context.Context, oid uint, email string) (*order.Order, error)
	Delete(ctx context.Context, oid uint, email string) error
	UpdateStatus(ctx context.Context, orderID string, status order.OrderStatus) (*order.Order, error)
	Receipt(ctx context.Context, oid uint, email string) ([]byte, error)
}

// OrderHandler handles order endpoints
type OrderHandler struct {
	orders OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orders OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// GetHandoff handles GET /orders/handoff/:token
func (h *OrderHandler) GetHandoff(c *gin.Context) {
	email, ok := requireEmail(c)
	if !ok {
		return
	}

	handoff, err := h.orders.GetHandoff(c.Request.Context(), c.Param("token"), email)
	if err != nil {
		respondError(c, err, "Failed to retrieve order handoff")
		return
	}

	respondOK(c, "Order handoff retrieved successfully", handoff)
}

// CreateOrder handles POST /orders
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	email, ok := requireEmail(c)
	if !ok {
		return
	}

	var req order.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	o, err := h.orders.Create(c.Request.Context(), email, &req)
	if err != nil {
		respondError(c, err, "Failed to create order")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order created successfully",
		"data":    o,
	})
}

// ListOrders handles GET /orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	email, ok := requireEmail(c)
	if !ok {
		return
	}

	orders, err := h.orders.ListByEmail(c.Request.Context(), email)
	if err != nil {
		respondError(c, err, "Failed to retrieve orders")
		return
	}

	respondOK(c, "Orders retrieved successfully", orders)
}

// GetOrder handles GET /orders/:oid
func (h *OrderHandler) GetOrder(c *gin.Context) {
	email, ok := requireEmail(c)
	if !ok {
		return
	}
	oid, ok := parseIDParam(c, "oid")
	if !ok {
		return
	}

	o, err := h.orders.Get(c.Request.Context(), oid, email)
	if err != nil {
		respondError(c, err, "Failed to retrieve order")
		return
	}

	respondOK(c, "Order retrieved successfully", o)
}

// DeleteOrder handles DELETE /orders/:oid
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	email, ok := requireEmail(c)
	if !ok {
		return
	}
	oid, ok := parseIDParam(c, "oid")
	if !ok {
		return
	}

	if err := h.orders.Delete(c.Request.Context(), oid, email); err != nil {
		respondError(c, err, "Failed to delete order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order deleted successfully",
	})
}

// DownloadReceipt handles GET /orders/:oid/receipt
func (h *OrderHandler) DownloadReceipt(c *gin.Context) {
	email, ok := requireEmail(c)
	if !ok {
		return
	}
	oid, ok := parseIDParam(c, "oid")
	if !ok {
		return
	}

	pdfBytes, err := h.orders.Receipt(c.Request.Context(), oid, email)
	if err != nil {
		respondError(c, err, "Failed to generate receipt")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=receipt-%d.pdf", oid))
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

// UpdateStatus handles PUT /admin/orders/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req order.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	o, err := h.orders.UpdateStatus(c.Request.Context(), req.OrderID, req.Status)
	if err != nil {
		respondError(c, err, "Failed to update order status")
		return
	}

	respondOK(c, "Order status updated successfully", o)
}
