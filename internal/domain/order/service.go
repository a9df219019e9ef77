// internal/domain/order/service.go
package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/checkout"
	"github.com/your-org/storefront-backend/internal/domain/item"
	"github.com/your-org/storefront-backend/internal/pkg/pdf"
	"gorm.io/gorm"
)

// HandoffStore reads and consumes order handoffs
type HandoffStore interface {
	Get(ctx context.Context, token, email string) (*checkout.Handoff, error)
	Consume(ctx context.Context, token, email string) (*checkout.Handoff, error)
	Restore(ctx context.Context, h *checkout.Handoff) error
}

// ReceiptRenderer turns a receipt into a PDF document
type ReceiptRenderer interface {
	GenerateReceipt(r *pdf.Receipt) ([]byte, error)
}

// ItemCache is invalidated after stock changes
type ItemCache interface {
	Invalidate(iid uint)
}

// Service handles order business logic
type Service struct {
	db        *gorm.DB
	handoffs  HandoffStore
	publisher Publisher
	receipts  ReceiptRenderer
	items     ItemCache
	logger    *logrus.Logger
}

// NewService creates a new order service
func NewService(db *gorm.DB, handoffs HandoffStore, publisher Publisher, receipts ReceiptRenderer, items ItemCache, logger *logrus.Logger) *Service {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &Service{
		db:        db,
		handoffs:  handoffs,
		publisher: publisher,
		receipts:  receipts,
		items:     items,
		logger:    logger,
	}
}

// CreateOrderRequest represents order creation data
type CreateOrderRequest struct {
	Token      string `json:"token" binding:"required"`
	Name       string `json:"name" binding:"required,max=100"`
	PostCode   string `json:"postCode" binding:"max=10"`
	Addr       string `json:"addr" binding:"required,max=255"`
	DetailAddr string `json:"detailAddr" binding:"max=255"`
	Tel        string `json:"tel" binding:"required,max=20"`
	Req        string `json:"req" binding:"max=500"`
	Way        string `json:"way" binding:"max=50"`
}

// UpdateStatusRequest represents a status change by order id
type UpdateStatusRequest struct {
	OrderID string      `json:"orderId" binding:"required"`
	Status  OrderStatus `json:"status" binding:"required"`
}

// GetHandoff returns a pending handoff without consuming it
func (s *Service) GetHandoff(ctx context.Context, token, email string) (*checkout.Handoff, error) {
	return s.handoffs.Get(ctx, token, email)
}

// Create consumes the handoff in req and places the order. Stock is taken
// from each option and the cart rows the handoff came from are removed.
func (s *Service) Create(ctx context.Context, email string, req *CreateOrderRequest) (*Order, error) {
	h, err := s.handoffs.Consume(ctx, req.Token, email)
	if err != nil {
		return nil, err
	}

	o := &Order{
		OrderID:    uuid.NewString(),
		Email:      email,
		Status:     OrderStatusPending,
		Name:       req.Name,
		PostCode:   req.PostCode,
		Addr:       req.Addr,
		DetailAddr: req.DetailAddr,
		Tel:        req.Tel,
		Req:        req.Req,
		Way:        req.Way,
		TotalPrice: h.TotalPrice,
	}
	for _, line := range h.Lines {
		o.Items = append(o.Items, OrderItem{
			IID:    line.ItemID,
			IOID:   line.OptionID,
			Name:   line.Name,
			Option: line.Option,
			Img:    line.Image,
			Count:  line.Count,
			Price:  line.Price,
		})
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, oi := range o.Items {
			if err := s.takeStock(tx, oi); err != nil {
				return err
			}
		}

		if err := tx.Create(o).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		if ids := h.CartIDs(); len(ids) > 0 {
			if err := tx.Where("email = ? AND cid IN ?", email, ids).Delete(&cart.CartItem{}).Error; err != nil {
				return fmt.Errorf("failed to remove ordered cart rows: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		if restoreErr := s.handoffs.Restore(context.WithoutCancel(ctx), h); restoreErr != nil {
			s.logger.WithError(restoreErr).WithField("email", email).Error("Failed to restore order handoff")
		}
		return nil, err
	}

	for _, oi := range o.Items {
		s.items.Invalidate(oi.IID)
	}

	s.logger.WithFields(logrus.Fields{
		"order_id": o.OrderID,
		"oid":      o.OID,
		"email":    email,
		"total":    o.TotalPrice,
		"source":   h.Source,
	}).Info("Order created")

	s.publish(ctx, EventOrderCreated, o)
	return o, nil
}

func (s *Service) takeStock(tx *gorm.DB, oi OrderItem) error {
	result := tx.Model(&item.ItemOption{}).
		Where("ioid = ? AND iid = ? AND count >= ?", oi.IOID, oi.IID, oi.Count).
		UpdateColumn("count", gorm.Expr("count - ?", oi.Count))
	if result.Error != nil {
		return fmt.Errorf("failed to update stock: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s %s", ErrInsufficientStock, oi.Name, oi.Option)
	}
	return nil
}

// ListByEmail returns the user's orders, newest first
func (s *Service) ListByEmail(ctx context.Context, email string) ([]Order, error) {
	var orders []Order
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("oiid ASC") }).
		Where("email = ?", email).
		Order("reg_date DESC, oid DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// Get returns one of the user's orders
func (s *Service) Get(ctx context.Context, oid uint, email string) (*Order, error) {
	var o Order
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("oiid ASC") }).
		Where("oid = ? AND email = ?", oid, email).
		First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &o, nil
}

// Delete hides one of the user's orders from their history
func (s *Service) Delete(ctx context.Context, oid uint, email string) error {
	result := s.db.WithContext(ctx).Where("oid = ? AND email = ?", oid, email).Delete(&Order{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete order: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrOrderNotFound
	}

	s.logger.WithFields(logrus.Fields{"oid": oid, "email": email}).Info("Order deleted")
	return nil
}

// UpdateStatus moves the order with the public id orderID to status
func (s *Service) UpdateStatus(ctx context.Context, orderID string, status OrderStatus) (*Order, error) {
	var o Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", orderID).First(&o).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if !CanTransition(o.Status, status) {
			return fmt.Errorf("%w from %s to %s", ErrInvalidTransition, o.Status, status)
		}

		result := tx.Model(&Order{}).
			Where("oid = ? AND status = ?", o.OID, o.Status).
			Update("status", status)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: order changed concurrently", ErrInvalidTransition)
		}
		o.Status = status
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) || errors.Is(err, ErrInvalidTransition) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"order_id": orderID, "status": status}).Info("Order status updated")
	s.publish(ctx, EventOrderStatusChanged, &o)
	return &o, nil
}

// Receipt renders one of the user's orders as a PDF
func (s *Service) Receipt(ctx context.Context, oid uint, email string) ([]byte, error) {
	o, err := s.Get(ctx, oid, email)
	if err != nil {
		return nil, err
	}

	r := &pdf.Receipt{
		OrderID:    o.OrderID,
		OrderedAt:  o.RegDate,
		Status:     string(o.Status),
		Name:       o.Name,
		Tel:        o.Tel,
		PostCode:   o.PostCode,
		Address:    o.Addr + " " + o.DetailAddr,
		Request:    o.Req,
		Way:        o.Way,
		TotalPrice: o.TotalPrice,
	}
	for _, oi := range o.Items {
		r.Lines = append(r.Lines, pdf.ReceiptLine{Name: oi.Name, Option: oi.Option, Count: oi.Count, Price: oi.Price})
	}

	doc, err := s.receipts.GenerateReceipt(r)
	if err != nil {
		return nil, fmt.Errorf("failed to generate receipt: %w", err)
	}
	return doc, nil
}

// publish failures are logged; the order is already stored
func (s *Service) publish(ctx context.Context, eventType string, o *Order) {
	evt := Event{
		Type:       eventType,
		OrderID:    o.OrderID,
		OID:        o.OID,
		Email:      o.Email,
		Status:     o.Status,
		TotalPrice: o.TotalPrice,
		OccurredAt: time.Now().UTC(),
	}
	if eventType == EventOrderCreated {
		evt.Items = o.Items
	}

	if err := s.publisher.PublishJSON(ctx, eventType, evt); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"order_id": o.OrderID,
			"event":    eventType,
		}).Warn("Failed to publish order event")
	}
}
