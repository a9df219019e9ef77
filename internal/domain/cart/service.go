// internal/domain/cart/service.go
package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/checkout"
	"github.com/your-org/storefront-backend/internal/domain/item"
	"github.com/your-org/storefront-backend/internal/domain/ledger"
	"github.com/your-org/storefront-backend/internal/pkg/money"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ItemReader loads items with their options
type ItemReader interface {
	Get(ctx context.Context, iid uint) (*item.Item, error)
}

// HandoffStore keeps order handoffs built from the selection
type HandoffStore interface {
	Save(ctx context.Context, email, source string, lines []ledger.OrderLine) (*checkout.Handoff, error)
}

// Service handles cart business logic
type Service struct {
	db       *gorm.DB
	session  *Session
	items    ItemReader
	handoffs HandoffStore
	currency string
	logger   *logrus.Logger
	now      func() time.Time
}

// NewService creates a new cart service
func NewService(db *gorm.DB, redisClient *redis.Client, items ItemReader, handoffs HandoffStore, cfg *config.Config, logger *logrus.Logger) *Service {
	return &Service{
		db:       db,
		session:  NewSession(redisClient, cfg.Session.CartSelectionTTL),
		items:    items,
		handoffs: handoffs,
		currency: cfg.App.Currency,
		logger:   logger,
		now:      time.Now,
	}
}

// ListRows returns the user's cart rows in insertion order. Rows whose item or
// option has been deleted are left out.
func (s *Service) ListRows(ctx context.Context, email string) ([]Row, error) {
	var rows []Row
	err := s.db.WithContext(ctx).
		Table("cart_items AS c").
		Select(`c.cid, c.iid, c.ioid, c.count, o.option, o.count AS stock_count,
			i.name, i.img1, i.price, i.sale_price, i.sale_date`).
		Joins("JOIN items AS i ON i.iid = c.iid AND i.deleted_at IS NULL").
		Joins("JOIN item_options AS o ON o.ioid = c.ioid AND o.deleted_at IS NULL").
		Where("c.email = ?", email).
		Order("c.cid ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list cart rows: %w", err)
	}
	return rows, nil
}

// Add puts picked options of one item in the cart. It returns false without
// writing when nothing is picked or any picked option is already in the cart.
func (s *Service) Add(ctx context.Context, email string, req *AddRequest) (bool, error) {
	if len(req.Picks) == 0 {
		return false, nil
	}

	it, err := s.items.Get(ctx, req.IID)
	if err != nil {
		return false, err
	}

	reqs := make([]item.PickRequest, len(req.Picks))
	for i, p := range req.Picks {
		reqs[i] = item.PickRequest{IOID: p.IOID, Count: p.Count}
	}
	picker, err := item.BuildPicker(it, reqs)
	if err != nil {
		return false, err
	}

	picks := picker.Picks()
	ioids := make([]uint, len(picks))
	rows := make([]CartItem, len(picks))
	for i, p := range picks {
		ioids[i] = p.IOID
		rows[i] = CartItem{Email: email, IID: req.IID, IOID: p.IOID, Count: p.Count}
	}

	added := false
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&CartItem{}).Where("email = ? AND ioid IN ?", email, ioids).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return nil
		}

		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows)
		if result.Error != nil {
			return result.Error
		}
		// a concurrent add won the race for one of the options
		if result.RowsAffected != int64(len(rows)) {
			return errAlreadyInCart
		}
		added = true
		return nil
	})
	if errors.Is(err, errAlreadyInCart) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to add to cart: %w", err)
	}

	if added {
		s.logger.WithFields(logrus.Fields{"email": email, "iid": req.IID, "options": len(rows)}).Info("Items added to cart")
	}
	return added, nil
}

var errAlreadyInCart = errors.New("option already in cart")

// UpdateQuantity sets the count of row cid. It returns false, leaving the row
// unchanged, when the option's stock is below count.
func (s *Service) UpdateQuantity(ctx context.Context, email string, cid uint, count int) (bool, error) {
	if count < 1 {
		return false, nil
	}

	updated := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row CartItem
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("cid = ? AND email = ?", cid, email).
			First(&row).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCartItemNotFound
			}
			return err
		}

		var opt item.ItemOption
		if err := tx.Where("ioid = ?", row.IOID).First(&opt).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if opt.Count < count {
			return nil
		}

		if err := tx.Model(&row).Update("count", count).Error; err != nil {
			return err
		}
		updated = true
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrCartItemNotFound) {
			return false, err
		}
		return false, fmt.Errorf("failed to update cart item: %w", err)
	}
	return updated, nil
}

// Delete removes row cid and reports whether it existed
func (s *Service) Delete(ctx context.Context, email string, cid uint) (bool, error) {
	result := s.db.WithContext(ctx).Where("cid = ? AND email = ?", cid, email).Delete(&CartItem{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete cart item: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// DeleteAll empties the cart and reports whether anything was removed
func (s *Service) DeleteAll(ctx context.Context, email string) (bool, error) {
	result := s.db.WithContext(ctx).Where("email = ?", email).Delete(&CartItem{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to clear cart: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// page is a ledger loaded for one request together with the rows it came from
type page struct {
	ledger *ledger.Ledger
	rows   map[uint]Row
}

// load builds the ledger from the cart rows and re-applies the stored
// selection; ids no longer in the cart are dropped.
func (s *Service) load(ctx context.Context, email string) (*page, error) {
	rows, err := s.ListRows(ctx, email)
	if err != nil {
		return nil, err
	}

	now := s.now()
	items := make([]ledger.LineItem, len(rows))
	byCID := make(map[uint]Row, len(rows))
	for i, r := range rows {
		items[i] = ledger.LineItem{
			ID:        ledger.ItemID{ProductID: r.IID, OptionID: r.IOID},
			CartID:    r.CID,
			UnitPrice: item.EffectivePrice(r.Price, r.SalePrice, r.SaleDate, now),
			Quantity:  r.Count,
			Stock:     r.StockCount,
			Name:      r.Name,
			Option:    r.Option,
			Image:     r.Img1,
		}
		byCID[r.CID] = r
	}

	selected, err := s.session.Load(ctx, email)
	if err != nil {
		return nil, err
	}

	l := ledger.New(items)
	l.Select(selected...)
	return &page{ledger: l, rows: byCID}, nil
}

func (s *Service) save(ctx context.Context, email string, p *page) error {
	return s.session.Save(ctx, email, p.ledger.SelectedIDs())
}

func (s *Service) view(p *page) *View {
	l := p.ledger
	v := &View{
		Items:                 make([]ViewRow, 0, l.Len()),
		Count:                 l.Len(),
		SelectedCount:         l.SelectedLen(),
		AllSelected:           l.Len() > 0 && l.AllSelected(),
		GrandTotal:            l.GrandTotal(),
		SelectedSubtotal:      l.SelectedSubtotal(),
		GrandTotalLabel:       money.Label(l.GrandTotal(), s.currency),
		SelectedSubtotalLabel: money.Label(l.SelectedSubtotal(), s.currency),
	}

	for _, li := range l.Items() {
		row := p.rows[li.CartID]
		row.Count = li.Quantity
		v.Items = append(v.Items, ViewRow{
			Row:             row,
			UnitPrice:       li.UnitPrice,
			TotalPrice:      li.LineTotal(),
			TotalPriceLabel: money.Label(li.LineTotal(), s.currency),
			Selected:        l.IsSelected(li.ID),
			StockShort:      li.Quantity > li.Stock,
		})
	}
	return v
}

// GetView returns the cart page
func (s *Service) GetView(ctx context.Context, email string) (*View, error) {
	p, err := s.load(ctx, email)
	if err != nil {
		return nil, err
	}
	// persist pruning of stale ids
	if err := s.save(ctx, email, p); err != nil {
		return nil, err
	}
	return s.view(p), nil
}

// ToggleSelect flips the selection of row cid
func (s *Service) ToggleSelect(ctx context.Context, email string, cid uint) (*View, error) {
	p, err := s.load(ctx, email)
	if err != nil {
		return nil, err
	}

	li, ok := p.ledger.ItemByCartID(cid)
	if !ok {
		return nil, ErrCartItemNotFound
	}
	p.ledger.ToggleSelect(li.ID)

	if err := s.save(ctx, email, p); err != nil {
		return nil, err
	}
	return s.view(p), nil
}

// ToggleSelectAll selects every row, or clears the selection when every row
// is already selected
func (s *Service) ToggleSelectAll(ctx context.Context, email string) (*View, error) {
	p, err := s.load(ctx, email)
	if err != nil {
		return nil, err
	}

	p.ledger.ToggleSelectAll()

	if err := s.save(ctx, email, p); err != nil {
		return nil, err
	}
	return s.view(p), nil
}

// ChangeQuantity clamps count to [1, stock] and stores it. The returned flag
// is false when the stored stock no longer covers the count; the view then
// shows the row unchanged.
func (s *Service) ChangeQuantity(ctx context.Context, email string, cid uint, count int) (*View, bool, error) {
	p, err := s.load(ctx, email)
	if err != nil {
		return nil, false, err
	}

	li, ok := p.ledger.ItemByCartID(cid)
	if !ok {
		return nil, false, ErrCartItemNotFound
	}
	p.ledger.SetQuantity(li.ID, count)
	clamped, _ := p.ledger.Item(li.ID)

	updated, err := s.UpdateQuantity(ctx, email, cid, clamped.Quantity)
	if err != nil {
		return nil, false, err
	}
	if !updated {
		s.logger.WithFields(logrus.Fields{"email": email, "cid": cid, "count": clamped.Quantity}).Warn("Insufficient stock for cart quantity")
		if p, err = s.load(ctx, email); err != nil {
			return nil, false, err
		}
	}

	return s.view(p), updated, nil
}

// Remove deletes row cid
func (s *Service) Remove(ctx context.Context, email string, cid uint) (*View, error) {
	p, err := s.load(ctx, email)
	if err != nil {
		return nil, err
	}

	li, ok := p.ledger.ItemByCartID(cid)
	if !ok {
		return nil, ErrCartItemNotFound
	}
	deleted, err := s.Delete(ctx, email, cid)
	if err != nil {
		return nil, err
	}
	if !deleted {
		return nil, ErrCartItemNotFound
	}
	p.ledger.RemoveItem(li.ID)

	if err := s.save(ctx, email, p); err != nil {
		return nil, err
	}
	return s.view(p), nil
}

// RemoveAll empties the cart and its selection
func (s *Service) RemoveAll(ctx context.Context, email string) (*View, error) {
	if _, err := s.DeleteAll(ctx, email); err != nil {
		return nil, err
	}
	if err := s.session.Clear(ctx, email); err != nil {
		return nil, err
	}

	l := ledger.New(nil)
	s.logger.WithField("email", email).Info("Cart cleared")
	return s.view(&page{ledger: l}), nil
}

// Checkout hands the selected rows to order creation
func (s *Service) Checkout(ctx context.Context, email string) (*checkout.Handoff, error) {
	p, err := s.load(ctx, email)
	if err != nil {
		return nil, err
	}
	if p.ledger.SelectedLen() == 0 {
		return nil, checkout.ErrEmptyHandoff
	}

	return s.handoffs.Save(ctx, email, checkout.SourceCart, p.ledger.Handoff())
}
