// internal/domain/item/service.go
package item

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/checkout"
	"github.com/your-org/storefront-backend/internal/domain/ledger"
	"github.com/your-org/storefront-backend/internal/pkg/money"
	"gorm.io/gorm"
)

// WishLookup resolves the per-user wish flag shown on the detail page
type WishLookup interface {
	Value(ctx context.Context, iid uint, email string) (int, error)
	Count(ctx context.Context, iid uint) (int64, error)
}

// HandoffStore keeps order handoffs built from picked options
type HandoffStore interface {
	Save(ctx context.Context, email, source string, lines []ledger.OrderLine) (*checkout.Handoff, error)
}

// Service handles item business logic
type Service struct {
	db       *gorm.DB
	cache    *expirable.LRU[uint, *Item]
	wishes   WishLookup
	handoffs HandoffStore
	currency string
	logger   *logrus.Logger
	now      func() time.Time
}

// NewService creates a new item service
func NewService(db *gorm.DB, wishes WishLookup, handoffs HandoffStore, cfg *config.Config, logger *logrus.Logger) *Service {
	return &Service{
		db:       db,
		cache:    expirable.NewLRU[uint, *Item](cfg.Cache.ItemDetailSize, nil, cfg.Cache.ItemDetailTTL),
		wishes:   wishes,
		handoffs: handoffs,
		currency: cfg.App.Currency,
		logger:   logger,
		now:      time.Now,
	}
}

// CreateItemRequest represents item creation data
type CreateItemRequest struct {
	Name     string                `json:"name" binding:"required"`
	Category string                `json:"category" binding:"required"`
	Img1     string                `json:"img1"`
	Img2     string                `json:"img2"`
	Img3     string                `json:"img3"`
	Content  string                `json:"content"`
	Price    int64                 `json:"price" binding:"required,gt=0"`
	Options  []CreateOptionRequest `json:"options" binding:"dive"`
	Tags     []string              `json:"tags"`
}

// CreateOptionRequest represents an option added to an item
type CreateOptionRequest struct {
	Option string `json:"option" binding:"required"`
	Count  int    `json:"count" binding:"gte=0"`
}

// UpdateItemRequest represents item update data
type UpdateItemRequest struct {
	Name     *string `json:"name"`
	Category *string `json:"category"`
	Img1     *string `json:"img1"`
	Img2     *string `json:"img2"`
	Img3     *string `json:"img3"`
	Content  *string `json:"content"`
	Price    *int64  `json:"price" binding:"omitempty,gt=0"`
}

// SaleRequest puts an item on sale until SaleDate
type SaleRequest struct {
	SalePrice int64     `json:"salePrice" binding:"gte=0"`
	SaleDate  time.Time `json:"saleDate" binding:"required"`
}

// Quote is the price of a set of picks on the detail page
type Quote struct {
	IID        uint   `json:"iid"`
	Picks      []Pick `json:"picks"`
	UnitPrice  int64  `json:"unitPrice"`
	TotalPrice int64  `json:"totalPrice"`
	TotalLabel string `json:"totalLabel"`
}

// Get returns an item with its options and tags
func (s *Service) Get(ctx context.Context, iid uint) (*Item, error) {
	if it, ok := s.cache.Get(iid); ok {
		return it, nil
	}

	var it Item
	err := s.db.WithContext(ctx).
		Preload("Options", func(db *gorm.DB) *gorm.DB { return db.Order("ioid ASC") }).
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("itid ASC") }).
		Where("iid = ?", iid).
		First(&it).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to retrieve item: %w", err)
	}

	s.cache.Add(iid, &it)
	return &it, nil
}

// Exists returns ErrItemNotFound when iid is missing or deleted
func (s *Service) Exists(ctx context.Context, iid uint) error {
	_, err := s.Get(ctx, iid)
	return err
}

// GetDetail returns the item detail page data. The wish flag is only
// resolved when email is set.
func (s *Service) GetDetail(ctx context.Context, iid uint, email string) (*Detail, error) {
	it, err := s.Get(ctx, iid)
	if err != nil {
		return nil, err
	}

	now := s.now()
	detail := &Detail{
		Item:      it,
		Options:   it.Options,
		Tags:      it.Tags,
		UnitPrice: it.EffectivePrice(now),
		OnSale:    it.OnSale(now),
	}

	if s.wishes != nil {
		if email != "" {
			if detail.Wish, err = s.wishes.Value(ctx, iid, email); err != nil {
				return nil, err
			}
		}
		if detail.WishCount, err = s.wishes.Count(ctx, iid); err != nil {
			return nil, err
		}
	}

	return detail, nil
}

// List returns all items, newest first
func (s *Service) List(ctx context.Context) ([]Item, error) {
	var items []Item
	if err := s.db.WithContext(ctx).Order("reg_date DESC, iid DESC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve items: %w", err)
	}
	return items, nil
}

// Search matches query against name, category, content, option text and tags
func (s *Service) Search(ctx context.Context, query string) ([]Item, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.List(ctx)
	}

	pattern := "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
	db := s.db.WithContext(ctx)
	tagged := db.Model(&ItemTag{}).Select("iid").Where("LOWER(tag) LIKE ?", pattern)
	optioned := db.Model(&ItemOption{}).Select("iid").Where("LOWER(option) LIKE ?", pattern)

	var items []Item
	err := db.
		Where("LOWER(name) LIKE ? OR LOWER(category) LIKE ? OR LOWER(content) LIKE ? OR iid IN (?) OR iid IN (?)",
			pattern, pattern, pattern, tagged, optioned).
		Order("reg_date DESC, iid DESC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search items: %w", err)
	}
	return items, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Create inserts an item with its options and tags
func (s *Service) Create(ctx context.Context, req *CreateItemRequest) (*Item, error) {
	it := &Item{
		Name:     req.Name,
		Category: req.Category,
		Img1:     req.Img1,
		Img2:     req.Img2,
		Img3:     req.Img3,
		Content:  req.Content,
		Price:    req.Price,
	}
	for _, opt := range req.Options {
		it.Options = append(it.Options, ItemOption{Option: opt.Option, Count: opt.Count})
	}
	for _, tag := range req.Tags {
		it.Tags = append(it.Tags, ItemTag{Tag: tag})
	}

	if err := s.db.WithContext(ctx).Create(it).Error; err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"iid": it.IID, "name": it.Name}).Info("Item created")
	return it, nil
}

// Update applies the non-nil fields of req
func (s *Service) Update(ctx context.Context, iid uint, req *UpdateItemRequest) (*Item, error) {
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Img1 != nil {
		updates["img1"] = *req.Img1
	}
	if req.Img2 != nil {
		updates["img2"] = *req.Img2
	}
	if req.Img3 != nil {
		updates["img3"] = *req.Img3
	}
	if req.Content != nil {
		updates["content"] = *req.Content
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}

	if len(updates) > 0 {
		if err := s.updateColumns(ctx, iid, updates); err != nil {
			return nil, err
		}
	}
	return s.Get(ctx, iid)
}

// Delete soft deletes an item
func (s *Service) Delete(ctx context.Context, iid uint) error {
	result := s.db.WithContext(ctx).Delete(&Item{}, iid)
	if result.Error != nil {
		return fmt.Errorf("failed to delete item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrItemNotFound
	}

	s.Invalidate(iid)
	s.logger.WithField("iid", iid).Info("Item deleted")
	return nil
}

// SetSale sets the sale price and the date the sale ends
func (s *Service) SetSale(ctx context.Context, iid uint, req *SaleRequest) (*Item, error) {
	if err := s.updateColumns(ctx, iid, map[string]interface{}{
		"sale_price": req.SalePrice,
		"sale_date":  req.SaleDate,
	}); err != nil {
		return nil, err
	}
	return s.Get(ctx, iid)
}

// AddOption adds a purchasable option to an item
func (s *Service) AddOption(ctx context.Context, iid uint, req *CreateOptionRequest) (*ItemOption, error) {
	if _, err := s.Get(ctx, iid); err != nil {
		return nil, err
	}

	opt := &ItemOption{IID: iid, Option: req.Option, Count: req.Count}
	if err := s.db.WithContext(ctx).Create(opt).Error; err != nil {
		return nil, fmt.Errorf("failed to create option: %w", err)
	}

	s.Invalidate(iid)
	return opt, nil
}

// AddTag tags an item
func (s *Service) AddTag(ctx context.Context, iid uint, tag string) (*ItemTag, error) {
	if _, err := s.Get(ctx, iid); err != nil {
		return nil, err
	}

	t := &ItemTag{IID: iid, Tag: strings.TrimSpace(tag)}
	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}

	s.Invalidate(iid)
	return t, nil
}

// Invalidate drops a cached item
func (s *Service) Invalidate(iid uint) {
	s.cache.Remove(iid)
}

// Quote prices the picks at the item's current effective price
func (s *Service) Quote(ctx context.Context, iid uint, reqs []PickRequest) (*Quote, error) {
	it, picker, err := s.pick(ctx, iid, reqs)
	if err != nil {
		return nil, err
	}

	unit := it.EffectivePrice(s.now())
	total := picker.Total(unit)
	return &Quote{
		IID:        iid,
		Picks:      picker.Picks(),
		UnitPrice:  unit,
		TotalPrice: total,
		TotalLabel: money.Label(total, s.currency),
	}, nil
}

// Handoff stores the picks as an order handoff for email
func (s *Service) Handoff(ctx context.Context, email string, iid uint, reqs []PickRequest) (*checkout.Handoff, error) {
	it, picker, err := s.pick(ctx, iid, reqs)
	if err != nil {
		return nil, err
	}

	unit := it.EffectivePrice(s.now())
	lines := make([]ledger.OrderLine, 0, picker.Len())
	for _, pick := range picker.Picks() {
		lines = append(lines, ledger.OrderLine{
			ItemID:     iid,
			OptionID:   pick.IOID,
			Name:       it.Name,
			Image:      it.Img1,
			Option:     pick.Option,
			Count:      pick.Count,
			Price:      unit,
			TotalPrice: unit * int64(pick.Count),
		})
	}

	return s.handoffs.Save(ctx, email, checkout.SourceItem, lines)
}

func (s *Service) pick(ctx context.Context, iid uint, reqs []PickRequest) (*Item, *Picker, error) {
	it, err := s.Get(ctx, iid)
	if err != nil {
		return nil, nil, err
	}

	picker, err := BuildPicker(it, reqs)
	if err != nil {
		return nil, nil, err
	}
	return it, picker, nil
}

func (s *Service) updateColumns(ctx context.Context, iid uint, updates map[string]interface{}) error {
	result := s.db.WithContext(ctx).Model(&Item{}).Where("iid = ?", iid).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrItemNotFound
	}

	s.Invalidate(iid)
	return nil
}
