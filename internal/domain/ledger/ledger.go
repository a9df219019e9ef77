// Package ledger keeps the cart page's line items and the subset selected for
// checkout, and derives the totals shown under the cart table.
package ledger

import (
	"fmt"
	"strconv"
	"strings"
)

// ItemID identifies a line item by product and option.
type ItemID struct {
	ProductID uint `json:"iid"`
	OptionID  uint `json:"ioid"`
}

// String returns the "<iid>-<ioid>" form used as a session key.
func (id ItemID) String() string {
	return fmt.Sprintf("%d-%d", id.ProductID, id.OptionID)
}

// ParseItemID parses the form produced by ItemID.String.
func ParseItemID(s string) (ItemID, error) {
	productPart, optionPart, ok := strings.Cut(s, "-")
	if !ok {
		return ItemID{}, fmt.Errorf("invalid item id %q", s)
	}

	productID, err := strconv.ParseUint(productPart, 10, 32)
	if err != nil {
		return ItemID{}, fmt.Errorf("invalid product id in %q: %w", s, err)
	}
	optionID, err := strconv.ParseUint(optionPart, 10, 32)
	if err != nil {
		return ItemID{}, fmt.Errorf("invalid option id in %q: %w", s, err)
	}

	return ItemID{ProductID: uint(productID), OptionID: uint(optionID)}, nil
}

// LineItem is one product/option/quantity entry in the cart.
type LineItem struct {
	ID        ItemID
	CartID    uint  // backend row id
	UnitPrice int64 // smallest currency unit
	Quantity  int
	Stock     int

	Name   string
	Option string
	Image  string
}

// LineTotal returns UnitPrice × Quantity.
func (li LineItem) LineTotal() int64 {
	return li.UnitPrice * int64(li.Quantity)
}

// Ledger holds the cart's line items and the selection. It is owned by a
// single caller and is not safe for concurrent use.
type Ledger struct {
	items    []LineItem
	index    map[ItemID]int
	selected map[ItemID]struct{}
}

// New returns a ledger holding items with nothing selected.
func New(items []LineItem) *Ledger {
	l := &Ledger{
		selected: make(map[ItemID]struct{}),
	}
	l.SetItems(items)
	return l
}

// SetItems replaces the line-item list. Selected ids that no longer exist are
// dropped. A repeated id replaces the earlier entry in place.
func (l *Ledger) SetItems(items []LineItem) {
	l.items = make([]LineItem, 0, len(items))
	l.index = make(map[ItemID]int, len(items))

	for _, item := range items {
		if i, ok := l.index[item.ID]; ok {
			l.items[i] = item
			continue
		}
		l.index[item.ID] = len(l.items)
		l.items = append(l.items, item)
	}

	for id := range l.selected {
		if _, ok := l.index[id]; !ok {
			delete(l.selected, id)
		}
	}
}

// ToggleSelect flips membership of id in the selection. Unknown ids are ignored.
func (l *Ledger) ToggleSelect(id ItemID) {
	if _, ok := l.index[id]; !ok {
		return
	}

	if _, ok := l.selected[id]; ok {
		delete(l.selected, id)
		return
	}
	l.selected[id] = struct{}{}
}

// ToggleSelectAll clears the selection when every item is selected and
// otherwise selects every item.
func (l *Ledger) ToggleSelectAll() {
	if len(l.selected) == len(l.items) {
		clear(l.selected)
		return
	}

	for _, item := range l.items {
		l.selected[item.ID] = struct{}{}
	}
}

// SetQuantity sets the quantity of id clamped to [1, stock]. When stock is
// below 1 the lower bound wins.
func (l *Ledger) SetQuantity(id ItemID, qty int) {
	i, ok := l.index[id]
	if !ok {
		return
	}

	l.items[i].Quantity = clampQuantity(qty, l.items[i].Stock)
}

// RemoveItem deletes id from the cart and the selection.
func (l *Ledger) RemoveItem(id ItemID) {
	i, ok := l.index[id]
	if !ok {
		return
	}

	l.items = append(l.items[:i], l.items[i+1:]...)
	delete(l.index, id)
	delete(l.selected, id)

	for j := i; j < len(l.items); j++ {
		l.index[l.items[j].ID] = j
	}
}

// RemoveAll empties the cart and the selection.
func (l *Ledger) RemoveAll() {
	l.items = l.items[:0]
	clear(l.index)
	clear(l.selected)
}

// GrandTotal sums line totals over all items.
func (l *Ledger) GrandTotal() int64 {
	var total int64
	for _, item := range l.items {
		total += item.LineTotal()
	}
	return total
}

// SelectedSubtotal sums line totals over selected items.
func (l *Ledger) SelectedSubtotal() int64 {
	var total int64
	for _, item := range l.items {
		if _, ok := l.selected[item.ID]; ok {
			total += item.LineTotal()
		}
	}
	return total
}

// Items returns a copy of the line items in cart order.
func (l *Ledger) Items() []LineItem {
	out := make([]LineItem, len(l.items))
	copy(out, l.items)
	return out
}

// Item returns the line item for id.
func (l *Ledger) Item(id ItemID) (LineItem, bool) {
	i, ok := l.index[id]
	if !ok {
		return LineItem{}, false
	}
	return l.items[i], true
}

// ItemByCartID looks a line item up by its backend row id.
func (l *Ledger) ItemByCartID(cartID uint) (LineItem, bool) {
	for _, item := range l.items {
		if item.CartID == cartID {
			return item, true
		}
	}
	return LineItem{}, false
}

// IsSelected reports whether id is selected.
func (l *Ledger) IsSelected(id ItemID) bool {
	_, ok := l.selected[id]
	return ok
}

// SelectedIDs returns selected ids in cart order.
func (l *Ledger) SelectedIDs() []ItemID {
	ids := make([]ItemID, 0, len(l.selected))
	for _, item := range l.items {
		if _, ok := l.selected[item.ID]; ok {
			ids = append(ids, item.ID)
		}
	}
	return ids
}

// Select restores a previously stored selection. Unknown ids are ignored.
func (l *Ledger) Select(ids ...ItemID) {
	for _, id := range ids {
		if _, ok := l.index[id]; ok {
			l.selected[id] = struct{}{}
		}
	}
}

func (l *Ledger) Len() int         { return len(l.items) }
func (l *Ledger) SelectedLen() int { return len(l.selected) }

// AllSelected reports whether the selection covers every item. An empty
// cart counts as fully selected, matching ToggleSelectAll.
func (l *Ledger) AllSelected() bool {
	return len(l.selected) == len(l.items)
}

func clampQuantity(qty, stock int) int {
	if qty > stock {
		qty = stock
	}
	if qty < 1 {
		qty = 1
	}
	return qty
}
