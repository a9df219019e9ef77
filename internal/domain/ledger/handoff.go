package ledger

// OrderLine is one selected row handed to order creation.
type OrderLine struct {
	CartID     uint   `json:"cid,omitempty"`
	ItemID     uint   `json:"iid"`
	OptionID   uint   `json:"ioid"`
	Name       string `json:"name"`
	Image      string `json:"img"`
	Option     string `json:"option"`
	Count      int    `json:"count"`
	Price      int64  `json:"price"`
	TotalPrice int64  `json:"totalPrice"`
}

// Handoff snapshots the selected rows in cart order.
func (l *Ledger) Handoff() []OrderLine {
	lines := make([]OrderLine, 0, len(l.selected))
	for _, item := range l.items {
		if _, ok := l.selected[item.ID]; !ok {
			continue
		}
		lines = append(lines, OrderLine{
			CartID:     item.CartID,
			ItemID:     item.ID.ProductID,
			OptionID:   item.ID.OptionID,
			Name:       item.Name,
			Image:      item.Image,
			Option:     item.Option,
			Count:      item.Quantity,
			Price:      item.UnitPrice,
			TotalPrice: item.LineTotal(),
		})
	}
	return lines
}

// HandoffTotal sums TotalPrice over lines.
func HandoffTotal(lines []OrderLine) int64 {
	var total int64
	for _, line := range lines {
		total += line.TotalPrice
	}
	return total
}
