package item

import "fmt"

// Pick is one option chosen on the item detail page
type Pick struct {
	IOID   uint   `json:"ioid"`
	Option string `json:"option"`
	Count  int    `json:"count"`
	Stock  int    `json:"stock"`
}

// Picker holds the options chosen for a single item in the order they were
// added. Counts stay within [1, stock].
type Picker struct {
	picks []Pick
}

// Add appends opt with count 1
func (p *Picker) Add(opt ItemOption) error {
	for _, pick := range p.picks {
		if pick.IOID == opt.IOID {
			return fmt.Errorf("%w: %s", ErrOptionAlreadyPicked, opt.Option)
		}
	}
	p.picks = append(p.picks, Pick{IOID: opt.IOID, Option: opt.Option, Count: 1, Stock: opt.Count})
	return nil
}

// Increase adds one to the i-th pick unless it is at stock
func (p *Picker) Increase(i int) {
	if i < 0 || i >= len(p.picks) {
		return
	}
	if p.picks[i].Count < p.picks[i].Stock {
		p.picks[i].Count++
	}
}

// Decrease subtracts one from the i-th pick unless it is at 1
func (p *Picker) Decrease(i int) {
	if i < 0 || i >= len(p.picks) {
		return
	}
	if p.picks[i].Count > 1 {
		p.picks[i].Count--
	}
}

// SetCount sets the i-th pick's count clamped to [1, stock]
func (p *Picker) SetCount(i, n int) {
	if i < 0 || i >= len(p.picks) {
		return
	}
	if n > p.picks[i].Stock {
		n = p.picks[i].Stock
	}
	if n < 1 {
		n = 1
	}
	p.picks[i].Count = n
}

// Remove drops the i-th pick
func (p *Picker) Remove(i int) {
	if i < 0 || i >= len(p.picks) {
		return
	}
	p.picks = append(p.picks[:i], p.picks[i+1:]...)
}

// Picks returns a copy of the current picks
func (p *Picker) Picks() []Pick {
	out := make([]Pick, len(p.picks))
	copy(out, p.picks)
	return out
}

func (p *Picker) Len() int { return len(p.picks) }

// Total is the sum of count × unitPrice
func (p *Picker) Total(unitPrice int64) int64 {
	var total int64
	for _, pick := range p.picks {
		total += int64(pick.Count) * unitPrice
	}
	return total
}

// PickRequest is a client supplied option choice
type PickRequest struct {
	IOID  uint `json:"ioid" binding:"required"`
	Count int  `json:"count"`
}

// BuildPicker replays requested picks against the item's options. Unknown
// options and duplicates are errors; counts are clamped to stock.
func BuildPicker(it *Item, reqs []PickRequest) (*Picker, error) {
	if len(reqs) == 0 {
		return nil, ErrNothingPicked
	}

	p := &Picker{}
	for _, req := range reqs {
		opt, ok := it.Option(req.IOID)
		if !ok {
			return nil, fmt.Errorf("%w: %d", ErrOptionNotFound, req.IOID)
		}
		if err := p.Add(opt); err != nil {
			return nil, err
		}
		if req.Count > 0 {
			p.SetCount(p.Len()-1, req.Count)
		}
	}
	return p, nil
}
