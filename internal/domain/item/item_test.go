package item

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectivePrice(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tomorrow := now.Add(24 * time.Hour)
	yesterday := now.Add(-24 * time.Hour)

	tests := []struct {
		name string
		item Item
		want int64
	}{
		{name: "no sale: list price", item: Item{Price: 10000}, want: 10000},
		{name: "running sale: sale price", item: Item{Price: 10000, SalePrice: 7000, SaleDate: &tomorrow}, want: 7000},
		{name: "expired sale: list price", item: Item{Price: 10000, SalePrice: 7000, SaleDate: &yesterday}, want: 10000},
		{name: "sale ending now: list price", item: Item{Price: 10000, SalePrice: 7000, SaleDate: &now}, want: 10000},
		{name: "zero sale price: list price", item: Item{Price: 10000, SaleDate: &tomorrow}, want: 10000},
		{name: "sale price without date: list price", item: Item{Price: 10000, SalePrice: 7000}, want: 10000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.item.EffectivePrice(now))
			assert.Equal(t, tt.want != tt.item.Price, tt.item.OnSale(now))
		})
	}
}

var (
	small = ItemOption{IOID: 1, IID: 9, Option: "S", Count: 3}
	large = ItemOption{IOID: 2, IID: 9, Option: "L", Count: 1}
)

func TestPicker_Add(t *testing.T) {
	p := &Picker{}
	require.NoError(t, p.Add(small))
	require.NoError(t, p.Add(large))

	err := p.Add(small)
	require.ErrorIs(t, err, ErrOptionAlreadyPicked)
	assert.Equal(t, 2, p.Len())

	want := []Pick{
		{IOID: 1, Option: "S", Count: 1, Stock: 3},
		{IOID: 2, Option: "L", Count: 1, Stock: 1},
	}
	assert.Empty(t, cmp.Diff(want, p.Picks()))
}

func TestPicker_Bounds(t *testing.T) {
	p := &Picker{}
	require.NoError(t, p.Add(small))

	p.Decrease(0)
	assert.Equal(t, 1, p.Picks()[0].Count)

	for i := 0; i < 5; i++ {
		p.Increase(0)
	}
	assert.Equal(t, 3, p.Picks()[0].Count)

	p.SetCount(0, 0)
	assert.Equal(t, 1, p.Picks()[0].Count)
	p.SetCount(0, 99)
	assert.Equal(t, 3, p.Picks()[0].Count)

	// out of range indexes are ignored
	p.Increase(4)
	p.Decrease(-1)
	p.Remove(7)
	assert.Equal(t, 1, p.Len())

	assert.Equal(t, int64(3*2500), p.Total(2500))

	p.Remove(0)
	assert.Equal(t, 0, p.Len())
	assert.Equal(t, int64(0), p.Total(2500))
}

func TestBuildPicker(t *testing.T) {
	it := &Item{IID: 9, Price: 2500, Options: []ItemOption{small, large}}

	tests := []struct {
		name    string
		reqs    []PickRequest
		want    []Pick
		wantErr error
	}{
		{
			name: "counts clamped to stock: ok",
			reqs: []PickRequest{{IOID: 1, Count: 10}, {IOID: 2}},
			want: []Pick{
				{IOID: 1, Option: "S", Count: 3, Stock: 3},
				{IOID: 2, Option: "L", Count: 1, Stock: 1},
			},
		},
		{
			name:    "nothing picked: error",
			wantErr: ErrNothingPicked,
		},
		{
			name:    "unknown option: error",
			reqs:    []PickRequest{{IOID: 5, Count: 1}},
			wantErr: ErrOptionNotFound,
		},
		{
			name:    "duplicate option: error",
			reqs:    []PickRequest{{IOID: 1, Count: 1}, {IOID: 1, Count: 2}},
			wantErr: ErrOptionAlreadyPicked,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := BuildPicker(it, tt.reqs)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.want, p.Picks()))
		})
	}
}
