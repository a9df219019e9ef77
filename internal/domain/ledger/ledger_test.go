package ledger_test

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/storefront-backend/internal/domain/ledger"
)

var (
	idA = ledger.ItemID{ProductID: 1, OptionID: 10}
	idB = ledger.ItemID{ProductID: 2, OptionID: 20}
	idC = ledger.ItemID{ProductID: 3, OptionID: 30}
)

func sampleItems() []ledger.LineItem {
	return []ledger.LineItem{
		{ID: idA, CartID: 100, UnitPrice: 1000, Quantity: 2, Stock: 5, Name: "A"},
		{ID: idB, CartID: 200, UnitPrice: 500, Quantity: 3, Stock: 4, Name: "B"},
	}
}

func TestTotals_Example(t *testing.T) {
	l := ledger.New(sampleItems())

	assert.Equal(t, int64(3500), l.GrandTotal())
	assert.Equal(t, int64(0), l.SelectedSubtotal())

	l.ToggleSelect(idA)
	assert.Equal(t, int64(2000), l.SelectedSubtotal())
}

func TestGrandTotal_MatchesLineTotals(t *testing.T) {
	for i := 0; i < 20; i++ {
		n := gofakeit.IntRange(0, 15)
		items := make([]ledger.LineItem, 0, n)
		var want int64
		for j := 0; j < n; j++ {
			item := ledger.LineItem{
				ID:        ledger.ItemID{ProductID: uint(j + 1), OptionID: uint(gofakeit.IntRange(1, 9))},
				UnitPrice: int64(gofakeit.IntRange(0, 100000)),
				Quantity:  gofakeit.IntRange(1, 20),
				Stock:     20,
			}
			want += item.UnitPrice * int64(item.Quantity)
			items = append(items, item)
		}

		l := ledger.New(items)
		assert.Equal(t, want, l.GrandTotal())
	}
}

func TestSetItems_DropsStaleSelection(t *testing.T) {
	l := ledger.New(sampleItems())
	l.ToggleSelect(idA)
	l.ToggleSelect(idB)

	l.SetItems([]ledger.LineItem{
		{ID: idB, UnitPrice: 500, Quantity: 1, Stock: 4},
		{ID: idC, UnitPrice: 700, Quantity: 1, Stock: 4},
	})

	assert.Equal(t, []ledger.ItemID{idB}, l.SelectedIDs())
	assert.False(t, l.IsSelected(idA))
	assert.Equal(t, int64(500), l.SelectedSubtotal())
}

func TestSetItems_RepeatedIDReplacesInPlace(t *testing.T) {
	l := ledger.New([]ledger.LineItem{
		{ID: idA, UnitPrice: 100, Quantity: 1, Stock: 9},
		{ID: idB, UnitPrice: 200, Quantity: 1, Stock: 9},
		{ID: idA, UnitPrice: 100, Quantity: 4, Stock: 9},
	})

	require.Equal(t, 2, l.Len())
	items := l.Items()
	assert.Equal(t, idA, items[0].ID)
	assert.Equal(t, 4, items[0].Quantity)
}

func TestToggleSelect(t *testing.T) {
	tests := []struct {
		name    string
		toggles []ledger.ItemID
		want    []ledger.ItemID
	}{
		{
			name:    "select one: ok",
			toggles: []ledger.ItemID{idA},
			want:    []ledger.ItemID{idA},
		},
		{
			name:    "select then deselect: empty",
			toggles: []ledger.ItemID{idA, idA},
			want:    []ledger.ItemID{},
		},
		{
			name:    "unknown id: no-op",
			toggles: []ledger.ItemID{idC},
			want:    []ledger.ItemID{},
		},
		{
			name:    "selection follows cart order: ok",
			toggles: []ledger.ItemID{idB, idA},
			want:    []ledger.ItemID{idA, idB},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := ledger.New(sampleItems())
			for _, id := range tt.toggles {
				l.ToggleSelect(id)
			}
			assert.Empty(t, cmp.Diff(tt.want, l.SelectedIDs()))
		})
	}
}

func TestToggleSelectAll(t *testing.T) {
	t.Run("partial selection selects all", func(t *testing.T) {
		l := ledger.New(sampleItems())
		l.ToggleSelect(idA)

		l.ToggleSelectAll()
		assert.True(t, l.AllSelected())
		assert.Equal(t, l.GrandTotal(), l.SelectedSubtotal())
	})

	t.Run("full selection clears", func(t *testing.T) {
		l := ledger.New(sampleItems())
		l.ToggleSelect(idA)
		l.ToggleSelect(idB)

		l.ToggleSelectAll()
		assert.Equal(t, 0, l.SelectedLen())
	})

	t.Run("twice from empty restores empty", func(t *testing.T) {
		l := ledger.New(sampleItems())
		l.ToggleSelectAll()
		l.ToggleSelectAll()
		assert.Equal(t, 0, l.SelectedLen())
	})

	t.Run("twice from full restores full", func(t *testing.T) {
		l := ledger.New(sampleItems())
		l.ToggleSelectAll()
		before := l.SelectedIDs()

		l.ToggleSelectAll()
		l.ToggleSelectAll()
		assert.Equal(t, before, l.SelectedIDs())
	})

	t.Run("empty cart stays empty", func(t *testing.T) {
		l := ledger.New(nil)
		l.ToggleSelectAll()
		assert.Equal(t, 0, l.SelectedLen())
		assert.True(t, l.AllSelected())
	})
}

func TestSetQuantity(t *testing.T) {
	tests := []struct {
		name string
		id   ledger.ItemID
		qty  int
		want int
	}{
		{name: "within bounds: ok", id: idA, qty: 4, want: 4},
		{name: "above stock: clamped to stock", id: idA, qty: 99, want: 5},
		{name: "zero: clamped to one", id: idA, qty: 0, want: 1},
		{name: "negative: clamped to one", id: idA, qty: -3, want: 1},
		{name: "unknown id: no-op", id: idC, qty: 3, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := ledger.New(sampleItems())
			l.SetQuantity(tt.id, tt.qty)

			item, ok := l.Item(idA)
			require.True(t, ok)
			assert.Equal(t, tt.want, item.Quantity)
			assert.Equal(t, int64(1000*tt.want), item.LineTotal())
		})
	}
}

func TestSetQuantity_OutOfStockKeepsOne(t *testing.T) {
	l := ledger.New([]ledger.LineItem{{ID: idA, UnitPrice: 100, Quantity: 2, Stock: 0}})
	l.SetQuantity(idA, 5)

	item, _ := l.Item(idA)
	assert.Equal(t, 1, item.Quantity)
}

func TestRemoveItem(t *testing.T) {
	l := ledger.New(append(sampleItems(), ledger.LineItem{ID: idC, CartID: 300, UnitPrice: 10, Quantity: 1, Stock: 1}))
	l.ToggleSelectAll()

	l.RemoveItem(idA)

	_, ok := l.Item(idA)
	assert.False(t, ok)
	assert.False(t, l.IsSelected(idA))
	assert.Equal(t, int64(1510), l.SelectedSubtotal())

	// index stays consistent after the shift
	item, ok := l.ItemByCartID(300)
	require.True(t, ok)
	assert.Equal(t, idC, item.ID)
	l.SetQuantity(idC, 1)
	c, _ := l.Item(idC)
	assert.Equal(t, idC, c.ID)

	l.RemoveItem(idA)
	assert.Equal(t, 2, l.Len())
}

func TestRemoveAll(t *testing.T) {
	l := ledger.New(sampleItems())
	l.ToggleSelect(idB)

	l.RemoveAll()

	assert.Equal(t, 0, l.Len())
	assert.Equal(t, 0, l.SelectedLen())
	assert.Equal(t, int64(0), l.GrandTotal())
	assert.Equal(t, int64(0), l.SelectedSubtotal())
}

func TestHandoff(t *testing.T) {
	l := ledger.New(sampleItems())
	l.ToggleSelect(idB)

	lines := l.Handoff()

	want := []ledger.OrderLine{
		{CartID: 200, ItemID: 2, OptionID: 20, Name: "B", Count: 3, Price: 500, TotalPrice: 1500},
	}
	assert.Empty(t, cmp.Diff(want, lines))
	assert.Equal(t, l.SelectedSubtotal(), ledger.HandoffTotal(lines))
}

func TestParseItemID(t *testing.T) {
	id, err := ledger.ParseItemID(idB.String())
	require.NoError(t, err)
	assert.Equal(t, idB, id)

	_, err = ledger.ParseItemID("12")
	require.Error(t, err)

	_, err = ledger.ParseItemID("x-1")
	require.Error(t, err)
}
