package calculator

import (
	"math"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog(t *testing.T) {
	items := Catalog()
	require.Len(t, items, 27)
	seen := map[string]bool{}
	for _, it := range items {
		assert.False(t, seen[it.ID], "duplicate id %s", it.ID)
		seen[it.ID] = true
		assert.Positive(t, it.Price)
		assert.Contains(t, []Unit{Kg, Piece}, it.Unit)
	}

	steel, ok := ItemByID("steel")
	require.True(t, ok)
	assert.Equal(t, 40.0, steel.Price)
	assert.Equal(t, "0.01", steel.Step())

	fridge, _ := ItemByID("fridge_big")
	assert.Equal(t, "1", fridge.Step())

	items[0].Price = 999
	again, _ := ItemByID(items[0].ID)
	assert.Equal(t, 14.0, again.Price, "Catalog must return a copy")
}

func TestQuoteNewspaperAndSteel(t *testing.T) {
	c, err := New(0)
	require.NoError(t, err)

	q := c.Quote(ParseQuantities(url.Values{"newspaper_qty": {"2"}, "steel_qty": {"1"}}))
	assert.Equal(t, 68.0, q.ItemsTotal)
	assert.Equal(t, 0.0, q.Tax)
	assert.Equal(t, 68.0, q.GrandTotal)
	assert.Equal(t, "₹ 68.00", FormatINR(q.GrandTotal))

	require.Len(t, q.Lines, 27)
	assert.Equal(t, 28.0, q.Lines[0].Total)
	assert.Equal(t, "2", q.Lines[0].Input)
}

func TestQuoteAppliesTax(t *testing.T) {
	c, err := New(18)
	require.NoError(t, err)
	q := c.Quote(Quantities{"al_beat": 1})
	assert.Equal(t, 120.0, q.ItemsTotal)
	assert.InDelta(t, 21.6, q.Tax, 1e-9)
	assert.InDelta(t, 141.6, q.GrandTotal, 1e-9)
}

func TestNewRejectsBadTax(t *testing.T) {
	for _, r := range []float64{-1, math.NaN(), math.Inf(1)} {
		_, err := New(r)
		assert.Error(t, err, "rate %v", r)
	}
}

func TestParseQuantities(t *testing.T) {
	q := ParseQuantities(url.Values{
		"newspaper_qty":   {" 1.256 "},
		"fridge_big_qty":  {"2.9"},
		"book_qty":        {"-3"},
		"magazine_qty":    {"abc"},
		"iron_qty":        {""},
		"tina_qty":        {"NaN"},
		"unknown_qty":     {"5"},
		"beer_bottle_qty": {"12"},
	})
	assert.Equal(t, Quantities{"newspaper": 1.26, "fridge_big": 2, "beer_bottle": 12}, q)
}

func TestResetZeroesEverything(t *testing.T) {
	c, _ := New(5)
	q := c.Reset()
	assert.Zero(t, q.ItemsTotal)
	assert.Zero(t, q.Tax)
	assert.Zero(t, q.GrandTotal)
	for _, l := range q.Lines {
		assert.Zero(t, l.Total, l.Item.ID)
		assert.Empty(t, l.Input, l.Item.ID)
	}
	assert.Equal(t, "₹ 0.00", FormatINR(q.GrandTotal))
}

func TestFormatINR(t *testing.T) {
	assert.Equal(t, "₹ 0.00", FormatINR(math.Copysign(0, -1)))
	assert.Equal(t, "₹ 14.50", FormatINR(14.5))
	assert.Equal(t, "₹ 1,000.00", FormatINR(1000))
	assert.Equal(t, "₹ 400.00/pc", UnitPrice(Item{Price: 400, Unit: Piece}))
}
