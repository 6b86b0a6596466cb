package calculator

import (
	"errors"
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Quantities maps item id to the entered quantity.
type Quantities map[string]float64

// ParseQuantities reads "<id>_qty" fields. Blank, unparsable, negative or
// non-finite inputs count as zero; piece items are truncated to whole pieces.
func ParseQuantities(v url.Values) Quantities {
	q := make(Quantities)
	for _, it := range catalog {
		raw := strings.TrimSpace(v.Get(it.QtyField()))
		if raw == "" {
			continue
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		if n := normalize(it, f); n > 0 {
			q[it.ID] = n
		}
	}
	return q
}

func normalize(it Item, qty float64) float64 {
	if math.IsNaN(qty) || math.IsInf(qty, 0) || qty <= 0 {
		return 0
	}
	if it.Unit == Piece {
		return math.Trunc(qty)
	}
	return math.Round(qty*100) / 100
}

// Line is one priced row of a quote.
type Line struct {
	Item  Item    `json:"item"`
	Qty   float64 `json:"qty"`
	Total float64 `json:"total"`
	// Input is the quantity as shown in the input box; "" when not entered.
	Input string `json:"input"`
}

// Quote is the priced result for a set of quantities.
type Quote struct {
	Lines      []Line  `json:"lines"`
	ItemsTotal float64 `json:"items_total"`
	TaxRate    float64 `json:"tax_rate"`
	Tax        float64 `json:"tax"`
	GrandTotal float64 `json:"grand_total"`
}

// Calculator prices quantities against the catalog with a fixed tax rate.
type Calculator struct {
	taxRate float64 // percent
}

// New returns a calculator charging taxRate percent on the items total.
func New(taxRate float64) (*Calculator, error) {
	if math.IsNaN(taxRate) || math.IsInf(taxRate, 0) || taxRate < 0 {
		return nil, errors.New("tax rate must be a non-negative number")
	}
	return &Calculator{taxRate: taxRate}, nil
}

func (c *Calculator) TaxRate() float64 { return c.taxRate }

// Quote prices every catalog item. Unknown ids in q are ignored.
func (c *Calculator) Quote(q Quantities) Quote {
	out := Quote{Lines: make([]Line, 0, len(catalog)), TaxRate: c.taxRate}
	for _, it := range catalog {
		qty := normalize(it, q[it.ID])
		line := Line{Item: it, Qty: qty, Total: qty * it.Price}
		if qty > 0 {
			line.Input = strconv.FormatFloat(qty, 'f', -1, 64)
		}
		out.Lines = append(out.Lines, line)
		out.ItemsTotal += line.Total
	}
	out.Tax = out.ItemsTotal * (c.taxRate / 100)
	out.GrandTotal = out.ItemsTotal + out.Tax
	return out
}

// Reset is the quote with every input cleared.
func (c *Calculator) Reset() Quote {
	return c.Quote(nil)
}
