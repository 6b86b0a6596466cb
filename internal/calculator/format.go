package calculator

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var inr = message.NewPrinter(language.MustParse("en-IN"))

// FormatINR renders v as rupees with Indian digit grouping and two decimals.
func FormatINR(v float64) string {
	if v == 0 {
		v = 0 // no "-0.00"
	}
	return "₹ " + inr.Sprintf("%v", number.Decimal(v, number.Scale(2)))
}

// UnitPrice renders an item's price with its unit, e.g. "₹ 14.00/kg".
func UnitPrice(it Item) string {
	return FormatINR(it.Price) + "/" + string(it.Unit)
}
