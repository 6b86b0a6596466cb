// Package calculator prices scrap by weight or piece from a fixed rate card.
package calculator

// Unit is how an item is measured.
type Unit string

const (
	Kg    Unit = "kg" // weight, fractional quantities
	Piece Unit = "pc" // count, whole quantities
)

// Item is one rate-card entry. Price is rupees per unit.
type Item struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Unit  Unit    `json:"unit"`
}

// Step is the input granularity for the item's unit.
func (it Item) Step() string {
	if it.Unit == Piece {
		return "1"
	}
	return "0.01"
}

// QtyField is the form field that carries this item's quantity.
func (it Item) QtyField() string { return it.ID + "_qty" }

var catalog = []Item{
	{ID: "newspaper", Name: "Newspaper", Price: 14, Unit: Kg},
	{ID: "copy_paper", Name: "Copy", Price: 12, Unit: Kg},
	{ID: "book", Name: "Book", Price: 10, Unit: Kg},
	{ID: "magazine", Name: "Magazine", Price: 8, Unit: Kg},
	{ID: "copy_book_mix", Name: "Copy + Book Mix", Price: 10, Unit: Kg},
	{ID: "cartoon", Name: "Cartoon", Price: 10, Unit: Kg},
	{ID: "iron", Name: "Iron", Price: 25, Unit: Kg},
	{ID: "cutting_iron", Name: "Cutting Iron", Price: 15, Unit: Kg},
	{ID: "tina", Name: "Tina", Price: 12, Unit: Kg},
	{ID: "steel", Name: "Steel", Price: 40, Unit: Kg},
	{ID: "al_cast", Name: "Aluminium (Cast)", Price: 100, Unit: Kg},
	{ID: "al_beat", Name: "Aluminium (Beat)", Price: 120, Unit: Kg},
	{ID: "plastic_black", Name: "Plastic (Black)", Price: 2, Unit: Kg},
	{ID: "plastic_hard", Name: "Plastic (Hard)", Price: 2, Unit: Kg},
	{ID: "plastic_soft", Name: "Plastic (Soft)", Price: 10, Unit: Kg},
	{ID: "bottle_quarter", Name: "Bottle (Quarter)", Price: 50, Unit: Piece},
	{ID: "bottle_full", Name: "Bottle (Full)", Price: 1, Unit: Piece},
	{ID: "beer_bottle", Name: "Beer Bottle", Price: 1, Unit: Piece},
	{ID: "computer", Name: "Computer", Price: 15, Unit: Kg},
	{ID: "cpu", Name: "CPU", Price: 25, Unit: Kg},
	{ID: "ups", Name: "U.P.S", Price: 30, Unit: Kg},
	{ID: "battery_black", Name: "Battery (Black Dry)", Price: 90, Unit: Kg},
	{ID: "battery_liquid", Name: "Battery (Liquid)", Price: 100, Unit: Kg},
	{ID: "tyre", Name: "Tyre (4+6 Wheeler only)", Price: 5, Unit: Kg},
	{ID: "tube", Name: "Tube", Price: 10, Unit: Kg},
	{ID: "fridge_big", Name: "Frize (Big)", Price: 400, Unit: Piece},
	{ID: "fridge_small", Name: "Frize (Small)", Price: 300, Unit: Piece},
}

var byID = func() map[string]int {
	m := make(map[string]int, len(catalog))
	for i, it := range catalog {
		m[it.ID] = i
	}
	return m
}()

// Catalog returns a copy of the rate card in display order.
func Catalog() []Item {
	return append([]Item(nil), catalog...)
}

// ItemByID looks an item up by id.
func ItemByID(id string) (Item, bool) {
	i, ok := byID[id]
	if !ok {
		return Item{}, false
	}
	return catalog[i], true
}
