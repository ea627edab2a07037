package domain

import "math"

// CartItem is a product snapshot plus the quantity in the cart.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

// Cart is the session's ledger of line items. It holds at most one item per
// product id; quantities are always >= 1. All operations are synchronous and
// total: they never fail on valid input.
type Cart struct {
	Items []CartItem `json:"items"`
}

// FindIndex returns the index of the item with the given product id, or -1.
func (c *Cart) FindIndex(id string) int {
	for i := range c.Items {
		if c.Items[i].ID == id {
			return i
		}
	}
	return -1
}

// Add inserts the product with quantity 1, or increments the existing item's
// quantity by 1. Adding an out-of-stock product is a no-op; Add reports
// whether the ledger changed.
func (c *Cart) Add(p Product) bool {
	if !p.InStock() {
		return false
	}
	if i := c.FindIndex(p.ID); i >= 0 {
		c.Items[i].Quantity++
		return true
	}
	c.Items = append(c.Items, CartItem{Product: p, Quantity: 1})
	return true
}

// SetQuantity sets the quantity of the item with the given id. A quantity
// below 1 removes the item. Quantities are not capped by stock here; stock
// capping is a presentation concern.
func (c *Cart) SetQuantity(id string, n int) {
	if n < 1 {
		c.Remove(id)
		return
	}
	if i := c.FindIndex(id); i >= 0 {
		c.Items[i].Quantity = n
	}
}

// Remove deletes the item with the given id if present.
func (c *Cart) Remove(id string) {
	if i := c.FindIndex(id); i >= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	}
}

// Total returns the sum of price x quantity over all items, rounded to two
// decimal places.
func (c *Cart) Total() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Price * float64(item.Quantity)
	}
	return math.Round(total*100) / 100
}

// ItemCount returns the sum of quantities across all items.
func (c *Cart) ItemCount() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}
