package domain

import (
	catalog "github.com/freshbasket/storefront/internal/catalog/domain"
)

// Line pairs a product reference with a quantity. A cart holds at most one
// line per product.
type Line struct {
	ProductID string
	Quantity  int
}

// Cart is the mutable set of lines owned by a single owner id. An owner with
// no persisted lines has an empty cart, never a missing one.
type Cart struct {
	OwnerID string
	Lines   []Line
}

// Quantity returns the current line quantity for productID, zero when no
// line exists.
func (c *Cart) Quantity(productID string) int {
	for _, l := range c.Lines {
		if l.ProductID == productID {
			return l.Quantity
		}
	}
	return 0
}

// Merge raises the quantity of an existing line by qty, or appends a new
// line. It never creates a second line for the same product and never lowers
// a quantity. Returns the resulting line quantity.
func (c *Cart) Merge(productID string, qty int) int {
	for i, l := range c.Lines {
		if l.ProductID == productID {
			c.Lines[i].Quantity += qty
			return c.Lines[i].Quantity
		}
	}
	c.Lines = append(c.Lines, Line{ProductID: productID, Quantity: qty})
	return qty
}

// Remove deletes the line for productID, reporting whether one existed.
func (c *Cart) Remove(productID string) bool {
	for i, l := range c.Lines {
		if l.ProductID == productID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return true
		}
	}
	return false
}

// ResolvedLine is a cart line with its product reference resolved for
// display.
type ResolvedLine struct {
	Product  catalog.Product
	Quantity int
}

// View is the read model returned to callers: resolved lines plus the summed
// item count shown on the cart badge.
type View struct {
	Lines []ResolvedLine
}

func (v View) ItemCount() int {
	count := 0
	for _, l := range v.Lines {
		count += l.Quantity
	}
	return count
}
