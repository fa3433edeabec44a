// Package cart keeps the per-session shopping cart in memory. Lines are
// keyed by menu item id and merged on add; the collection is never touched
// directly by handlers, only through the methods here.
package cart

import (
	"sync"

	"dinehub/internal/money"
)

type Line struct {
	MenuItemID uint    `json:"menu_item_id"`
	Name       string  `json:"name"`
	UnitPrice  float64 `json:"unit_price"`
	Quantity   uint    `json:"quantity"`
	ImageURL   string  `json:"image_url"`
}

type Cart struct {
	mu    sync.Mutex
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

// AddItem merges into an existing line when the item is already present,
// otherwise appends a new line. Insertion order is first-added order and an
// update never reorders. A quantity of zero is a no-op.
func (c *Cart) AddItem(item Line, quantity uint) {
	if quantity == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].MenuItemID == item.MenuItemID {
			c.lines[i].Quantity += quantity
			return
		}
	}
	item.Quantity = quantity
	c.lines = append(c.lines, item)
}

// RemoveItem drops the matching line. Removing an absent item is a no-op.
func (c *Cart) RemoveItem(menuItemID uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(menuItemID)
}

func (c *Cart) removeLocked(menuItemID uint) {
	for i := range c.lines {
		if c.lines[i].MenuItemID == menuItemID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// UpdateQuantity sets the quantity exactly. Zero behaves as RemoveItem.
func (c *Cart) UpdateQuantity(menuItemID uint, quantity uint) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if quantity == 0 {
		c.removeLocked(menuItemID)
		return
	}
	for i := range c.lines {
		if c.lines[i].MenuItemID == menuItemID {
			c.lines[i].Quantity = quantity
			return
		}
	}
}

// Clear empties the cart. Calling it on an empty cart is fine, which is what
// guards the confirmation view against clearing twice.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

func (c *Cart) Subtotal() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var sum float64
	for _, l := range c.lines {
		sum += money.Line(l.UnitPrice, l.Quantity)
	}
	return sum
}

func (c *Cart) ItemCount() uint {
	c.mu.Lock()
	defer c.mu.Unlock()

	var n uint
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// Snapshot returns a copy of the lines in insertion order. Order drafts are
// built from snapshots so a failed submission leaves the live cart intact.
func (c *Cart) Snapshot() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Quantity(menuItemID uint) uint {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, l := range c.lines {
		if l.MenuItemID == menuItemID {
			return l.Quantity
		}
	}
	return 0
}
