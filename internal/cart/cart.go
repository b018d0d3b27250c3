// Package cart keeps the visitor's duplicate-free list of service packages.
package cart

import (
	"errors"
	"fmt"
	"slices"

	"github.com/wolfman30/autocare-booking/internal/catalog"
)

// ErrDuplicateItem is returned when an item with the same id is already in the cart.
var ErrDuplicateItem = errors.New("cart: item already in cart")

// Item is a service item together with the category it was added from.
type Item struct {
	catalog.ServiceItem
	CategoryID string `json:"category_id"`
}

// State is the serialisable form of a Cart.
type State struct {
	Open  bool   `json:"open"`
	Items []Item `json:"items"`
}

// Cart is an ordered set of items keyed by item id. It is not safe for
// concurrent use.
type Cart struct {
	open  bool
	items []Item
}

// New returns an empty, closed cart.
func New() *Cart { return &Cart{} }

// Add appends item unless one with the same id is present, in which case the
// cart is left unchanged.
func (c *Cart) Add(item catalog.ServiceItem, categoryID string) error {
	if c.Contains(item.ID) {
		return fmt.Errorf("%w: %s", ErrDuplicateItem, item.ID)
	}
	c.items = append(c.items, Item{ServiceItem: item, CategoryID: categoryID})
	return nil
}

// Remove deletes the item with the given id and reports whether it was there.
func (c *Cart) Remove(itemID string) bool {
	before := len(c.items)
	c.items = slices.DeleteFunc(c.items, func(i Item) bool { return i.ID == itemID })
	return len(c.items) != before
}

// Contains reports whether an item with the id is present.
func (c *Cart) Contains(itemID string) bool {
	return slices.ContainsFunc(c.items, func(i Item) bool { return i.ID == itemID })
}

// Subtotal sums the prices of the current items.
func (c *Cart) Subtotal() int {
	total := 0
	for _, item := range c.items {
		total += item.Price
	}
	return total
}

// Items returns a copy of the items in insertion order.
func (c *Cart) Items() []Item {
	return slices.Clone(c.items)
}

// Len returns the number of items.
func (c *Cart) Len() int { return len(c.items) }

// Open shows the cart drawer.
func (c *Cart) Open() { c.open = true }

// Close hides the cart drawer.
func (c *Cart) Close() { c.open = false }

// IsOpen reports whether the drawer is shown.
func (c *Cart) IsOpen() bool { return c.open }

// State captures the cart for snapshots.
func (c *Cart) State() State {
	return State{Open: c.open, Items: c.Items()}
}

// Restore replaces the cart contents with st, dropping duplicate ids.
func (c *Cart) Restore(st State) {
	c.open = st.Open
	c.items = nil
	for _, item := range st.Items {
		if !c.Contains(item.ID) {
			c.items = append(c.items, item)
		}
	}
}
