package cart

import (
	"errors"
	"sync"

	"github.com/mhnazari/zarshop-golang/internal/models"
)

// ErrMaxOrderReached is returned by AddItem when the line already holds
// the product's maximum order quantity. The cart is left unchanged.
var ErrMaxOrderReached = errors.New("maximum order quantity reached for this product")

// Item is a product line in a cart.
type Item struct {
	Product  models.Product `json:"product"`
	Quantity int            `json:"quantity"`
}

// LineTotal is the item's contribution to the cart total.
func (i Item) LineTotal() float64 {
	return i.Product.Price * float64(i.Quantity)
}

// Cart is a pure in-memory collection of selected products. Quantities are
// clamped to [minOrder, maxOrder]; an item whose quantity would fall below
// minOrder is removed instead. Totals are recomputed from the current
// items on every read.
type Cart struct {
	mu    sync.Mutex
	items []*Item // insertion order preserved
}

func New() *Cart {
	return &Cart{}
}

func (c *Cart) find(productID int64) (int, *Item) {
	for i, it := range c.items {
		if it.Product.ID == productID {
			return i, it
		}
	}
	return -1, nil
}

// AddItem puts a product in the cart. A new line starts at the product's
// minimum order quantity; an existing line is incremented by one unless it
// already sits at the maximum, in which case ErrMaxOrderReached is
// returned and nothing changes.
func (c *Cart) AddItem(p models.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, existing := c.find(p.ID); existing != nil {
		max := existing.Product.EffectiveMaxOrder()
		if max > 0 && existing.Quantity >= max {
			return ErrMaxOrderReached
		}
		existing.Quantity++
		return nil
	}

	c.items = append(c.items, &Item{Product: p, Quantity: p.EffectiveMinOrder()})
	return nil
}

// DecreaseItem lowers a line's quantity by one. At the minimum order
// quantity the line is removed entirely, so a present item never holds
// less than minOrder.
func (c *Cart) DecreaseItem(productID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, existing := c.find(productID)
	if existing == nil {
		return
	}
	if existing.Quantity > existing.Product.EffectiveMinOrder() {
		existing.Quantity--
		return
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
}

// RemoveItem drops a line regardless of quantity.
func (c *Cart) RemoveItem(productID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i, existing := c.find(productID); existing != nil {
		c.items = append(c.items[:i], c.items[i+1:]...)
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}

// Items returns a copy of the current lines.
func (c *Cart) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Item, 0, len(c.items))
	for _, it := range c.items {
		out = append(out, *it)
	}
	return out
}

// TotalItems is the sum of quantities across all lines.
func (c *Cart) TotalItems() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := 0
	for _, it := range c.items {
		total += it.Quantity
	}
	return total
}

// TotalPrice is the sum of price * quantity across all lines.
func (c *Cart) TotalPrice() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total float64
	for _, it := range c.items {
		total += it.LineTotal()
	}
	return total
}

// Registry hands out one cart per user for the HTTP layer. Carts are not
// persisted; a server restart empties them.
type Registry struct {
	mu    sync.Mutex
	carts map[int64]*Cart
}

func NewRegistry() *Registry {
	return &Registry{carts: make(map[int64]*Cart)}
}

// Get returns the user's cart, creating it on first use.
func (r *Registry) Get(userID int64) *Cart {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.carts[userID]
	if !ok {
		c = New()
		r.carts[userID] = c
	}
	return c
}
