package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/mhnazari/zarshop-golang/internal/models"
)

func product(id int64, price float64, minOrder, maxOrder int) models.Product {
	return models.Product{
		ID:       id,
		Title:    "test product",
		Price:    price,
		MinOrder: minOrder,
		MaxOrder: maxOrder,
	}
}

func TestAddItemNewLineStartsAtMinOrder(t *testing.T) {
	c := New()

	require.NoError(t, c.AddItem(product(1, 1000, 0, 0)))
	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity, "default min order is 1")

	require.NoError(t, c.AddItem(product(2, 500, 3, 0)))
	items = c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, 1, items[0].Quantity, "existing line untouched")
	assert.Equal(t, 3, items[1].Quantity, "new line starts at min order")
}

func TestAddItemIncrementsUntilMaxOrder(t *testing.T) {
	c := New()
	p := product(1, 1000, 0, 3)

	require.NoError(t, c.AddItem(p)) // quantity 1
	require.NoError(t, c.AddItem(p)) // 2
	require.NoError(t, c.AddItem(p)) // 3

	err := c.AddItem(p)
	assert.ErrorIs(t, err, ErrMaxOrderReached)
	assert.Equal(t, 3, c.Items()[0].Quantity, "no mutation past max order")

	// Still a no-op on repeat
	assert.ErrorIs(t, c.AddItem(p), ErrMaxOrderReached)
	assert.Equal(t, 3, c.TotalItems())
}

func TestDecreaseItemRemovesBelowMinOrder(t *testing.T) {
	c := New()
	p := product(1, 1000, 2, 0)

	require.NoError(t, c.AddItem(p)) // quantity 2
	require.NoError(t, c.AddItem(p)) // 3

	c.DecreaseItem(1)
	assert.Equal(t, 2, c.Items()[0].Quantity)

	// At min order: decreasing removes the line entirely
	c.DecreaseItem(1)
	assert.Empty(t, c.Items())
}

func TestDecreaseItemUnknownProductIsNoop(t *testing.T) {
	c := New()
	require.NoError(t, c.AddItem(product(1, 1000, 0, 0)))

	c.DecreaseItem(99)
	assert.Len(t, c.Items(), 1)
}

func TestRemoveItemAndClear(t *testing.T) {
	c := New()
	require.NoError(t, c.AddItem(product(1, 1000, 5, 0)))
	require.NoError(t, c.AddItem(product(2, 2000, 0, 0)))

	c.RemoveItem(1)
	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, int64(2), items[0].Product.ID)

	c.Clear()
	assert.Empty(t, c.Items())
	assert.Equal(t, 0, c.TotalItems())
	assert.Equal(t, 0.0, c.TotalPrice())
}

func TestTotalsRecomputedFromItems(t *testing.T) {
	c := New()
	require.NoError(t, c.AddItem(product(1, 1500, 2, 0))) // 2 x 1500
	require.NoError(t, c.AddItem(product(2, 700, 0, 0)))  // 1 x 700
	require.NoError(t, c.AddItem(product(2, 700, 0, 0)))  // 2 x 700

	assert.Equal(t, 4, c.TotalItems())
	assert.Equal(t, 2*1500.0+2*700.0, c.TotalPrice())
}

func TestRegistryOneCartPerUser(t *testing.T) {
	r := NewRegistry()

	a := r.Get(1)
	b := r.Get(2)
	assert.NotSame(t, a, b)

	require.NoError(t, a.AddItem(product(1, 1000, 0, 0)))
	assert.Empty(t, b.Items())
	assert.Same(t, a, r.Get(1), "same cart handed back on repeat access")
}
