package cart

import (
	"testing"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"

	"agroshop_back_end/internal/models"
)

func mustUUID(t *testing.T, s string) gocql.UUID {
	t.Helper()
	id, err := gocql.ParseUUID(s)
	assert.NoError(t, err)
	return id
}

func testProducts(t *testing.T) (models.Product, models.Product) {
	wheatSeed := models.Product{
		ID:       mustUUID(t, "11111111-1111-1111-1111-111111111111"),
		Name:     "Wheat Seed",
		Category: "Seeds",
		Price:    100,
		Stock:    50,
	}
	hoe := models.Product{
		ID:       mustUUID(t, "22222222-2222-2222-2222-222222222222"),
		Name:     "Hoe",
		Category: "Tools",
		Price:    50,
		Stock:    10,
	}
	return wheatSeed, hoe
}

func TestAdd(t *testing.T) {
	wheatSeed, hoe := testProducts(t)

	t.Run("merges duplicate product into one line", func(t *testing.T) {
		c := New()
		c.Add(wheatSeed, 1)
		c.Add(wheatSeed, 1)

		items := c.Items()
		assert.Len(t, items, 1)
		assert.Equal(t, 2, items[0].Quantity)
		assert.Equal(t, float64(200), c.Total())
	})

	t.Run("distinct products get distinct lines", func(t *testing.T) {
		c := New()
		c.Add(wheatSeed, 1)
		c.Add(hoe, 1)

		assert.Len(t, c.Items(), 2)
		assert.Equal(t, 2, c.ItemCount())
		assert.Equal(t, float64(150), c.Total())
	})

	t.Run("non-positive quantity counts as one", func(t *testing.T) {
		c := New()
		c.Add(wheatSeed, 0)
		c.Add(hoe, -3)

		assert.Equal(t, 2, c.ItemCount())
	})

	t.Run("captures price snapshot at add time", func(t *testing.T) {
		c := New()
		c.Add(wheatSeed, 1)

		// Une hausse de prix côté serveur ne touche pas la ligne existante
		raised := wheatSeed
		raised.Price = 999

		assert.Equal(t, float64(100), c.Total())
		assert.Equal(t, float64(100), c.Items()[0].Price)
	})
}

func TestSetQuantity(t *testing.T) {
	wheatSeed, _ := testProducts(t)
	id := wheatSeed.ID.String()

	t.Run("overwrites, does not increment", func(t *testing.T) {
		c := New()
		c.Add(wheatSeed, 2)
		assert.True(t, c.SetQuantity(id, 5))

		assert.Equal(t, 5, c.ItemCount())
		assert.Equal(t, float64(500), c.Total())
	})

	t.Run("zero is equivalent to remove", func(t *testing.T) {
		byQuantity := New()
		byQuantity.Add(wheatSeed, 2)
		byQuantity.SetQuantity(id, 0)

		byRemove := New()
		byRemove.Add(wheatSeed, 2)
		byRemove.Remove(id)

		assert.Equal(t, byRemove.Items(), byQuantity.Items())
		assert.True(t, byQuantity.IsEmpty())
	})

	t.Run("unknown product returns false", func(t *testing.T) {
		c := New()
		assert.False(t, c.SetQuantity("deadbeef-0000-0000-0000-000000000000", 3))
	})
}

func TestRemove(t *testing.T) {
	wheatSeed, hoe := testProducts(t)

	t.Run("removes only the targeted line", func(t *testing.T) {
		c := New()
		c.Add(wheatSeed, 1)
		c.Add(hoe, 1)

		assert.True(t, c.Remove(wheatSeed.ID.String()))
		items := c.Items()
		assert.Len(t, items, 1)
		assert.Equal(t, "Hoe", items[0].Name)
	})

	t.Run("missing line is a no-op", func(t *testing.T) {
		c := New()
		c.Add(wheatSeed, 1)

		assert.False(t, c.Remove(hoe.ID.String()))
		assert.Len(t, c.Items(), 1)
	})
}

func TestTotal(t *testing.T) {
	wheatSeed, hoe := testProducts(t)

	t.Run("recomputation is idempotent", func(t *testing.T) {
		c := New()
		c.Add(wheatSeed, 3)
		c.Add(hoe, 2)

		first := c.Total()
		assert.Equal(t, first, c.Total())
		assert.Equal(t, float64(400), first)
	})

	t.Run("holds under any operation sequence", func(t *testing.T) {
		c := New()
		c.Add(wheatSeed, 1)
		c.Add(wheatSeed, 1)
		c.Add(hoe, 4)
		c.SetQuantity(hoe.ID.String(), 1)
		c.Remove(wheatSeed.ID.String())
		c.Add(wheatSeed, 2)

		// wheatSeed ×2 + hoe ×1
		assert.Equal(t, float64(250), c.Total())
		assert.Equal(t, 3, c.ItemCount())
	})

	t.Run("empty cart totals zero", func(t *testing.T) {
		c := New()
		assert.Zero(t, c.Total())
		assert.Zero(t, c.ItemCount())
		assert.True(t, c.IsEmpty())
	})
}

func TestToOrderRequest(t *testing.T) {
	wheatSeed, hoe := testProducts(t)

	c := New()
	c.Add(wheatSeed, 2)
	c.Add(hoe, 1)

	req := c.ToOrderRequest()

	assert.Equal(t, float64(250), req.TotalAmount)
	assert.Len(t, req.Items, 2)
	assert.Equal(t, models.OrderRequestItem{
		ProductID: wheatSeed.ID.String(),
		Quantity:  2,
		Price:     100,
	}, req.Items[0])

	// Le total soumis et le total affiché viennent des mêmes instantanés
	assert.Equal(t, c.Total(), req.TotalAmount)
}

func TestFromItems(t *testing.T) {
	wheatSeed, _ := testProducts(t)
	id := wheatSeed.ID.String()

	t.Run("drops zero-quantity lines", func(t *testing.T) {
		c := FromItems([]models.CartItem{
			{ProductID: id, Name: "Wheat Seed", Price: 100, Quantity: 0},
		})
		assert.True(t, c.IsEmpty())
	})

	t.Run("merges duplicated lines", func(t *testing.T) {
		c := FromItems([]models.CartItem{
			{ProductID: id, Name: "Wheat Seed", Price: 100, Quantity: 1},
			{ProductID: id, Name: "Wheat Seed", Price: 100, Quantity: 2},
		})
		assert.Len(t, c.Items(), 1)
		assert.Equal(t, 3, c.ItemCount())
	})
}
