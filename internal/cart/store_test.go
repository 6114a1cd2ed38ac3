package cart

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"agroshop_back_end/internal/models"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	return NewStore(redis.NewClient(&redis.Options{Addr: mr.Addr()})), mr
}

func TestStoreGet(t *testing.T) {
	ctx := context.Background()

	t.Run("missing key yields an empty cart", func(t *testing.T) {
		s, _ := newTestStore(t)
		c := s.Get(ctx, "user-1")
		assert.True(t, c.IsEmpty())
	})

	t.Run("corrupt JSON yields an empty cart, never an error", func(t *testing.T) {
		s, mr := newTestStore(t)
		assert.NoError(t, mr.Set("cart:user-1", "{not json"))

		c := s.Get(ctx, "user-1")
		assert.True(t, c.IsEmpty())
		assert.Zero(t, c.Total())
	})

	t.Run("persisted zero-quantity lines are dropped on load", func(t *testing.T) {
		s, mr := newTestStore(t)
		assert.NoError(t, mr.Set("cart:user-1",
			`[{"product_id":"p1","name":"Hoe","price":50,"quantity":0}]`))

		assert.True(t, s.Get(ctx, "user-1").IsEmpty())
	})
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestStore(t)

	c := FromItems([]models.CartItem{
		{ProductID: "p1", Name: "Wheat Seed", Price: 100, Quantity: 2},
		{ProductID: "p2", Name: "Hoe", Price: 50, Quantity: 1},
	})
	assert.NoError(t, s.Save(ctx, "user-1", c))

	got := s.Get(ctx, "user-1")
	assert.Equal(t, c.Items(), got.Items())
	assert.Equal(t, float64(250), got.Total())
	assert.Equal(t, 3, got.ItemCount())

	// Persisté avec le TTL de 30 jours
	assert.Equal(t, cartTTL, mr.TTL("cart:user-1"))
}

func TestStoreSaveEmptyDeletesKey(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestStore(t)

	c := New()
	c.Add(models.Product{Name: "Hoe", Price: 50}, 1)
	assert.NoError(t, s.Save(ctx, "user-1", c))
	assert.True(t, mr.Exists("cart:user-1"))

	assert.NoError(t, s.Save(ctx, "user-1", New()))
	assert.False(t, mr.Exists("cart:user-1"))
}

func TestStoreClearIsPerUser(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestStore(t)

	c := New()
	c.Add(models.Product{Name: "Hoe", Price: 50}, 1)
	assert.NoError(t, s.Save(ctx, "user-1", c))
	assert.NoError(t, s.Save(ctx, "user-2", c))

	assert.NoError(t, s.Clear(ctx, "user-1"))

	// Le panier de l'autre identité ne bouge pas
	assert.False(t, mr.Exists("cart:user-1"))
	assert.True(t, mr.Exists("cart:user-2"))
	assert.True(t, s.Get(ctx, "user-1").IsEmpty())
	assert.Equal(t, 1, s.Get(ctx, "user-2").ItemCount())
}
