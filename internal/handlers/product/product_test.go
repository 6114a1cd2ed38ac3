package product

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"

	"agroshop_back_end/internal/catalog"
	"agroshop_back_end/internal/models"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()

	id := func(s string) gocql.UUID {
		u, err := gocql.ParseUUID(s)
		assert.NoError(t, err)
		return u
	}

	store := catalog.NewStore()
	store.Load([]models.Product{
		{ID: id("11111111-1111-1111-1111-111111111111"), Name: "Wheat Seed", Category: "Seeds", Description: "High-yield wheat seeds", Price: 100, Stock: 50},
		{ID: id("22222222-2222-2222-2222-222222222222"), Name: "Hoe", Category: "Tools", Description: "Hand tool for tilling soil", Price: 50, Stock: 10},
		{ID: id("33333333-3333-3333-3333-333333333333"), Name: "Sold Out Sprayer", Category: "Equipment", Description: "Battery sprayer", Price: 300, Stock: 0},
	})
	return NewHandler(store)
}

func listRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/products", h.ListProducts)
	r.GET("/api/products/search", h.SearchProducts)
	r.GET("/api/categories", h.ListCategories)
	return r
}

func getProducts(t *testing.T, r *gin.Engine, url string) []models.Product {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var products []models.Product
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &products))
	return products
}

func TestListProducts(t *testing.T) {
	h := newTestHandler(t)
	r := listRouter(h)

	t.Run("default returns all in-stock products", func(t *testing.T) {
		products := getProducts(t, r, "/api/products")
		assert.Len(t, products, 2)
		// Le produit à stock nul n'est jamais listé
		for _, p := range products {
			assert.Positive(t, p.Stock, p.Name)
		}
	})

	t.Run("category filter", func(t *testing.T) {
		products := getProducts(t, r, "/api/products?category=Seeds")
		assert.Len(t, products, 1)
		assert.Equal(t, "Wheat Seed", products[0].Name)
	})

	t.Run("text filter on name or description", func(t *testing.T) {
		products := getProducts(t, r, "/api/products?q=soil")
		assert.Len(t, products, 1)
		assert.Equal(t, "Hoe", products[0].Name)
	})

	t.Run("filters compose", func(t *testing.T) {
		assert.Empty(t, getProducts(t, r, "/api/products?category=Tools&q=wheat"))
		assert.Len(t, getProducts(t, r, "/api/products?category=Seeds&q=wheat"), 1)
	})

	t.Run("no match is an empty list, not an error", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/products?q=tractor", nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
	})
}

func TestSearchProducts(t *testing.T) {
	h := newTestHandler(t)
	r := listRouter(h)

	t.Run("missing query is a 400", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/products/search", nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("falls back to in-memory filter without Elasticsearch", func(t *testing.T) {
		products := getProducts(t, r, "/api/products/search?q=wheat")
		assert.Len(t, products, 1)
		assert.Equal(t, "Wheat Seed", products[0].Name)
	})

	t.Run("out-of-stock products are hidden from search too", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/products/search?q=sprayer", nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
	})
}

func TestListCategories(t *testing.T) {
	h := newTestHandler(t)
	r := listRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var categories []string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &categories))
	assert.Equal(t, append([]string{catalog.CategoryAll}, catalog.Categories...), categories)
}
