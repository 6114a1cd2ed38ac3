package catalog

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"agroshop_back_end/internal/database"
	"agroshop_back_end/internal/models"
)

const (
	cacheKey = "products:all"
	cacheTTL = time.Hour
)

// Sync recharge le Store depuis le cache Redis, ou depuis ScyllaDB si le
// cache est froid (la liste est alors remise en cache).
func Sync(ctx context.Context, s *Store) error {
	if val, err := database.RedisClient.Get(ctx, cacheKey).Result(); err == nil && val != "" {
		var cached []models.Product
		if err := json.Unmarshal([]byte(val), &cached); err == nil {
			s.Load(cached)
			return nil
		}
		// Cache corrompu : on le jette et on repart de la base
		database.RedisClient.Del(ctx, cacheKey)
	}

	session, err := database.GetProductsSession()
	if err != nil {
		return err
	}

	iter := session.Query(
		`SELECT product_id, name, category, description, price, stock, image_url, created_at, updated_at FROM products`,
	).Iter()

	var products []models.Product
	var p models.Product
	for iter.Scan(&p.ID, &p.Name, &p.Category, &p.Description, &p.Price, &p.Stock, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt) {
		products = append(products, p)
		p = models.Product{}
	}
	if err := iter.Close(); err != nil {
		return err
	}

	if data, err := json.Marshal(products); err == nil {
		database.RedisClient.Set(ctx, cacheKey, data, cacheTTL)
	}

	s.Load(products)
	log.Printf("✅ Catalogue rechargé: %d produits", len(products))
	return nil
}

// Resync invalide le cache puis recharge — à appeler après toute mutation
// produit ou décrément de stock.
func Resync(ctx context.Context, s *Store) error {
	database.RedisClient.Del(ctx, cacheKey)
	return Sync(ctx, s)
}
