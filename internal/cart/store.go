package cart

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"agroshop_back_end/internal/models"
)

const (
	keyPrefix = "cart:"
	cartTTL   = 30 * 24 * time.Hour
)

// Store persiste un panier par utilisateur dans Redis, en JSON.
type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// Get charge le panier de l'utilisateur. Clé absente ou JSON corrompu →
// panier vide, jamais une erreur : un panier illisible ne doit pas
// bloquer la session.
func (s *Store) Get(ctx context.Context, userID string) *Cart {
	data, err := s.rdb.Get(ctx, keyPrefix+userID).Result()
	if err != nil || data == "" {
		return New()
	}

	var items []models.CartItem
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		log.Printf("⚠️ Panier illisible pour user %s, réinitialisé: %v", userID, err)
		return New()
	}
	return FromItems(items)
}

// Save écrit le panier avec un TTL de 30 jours. Un panier vide supprime la clé.
func (s *Store) Save(ctx context.Context, userID string, c *Cart) error {
	if c.IsEmpty() {
		return s.Clear(ctx, userID)
	}
	data, err := json.Marshal(c.Items())
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, keyPrefix+userID, data, cartTTL).Err()
}

// Clear supprime le panier persisté (logout, commande passée).
func (s *Store) Clear(ctx context.Context, userID string) error {
	return s.rdb.Del(ctx, keyPrefix+userID).Err()
}
