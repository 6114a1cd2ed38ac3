package cache

import (
	"context"
	"encoding/json"
	"time"

	"agroshop_back_end/internal/database"
	"agroshop_back_end/internal/models"
)

const (
	profilePrefix = "profile:"
	ProfileTTL    = 15 * time.Minute
)

// GetUserProfile récupère un profil utilisateur en cache.
// Cela évite de requêter ScyllaDB à chaque appel de /me.
func GetUserProfile(ctx context.Context, userID string) (*models.User, bool) {
	raw, err := database.Redis.Get(ctx, profilePrefix+userID).Bytes()
	if err != nil {
		return nil, false
	}

	var user models.User
	if err := json.Unmarshal(raw, &user); err != nil {
		// Entrée corrompue, on la purge
		database.Redis.Del(ctx, profilePrefix+userID)
		return nil, false
	}
	return &user, true
}

// SetUserProfile met en cache un profil utilisateur pendant 15 minutes
func SetUserProfile(ctx context.Context, user *models.User) {
	raw, err := json.Marshal(user)
	if err != nil {
		return
	}
	database.Redis.Set(ctx, profilePrefix+user.ID, raw, ProfileTTL)
}

// InvalidateUserProfile supprime le profil en cache (logout)
func InvalidateUserProfile(ctx context.Context, userID string) {
	database.Redis.Del(ctx, profilePrefix+userID)
}
