package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"agroshop_back_end/internal/cart"
	"agroshop_back_end/internal/catalog"
	"agroshop_back_end/internal/config"
	"agroshop_back_end/internal/database"
	"agroshop_back_end/internal/handlers/product"
	"agroshop_back_end/internal/handlers/user"
	"agroshop_back_end/internal/routes"
)

func main() {
	config.Load()

	database.ConnectDatabases()
	defer database.CloseScylla()

	// État applicatif : catalogue mémoire + paniers Redis, construits ici
	// et passés aux handlers — pas d'état ambiant au-delà des connexions.
	catalogStore := catalog.NewStore()
	if err := catalog.Sync(context.Background(), catalogStore); err != nil {
		log.Println("⚠️ Catalogue non préchargé au démarrage:", err)
	}

	cartStore := cart.NewStore(database.RedisClient)

	users := user.NewHandler(cartStore, catalogStore)
	products := product.NewHandler(catalogStore)

	r := gin.Default()
	r.Use(corsConfig())
	routes.RegisterRoutes(r, users, products)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Println("🚀 Serveur AgroShop lancé sur le port", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("❌ Erreur serveur:", err)
	}
}

func corsConfig() gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowAllOrigins = true
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	return cors.New(cfg)
}
