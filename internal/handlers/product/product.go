package product

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"agroshop_back_end/internal/catalog"
	"agroshop_back_end/internal/database"
	"agroshop_back_end/internal/models"
	"agroshop_back_end/internal/services"
)

// Handler expose le catalogue : lecture publique filtrée, mutations admin.
type Handler struct {
	Catalog *catalog.Store
}

func NewHandler(cat *catalog.Store) *Handler {
	return &Handler{Catalog: cat}
}

// ListProducts sert la vue filtrée du catalogue mémoire : ?category=
// (sentinelle "All" = tout) et ?q= (sous-chaîne insensible à la casse sur
// nom ou description), en conjonction. Seuls les produits en stock sortent.
func (h *Handler) ListProducts(c *gin.Context) {
	category := c.DefaultQuery("category", catalog.CategoryAll)
	query := c.Query("q")

	c.JSON(http.StatusOK, inStock(h.Catalog.Filter(category, query)))
}

// inStock ne garde que les produits en stock : la boutique ne montre
// jamais un produit invendable, quelle que soit la voie de lecture.
func inStock(products []models.Product) []models.Product {
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if p.Stock > 0 {
			out = append(out, p)
		}
	}
	return out
}

// ListCategories renvoie l'ensemble fermé des catégories, sentinelle incluse.
func (h *Handler) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, append([]string{catalog.CategoryAll}, catalog.Categories...))
}

// SearchProducts interroge Elasticsearch, et retombe sur le filtre
// mémoire du catalogue quand l'index est indisponible ou vide.
func (h *Handler) SearchProducts(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Query parameter 'q' is required"})
		return
	}

	if results, err := services.SearchProducts(query); err == nil {
		if available := inStock(results); len(available) > 0 {
			c.JSON(http.StatusOK, available)
			return
		}
	}

	// Fallback mémoire
	c.JSON(http.StatusOK, inStock(h.Catalog.Filter(catalog.CategoryAll, query)))
}

// CreateProduct — admin. Catégorie validée contre l'ensemble fermé.
func (h *Handler) CreateProduct(c *gin.Context) {
	var input struct {
		Name        string  `json:"name" binding:"required"`
		Category    string  `json:"category" binding:"required"`
		Description string  `json:"description"`
		Price       float64 `json:"price"`
		Stock       int     `json:"stock"`
		ImageURL    string  `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Name and category are required"})
		return
	}

	if !catalog.ValidCategory(input.Category) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Unknown category: " + input.Category})
		return
	}
	if input.Price < 0 || input.Stock < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Price and stock must be non-negative"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database connection failed"})
		return
	}

	now := time.Now()
	p := models.Product{
		ID:          gocql.TimeUUID(),
		Name:        input.Name,
		Category:    input.Category,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		ImageURL:    input.ImageURL,
		CreatedAt:   &now,
		UpdatedAt:   &now,
	}

	if err := session.Query(
		`INSERT INTO products (product_id, name, category, description, price, stock, image_url, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Category, p.Description, p.Price, p.Stock, p.ImageURL, p.CreatedAt, p.UpdatedAt,
	).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to add product"})
		return
	}

	// Indexation Elasticsearch, hors du chemin de la réponse
	go services.IndexProduct(p)

	h.resync(c)
	c.JSON(http.StatusCreated, gin.H{"message": "Product added successfully", "id": p.ID.String()})
}

// UpdateProduct — admin. Remplace tous les champs éditables (contrat PUT).
func (h *Handler) UpdateProduct(c *gin.Context) {
	productID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid product id"})
		return
	}

	var input struct {
		Name        string  `json:"name" binding:"required"`
		Category    string  `json:"category" binding:"required"`
		Description string  `json:"description"`
		Price       float64 `json:"price"`
		Stock       int     `json:"stock"`
		ImageURL    string  `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Name and category are required"})
		return
	}

	if !catalog.ValidCategory(input.Category) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Unknown category: " + input.Category})
		return
	}
	if input.Price < 0 || input.Stock < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Price and stock must be non-negative"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database connection failed"})
		return
	}

	// Le produit doit exister : Scylla ne distingue pas UPDATE et UPSERT
	var existing gocql.UUID
	var createdAt *time.Time
	if err := session.Query(
		`SELECT product_id, created_at FROM products WHERE product_id = ?`, productID,
	).Scan(&existing, &createdAt); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		return
	}

	now := time.Now()
	if err := session.Query(
		`UPDATE products SET name = ?, category = ?, description = ?, price = ?, stock = ?, image_url = ?, updated_at = ?
		 WHERE product_id = ?`,
		input.Name, input.Category, input.Description, input.Price, input.Stock, input.ImageURL, now, productID,
	).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update product"})
		return
	}

	go services.IndexProduct(models.Product{
		ID:          productID,
		Name:        input.Name,
		Category:    input.Category,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		ImageURL:    input.ImageURL,
		CreatedAt:   createdAt,
		UpdatedAt:   &now,
	})

	h.resync(c)
	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully"})
}

// DeleteProduct — admin.
func (h *Handler) DeleteProduct(c *gin.Context) {
	productID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid product id"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database connection failed"})
		return
	}

	if err := session.Query(`DELETE FROM products WHERE product_id = ?`, productID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete product"})
		return
	}

	go services.DeleteProductIndex(productID.String())

	h.resync(c)
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// UploadProductImage — admin. Dépose l'image dans MinIO puis enregistre
// son URL sur le produit.
func (h *Handler) UploadProductImage(c *gin.Context) {
	productID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid product id"})
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Image file is required"})
		return
	}

	url, err := services.UploadProductImage(c.Request.Context(), productID.String(), file)
	if err != nil {
		log.Printf("❌ Erreur upload image produit %s: %v", productID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to upload image"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database connection failed"})
		return
	}

	if err := session.Query(
		`UPDATE products SET image_url = ?, updated_at = ? WHERE product_id = ?`,
		url, time.Now(), productID,
	).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update product"})
		return
	}

	h.resync(c)
	c.JSON(http.StatusOK, gin.H{"message": "Image uploaded", "image_url": url})
}

func (h *Handler) resync(c *gin.Context) {
	if err := catalog.Resync(c.Request.Context(), h.Catalog); err != nil {
		log.Printf("⚠️ Erreur resync catalogue: %v", err)
	}
}
