package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"agroshop_back_end/internal/database"
	"agroshop_back_end/internal/models"
)

func cartResponse(c *gin.Context, h *Handler, userID string) {
	ck := h.Carts.Get(c.Request.Context(), userID)
	c.JSON(http.StatusOK, gin.H{
		"items":      ck.Items(),
		"total":      ck.Total(),
		"item_count": ck.ItemCount(),
	})
}

// GetCart renvoie le panier courant avec total et nombre d'articles.
func (h *Handler) GetCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authenticated"})
		return
	}
	cartResponse(c, h, userID)
}

// AddToCart fusionne un produit dans le panier : même produit ajouté deux
// fois → une seule ligne avec la quantité cumulée. Quantité absente → 1.
// Le stock n'est volontairement pas borné ici ; il est vérifié à la commande.
func (h *Handler) AddToCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authenticated"})
		return
	}

	var input struct {
		ProductID string `json:"product_id" binding:"required"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "product_id is required"})
		return
	}

	product, ok := h.lookupProduct(input.ProductID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		return
	}

	ctx := c.Request.Context()
	ck := h.Carts.Get(ctx, userID)
	ck.Add(product, input.Quantity)

	if err := h.Carts.Save(ctx, userID, ck); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not save cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Product added to cart",
		"items":      ck.Items(),
		"total":      ck.Total(),
		"item_count": ck.ItemCount(),
	})
}

// UpdateCartItem remplace la quantité d'une ligne. Quantité 0 → ligne
// supprimée, strictement équivalent à un DELETE.
func (h *Handler) UpdateCartItem(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authenticated"})
		return
	}

	productID := c.Param("productId")

	var input struct {
		Quantity *int `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || *input.Quantity < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "quantity must be a non-negative integer"})
		return
	}

	ctx := c.Request.Context()
	ck := h.Carts.Get(ctx, userID)

	if !ck.SetQuantity(productID, *input.Quantity) && *input.Quantity > 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Product not in cart"})
		return
	}

	if err := h.Carts.Save(ctx, userID, ck); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not save cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":      ck.Items(),
		"total":      ck.Total(),
		"item_count": ck.ItemCount(),
	})
}

// RemoveFromCart supprime une ligne ; no-op si elle n'existe pas.
func (h *Handler) RemoveFromCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authenticated"})
		return
	}

	productID := c.Param("productId")

	ctx := c.Request.Context()
	ck := h.Carts.Get(ctx, userID)
	ck.Remove(productID)

	if err := h.Carts.Save(ctx, userID, ck); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not save cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Product removed from cart",
		"items":      ck.Items(),
		"total":      ck.Total(),
		"item_count": ck.ItemCount(),
	})
}

// ClearCart vide complètement le panier.
func (h *Handler) ClearCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authenticated"})
		return
	}

	if err := h.Carts.Clear(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not clear cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}

// lookupProduct passe d'abord par le catalogue mémoire, puis retombe
// sur ScyllaDB si le catalogue n'est pas encore chaud.
func (h *Handler) lookupProduct(productID string) (models.Product, bool) {
	if p, ok := h.Catalog.Get(productID); ok {
		return p, true
	}

	session, err := database.GetProductsSession()
	if err != nil {
		return models.Product{}, false
	}

	uid, err := gocql.ParseUUID(productID)
	if err != nil {
		return models.Product{}, false
	}

	var p models.Product
	if err := session.Query(
		`SELECT product_id, name, category, description, price, stock, image_url FROM products WHERE product_id = ?`,
		uid,
	).Scan(&p.ID, &p.Name, &p.Category, &p.Description, &p.Price, &p.Stock, &p.ImageURL); err != nil {
		return models.Product{}, false
	}
	return p, true
}
