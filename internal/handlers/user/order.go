package user

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"agroshop_back_end/internal/cart"
	"agroshop_back_end/internal/catalog"
	"agroshop_back_end/internal/database"
	"agroshop_back_end/internal/models"
	"agroshop_back_end/internal/services"
	"agroshop_back_end/internal/utils"
)

// CreateOrder enregistre une commande à partir du payload client
// {total_amount, items[]} — le contrat historique du front.
func (h *Handler) CreateOrder(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authenticated"})
		return
	}

	var req models.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid order payload"})
		return
	}

	h.placeOrder(c, userID, req)
}

// Checkout construit la commande côté serveur depuis le panier persisté,
// en relisant les prix courants des produits avant de facturer.
func (h *Handler) Checkout(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authenticated"})
		return
	}

	ctx := c.Request.Context()
	ck := h.Carts.Get(ctx, userID)
	if ck.IsEmpty() {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Cart is empty"})
		return
	}

	// Rafraîchit chaque ligne avec le prix courant : le total facturé
	// reflète la base, pas l'instantané du panier. Un produit disparu
	// du catalogue abandonne sa ligne.
	refreshed := cart.New()
	for _, item := range ck.Items() {
		if p, ok := h.lookupProduct(item.ProductID); ok {
			refreshed.Add(p, item.Quantity)
		}
	}

	if refreshed.IsEmpty() {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Cart is empty"})
		return
	}

	h.placeOrder(c, userID, refreshed.ToOrderRequest())
}

// placeOrder vérifie le stock, persiste la commande et ses lignes,
// décrémente le stock, vide le panier et notifie par e-mail.
func (h *Handler) placeOrder(c *gin.Context, userID string, req models.OrderRequest) {
	if len(req.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Order has no items"})
		return
	}

	productsSession, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database connection failed"})
		return
	}

	// 1. Vérifier le stock de chaque produit avant d'écrire quoi que ce soit
	type checkedItem struct {
		id       gocql.UUID
		name     string
		quantity int
		price    float64
		newStock int
	}
	checked := make([]checkedItem, 0, len(req.Items))

	for _, item := range req.Items {
		if item.Quantity <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid quantity for product " + item.ProductID})
			return
		}

		pid, err := gocql.ParseUUID(item.ProductID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid product id: " + item.ProductID})
			return
		}

		var stock int
		var name string
		if err := productsSession.Query(
			`SELECT stock, name FROM products WHERE product_id = ?`, pid,
		).Scan(&stock, &name); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found: " + item.ProductID})
			return
		}

		if stock < item.Quantity {
			c.JSON(http.StatusBadRequest, gin.H{
				"message":   fmt.Sprintf("Insufficient stock for %s", name),
				"product":   name,
				"available": stock,
				"requested": item.Quantity,
			})
			return
		}

		checked = append(checked, checkedItem{
			id:       pid,
			name:     name,
			quantity: item.Quantity,
			price:    item.Price,
			newStock: stock - item.Quantity,
		})
	}

	ordersSession, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database connection failed"})
		return
	}

	// 2. Persister la commande et ses lignes
	orderID := gocql.TimeUUID()
	now := time.Now()

	if err := ordersSession.Query(
		`INSERT INTO orders (order_id, user_id, total_amount, status, created_at) VALUES (?, ?, ?, ?, ?)`,
		orderID, userID, req.TotalAmount, models.OrderStatusPending, now,
	).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create order"})
		return
	}

	if err := ordersSession.Query(
		`INSERT INTO orders_by_user (user_id, created_at, order_id) VALUES (?, ?, ?)`,
		userID, now, orderID,
	).Exec(); err != nil {
		log.Printf("⚠️ Erreur indexation orders_by_user: %v", err)
	}

	orderItems := make([]models.OrderItem, 0, len(checked))
	for _, item := range checked {
		if err := ordersSession.Query(
			`INSERT INTO order_items (order_id, product_id, name, quantity, price) VALUES (?, ?, ?, ?, ?)`,
			orderID, item.id, item.name, item.quantity, item.price,
		).Exec(); err != nil {
			log.Printf("⚠️ Erreur insertion ligne commande %s/%s: %v", orderID, item.id, err)
		}

		// 3. Décrémenter le stock
		if err := productsSession.Query(
			`UPDATE products SET stock = ? WHERE product_id = ?`,
			item.newStock, item.id,
		).Exec(); err != nil {
			log.Printf("⚠️ Erreur décrément stock produit %s: %v", item.id, err)
		}

		orderItems = append(orderItems, models.OrderItem{
			ProductID: item.id.String(),
			Name:      item.name,
			Quantity:  item.quantity,
			Price:     item.price,
		})
	}

	// 4. Le panier est consommé, le catalogue a changé (stocks)
	ctx := c.Request.Context()
	if err := h.Carts.Clear(ctx, userID); err != nil {
		log.Printf("⚠️ Erreur vidage panier après commande pour %s: %v", userID, err)
	}
	if err := catalog.Resync(ctx, h.Catalog); err != nil {
		log.Printf("⚠️ Erreur resync catalogue après commande: %v", err)
	}

	order := models.Order{
		ID:          orderID,
		UserID:      userID,
		TotalAmount: req.TotalAmount,
		Status:      models.OrderStatusPending,
		Items:       orderItems,
		CreatedAt:   now,
	}

	// 5. Facture et confirmation e-mail, sans bloquer la réponse
	if email := c.GetString("email"); email != "" {
		go func(to string, o models.Order) {
			bg := context.Background()
			var pdf []byte
			if qr, err := utils.GenerateUPIQR(o.ID.String(), o.TotalAmount); err == nil {
				if buf, err := utils.RenderInvoicePDF(bg, utils.InvoiceHTML(o, to, qr)); err == nil {
					pdf = buf
					if err := services.ArchiveInvoice(bg, o.ID.String(), pdf); err != nil {
						log.Printf("⚠️ Facture %s non archivée dans MinIO: %v", o.ID, err)
					}
				}
			}
			if err := utils.SendOrderConfirmation(to, o, pdf); err != nil {
				log.Printf("⚠️ E-mail de confirmation non envoyé pour %s: %v", o.ID, err)
			}
		}(email, order)
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Order placed successfully",
		"order_id": orderID.String(),
	})
}

// GetOrders liste les commandes, les plus récentes d'abord.
// Un admin voit toutes les commandes, un client seulement les siennes.
func (h *Handler) GetOrders(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authenticated"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database connection failed"})
		return
	}

	var orders []models.Order

	if c.GetString("role") == models.RoleAdmin {
		iter := session.Query(
			`SELECT order_id, user_id, total_amount, status, created_at FROM orders`,
		).Iter()

		var o models.Order
		for iter.Scan(&o.ID, &o.UserID, &o.TotalAmount, &o.Status, &o.CreatedAt) {
			orders = append(orders, o)
			o = models.Order{}
		}
		if err := iter.Close(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load orders"})
			return
		}

		// Le scan complet ne sort pas trié
		sort.Slice(orders, func(i, j int) bool {
			return orders[i].CreatedAt.After(orders[j].CreatedAt)
		})
	} else {
		// La table orders_by_user est clusterisée created_at DESC
		iter := session.Query(
			`SELECT order_id, created_at FROM orders_by_user WHERE user_id = ?`, userID,
		).Iter()

		var orderID gocql.UUID
		var createdAt time.Time
		var ids []gocql.UUID
		for iter.Scan(&orderID, &createdAt) {
			ids = append(ids, orderID)
		}
		if err := iter.Close(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load orders"})
			return
		}

		for _, id := range ids {
			var o models.Order
			if err := session.Query(
				`SELECT order_id, user_id, total_amount, status, created_at FROM orders WHERE order_id = ?`, id,
			).Scan(&o.ID, &o.UserID, &o.TotalAmount, &o.Status, &o.CreatedAt); err == nil {
				orders = append(orders, o)
			}
		}
	}

	if orders == nil {
		orders = []models.Order{}
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// GetOrderByID renvoie une commande avec ses lignes. Un client ne peut
// lire que ses propres commandes, un admin n'a pas cette restriction.
func (h *Handler) GetOrderByID(c *gin.Context) {
	order, ok := h.loadOwnedOrder(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, order)
}

// DownloadInvoice sert la facture PDF de la commande, QR UPI inclus.
// L'archive MinIO est consultée d'abord, le rendu n'a lieu qu'en cas d'absence.
func (h *Handler) DownloadInvoice(c *gin.Context) {
	order, ok := h.loadOwnedOrder(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	pdf, err := services.FetchInvoice(ctx, order.ID.String())
	if err != nil {
		pdf, err = h.renderInvoice(ctx, order, c.GetString("email"))
		if err != nil {
			log.Printf("❌ Erreur rendu facture PDF pour %s: %v", order.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate invoice"})
			return
		}
	}

	c.Header("Content-Disposition", `attachment; filename="invoice_`+order.ID.String()+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// GetInvoiceLink renvoie un lien de téléchargement signé vers la facture
// archivée, valable 15 minutes. La facture est générée si nécessaire.
func (h *Handler) GetInvoiceLink(c *gin.Context) {
	order, ok := h.loadOwnedOrder(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	if _, err := services.FetchInvoice(ctx, order.ID.String()); err != nil {
		if _, err := h.renderInvoice(ctx, order, c.GetString("email")); err != nil {
			log.Printf("❌ Erreur rendu facture PDF pour %s: %v", order.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate invoice"})
			return
		}
	}

	link, err := services.PresignedInvoiceURL(ctx, order.ID.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate invoice link"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":        link,
		"expires_in": int(services.InvoiceURLExpiry.Seconds()),
	})
}

// renderInvoice génère le PDF de facture et l'archive dans MinIO.
func (h *Handler) renderInvoice(ctx context.Context, order models.Order, email string) ([]byte, error) {
	qr, err := utils.GenerateUPIQR(order.ID.String(), order.TotalAmount)
	if err != nil {
		return nil, err
	}

	pdf, err := utils.RenderInvoicePDF(ctx, utils.InvoiceHTML(order, email, qr))
	if err != nil {
		return nil, err
	}

	if err := services.ArchiveInvoice(ctx, order.ID.String(), pdf); err != nil {
		log.Printf("⚠️ Facture %s non archivée dans MinIO: %v", order.ID, err)
	}
	return pdf, nil
}

// loadOwnedOrder charge une commande et ses lignes, en appliquant le
// contrôle de propriété. En cas d'échec la réponse HTTP est déjà écrite.
func (h *Handler) loadOwnedOrder(c *gin.Context) (models.Order, bool) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authenticated"})
		return models.Order{}, false
	}

	orderID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid order id"})
		return models.Order{}, false
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database connection failed"})
		return models.Order{}, false
	}

	var o models.Order
	if err := session.Query(
		`SELECT order_id, user_id, total_amount, status, created_at FROM orders WHERE order_id = ?`, orderID,
	).Scan(&o.ID, &o.UserID, &o.TotalAmount, &o.Status, &o.CreatedAt); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
		return models.Order{}, false
	}

	if o.UserID != userID && c.GetString("role") != models.RoleAdmin {
		c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
		return models.Order{}, false
	}

	iter := session.Query(
		`SELECT product_id, name, quantity, price FROM order_items WHERE order_id = ?`, orderID,
	).Iter()

	var pid gocql.UUID
	var item models.OrderItem
	for iter.Scan(&pid, &item.Name, &item.Quantity, &item.Price) {
		item.ProductID = pid.String()
		o.Items = append(o.Items, item)
		item = models.OrderItem{}
	}
	if err := iter.Close(); err != nil {
		log.Printf("⚠️ Erreur lecture lignes commande %s: %v", orderID, err)
	}

	return o, true
}
