package cart

import (
	"agroshop_back_end/internal/models"
)

// Cart agrège les lignes (instantané produit, quantité) d'un utilisateur.
// Une quantité ne descend jamais à 0 : atteindre 0 supprime la ligne.
// Aucune borne de stock n'est appliquée ici — le stock est vérifié au
// moment de la commande, pas au moment de l'ajout.
type Cart struct {
	items []models.CartItem
}

func New() *Cart {
	return &Cart{}
}

// FromItems reconstruit un panier depuis une liste persistée.
// Les lignes à quantité nulle ou négative sont écartées, les doublons
// fusionnés, pour que les invariants tiennent quelle que soit la source.
func FromItems(items []models.CartItem) *Cart {
	c := New()
	for _, it := range items {
		if it.Quantity <= 0 {
			continue
		}
		if line := c.find(it.ProductID); line != nil {
			line.Quantity += it.Quantity
			continue
		}
		c.items = append(c.items, it)
	}
	return c
}

// Add fusionne un produit dans le panier : ligne existante → quantité
// incrémentée, sinon nouvelle ligne avec l'instantané prix/nom du produit.
// Une quantité ≤ 0 vaut 1.
func (c *Cart) Add(p models.Product, quantity int) {
	if quantity <= 0 {
		quantity = 1
	}

	id := p.ID.String()
	if line := c.find(id); line != nil {
		line.Quantity += quantity
		return
	}

	c.items = append(c.items, models.CartItem{
		ProductID: id,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  quantity,
		ImageURL:  p.ImageURL,
	})
}

// SetQuantity remplace la quantité d'une ligne (pas un incrément).
// Une quantité de 0 supprime la ligne. Retourne false si la ligne n'existe pas.
func (c *Cart) SetQuantity(productID string, quantity int) bool {
	if quantity <= 0 {
		return c.Remove(productID)
	}
	if line := c.find(productID); line != nil {
		line.Quantity = quantity
		return true
	}
	return false
}

// Remove supprime la ligne si elle existe, no-op sinon.
func (c *Cart) Remove(productID string) bool {
	for i := range c.items {
		if c.items[i].ProductID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Cart) Clear() {
	c.items = nil
}

// Total calcule la somme prix×quantité sur les prix capturés à l'ajout.
// Recalcul pur : aucun état caché, idempotent.
func (c *Cart) Total() float64 {
	var total float64
	for _, it := range c.items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}

// ItemCount est la somme des quantités de toutes les lignes.
func (c *Cart) ItemCount() int {
	var n int
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// Items retourne une copie des lignes, jamais nil.
func (c *Cart) Items() []models.CartItem {
	out := make([]models.CartItem, len(c.items))
	copy(out, c.items)
	return out
}

// ToOrderRequest sérialise le panier en requête de commande : chaque ligne
// devient (product_id, quantité, prix instantané), le total est précalculé
// sur les mêmes instantanés — total affiché et total soumis coïncident.
func (c *Cart) ToOrderRequest() models.OrderRequest {
	req := models.OrderRequest{
		TotalAmount: c.Total(),
		Items:       make([]models.OrderRequestItem, 0, len(c.items)),
	}
	for _, it := range c.items {
		req.Items = append(req.Items, models.OrderRequestItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}
	return req
}

func (c *Cart) find(productID string) *models.CartItem {
	for i := range c.items {
		if c.items[i].ProductID == productID {
			return &c.items[i]
		}
	}
	return nil
}
