package models

// CartItem est un instantané produit au moment de l'ajout au panier.
// Le prix n'est pas relu tant que la ligne existe.
type CartItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	ImageURL  string  `json:"image_url,omitempty"`
}
