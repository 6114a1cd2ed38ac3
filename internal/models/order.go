package models

import (
	"time"

	"github.com/gocql/gocql"
)

const OrderStatusPending = "pending"

type Order struct {
	ID          gocql.UUID  `json:"id"`
	UserID      string      `json:"user_id"`
	TotalAmount float64     `json:"total_amount"`
	Status      string      `json:"status"`
	Items       []OrderItem `json:"items,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

type OrderItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name,omitempty"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// OrderRequest est le payload de création de commande, tel que le client
// le sérialise depuis son panier au moment du checkout.
type OrderRequest struct {
	TotalAmount float64            `json:"total_amount"`
	Items       []OrderRequestItem `json:"items"`
}

type OrderRequestItem struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}
