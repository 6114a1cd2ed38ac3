package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"

	"agroshop_back_end/internal/models"
)

func sampleOrder(t *testing.T) models.Order {
	t.Helper()
	id, err := gocql.ParseUUID("aaaaaaaa-aaaa-1aaa-8aaa-aaaaaaaaaaaa")
	assert.NoError(t, err)

	return models.Order{
		ID:          id,
		UserID:      "user-1",
		TotalAmount: 250,
		Status:      models.OrderStatusPending,
		CreatedAt:   time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC),
		Items: []models.OrderItem{
			{ProductID: "p1", Name: "Wheat Seed", Quantity: 2, Price: 100},
			{ProductID: "p2", Name: "Hoe", Quantity: 1, Price: 50},
		},
	}
}

func TestGenerateUPIQR(t *testing.T) {
	qr, err := GenerateUPIQR("order-42", 199.50)
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(qr, "data:image/png;base64,"))
}

func TestInvoiceHTML(t *testing.T) {
	order := sampleOrder(t)
	html := InvoiceHTML(order, "ramesh@example.com", "data:image/png;base64,AAAA")

	assert.Contains(t, html, order.ID.String())
	assert.Contains(t, html, "ramesh@example.com")
	assert.Contains(t, html, "Wheat Seed")
	assert.Contains(t, html, "₹250.00")
	assert.Contains(t, html, "15/06/2025")
	assert.Contains(t, html, `src="data:image/png;base64,AAAA"`)
}

func TestOrderConfirmationHTML(t *testing.T) {
	order := sampleOrder(t)
	html := OrderConfirmationHTML(order)

	assert.Contains(t, html, order.ID.String())
	assert.Contains(t, html, "Wheat Seed")
	assert.Contains(t, html, "Hoe")
	// total ligne = prix × quantité
	assert.Contains(t, html, "₹200.00")
	assert.Contains(t, html, "₹250.00")
}
