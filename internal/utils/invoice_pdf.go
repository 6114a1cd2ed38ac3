package utils

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/skip2/go-qrcode"

	"agroshop_back_end/internal/models"
)

// GenerateUPIQR génère un QR de paiement UPI en base64, prêt pour <img src="...">.
func GenerateUPIQR(orderID string, amount float64) (string, error) {
	vpa := os.Getenv("UPI_VPA")
	if vpa == "" {
		vpa = "agroshop@upi"
	}
	payee := os.Getenv("UPI_PAYEE_NAME")
	if payee == "" {
		payee = "AgroShop"
	}

	q := url.Values{}
	q.Set("pa", vpa)
	q.Set("pn", payee)
	q.Set("am", fmt.Sprintf("%.2f", amount))
	q.Set("cu", "INR")
	q.Set("tn", "Order "+orderID)

	png, err := qrcode.Encode("upi://pay?"+q.Encode(), qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// InvoiceHTML construit la facture HTML, QR de paiement inclus.
func InvoiceHTML(order models.Order, customerEmail, qrBase64 string) string {
	itemsHTML := ""
	for _, item := range order.Items {
		itemsHTML += fmt.Sprintf(`
			<tr>
				<td>%s</td>
				<td>%d</td>
				<td>₹%.2f</td>
				<td>₹%.2f</td>
			</tr>`, item.Name, item.Quantity, item.Price, item.Price*float64(item.Quantity))
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; margin: 40px; color: #222; }
		h1 { color: #2e7d32; }
		table { width: 100%%; border-collapse: collapse; margin: 24px 0; }
		th, td { padding: 8px; border: 1px solid #ccc; text-align: left; }
		th { background: #f0f0f0; }
		.total { font-size: 20px; font-weight: bold; }
		.qr { margin-top: 24px; }
	</style>
</head>
<body>
	<h1>AgroShop — Invoice</h1>
	<p>Order <strong>#%s</strong> — %s</p>
	<p>Billed to: %s</p>
	<table>
		<thead>
			<tr><th>Product</th><th>Qty</th><th>Unit price</th><th>Total</th></tr>
		</thead>
		<tbody>%s</tbody>
	</table>
	<p class="total">Total: ₹%.2f</p>
	<div class="qr">
		<p>Pay via UPI:</p>
		<img src="%s" width="160" height="160" alt="UPI QR">
	</div>
</body>
</html>`,
		order.ID.String(),
		order.CreatedAt.Format("02/01/2006"),
		customerEmail,
		itemsHTML,
		order.TotalAmount,
		qrBase64,
	)
}

// RenderInvoicePDF imprime la facture HTML en PDF via Chrome headless.
func RenderInvoicePDF(parent context.Context, html string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(parent)
	defer cancel()

	// timeout pour éviter de bloquer le handler
	ctx, cancel = context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var pdfBuf []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("data:text/html,"+url.PathEscape(html)),
		chromedp.WaitVisible("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				Do(ctx)
			if err != nil {
				return err
			}
			pdfBuf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}

	return pdfBuf, nil
}
