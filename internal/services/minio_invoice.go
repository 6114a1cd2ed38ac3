package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"time"

	"github.com/minio/minio-go/v7"

	"agroshop_back_end/internal/database"
)

// Les factures sont des objets privés : jamais d'URL publique,
// uniquement des liens signés à durée courte.
const InvoiceURLExpiry = 15 * time.Minute

func invoiceObjectName(orderID string) string {
	return "invoices/" + orderID + ".pdf"
}

// ArchiveInvoice stocke le PDF d'une facture dans MinIO.
// Appelé après la génération pour ne pas re-rendre le PDF à chaque téléchargement.
func ArchiveInvoice(ctx context.Context, orderID string, pdf []byte) error {
	if database.MinIO == nil {
		return fmt.Errorf("MinIO non initialisé")
	}

	bucket := os.Getenv("MINIO_BUCKET")
	_, err := database.MinIO.PutObject(ctx, bucket, invoiceObjectName(orderID),
		bytes.NewReader(pdf), int64(len(pdf)),
		minio.PutObjectOptions{ContentType: "application/pdf"})
	return err
}

// FetchInvoice récupère une facture archivée. Retourne une erreur si
// l'objet n'existe pas, auquel cas l'appelant régénère le PDF.
func FetchInvoice(ctx context.Context, orderID string) ([]byte, error) {
	if database.MinIO == nil {
		return nil, fmt.Errorf("MinIO non initialisé")
	}

	obj, err := database.MinIO.GetObject(ctx, os.Getenv("MINIO_BUCKET"),
		invoiceObjectName(orderID), minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	return io.ReadAll(obj)
}

// PresignedInvoiceURL génère un lien de téléchargement signé, valable 15 minutes
func PresignedInvoiceURL(ctx context.Context, orderID string) (string, error) {
	if database.MinIO == nil {
		return "", fmt.Errorf("MinIO non initialisé")
	}

	reqParams := make(url.Values)
	reqParams.Set("response-content-disposition",
		fmt.Sprintf(`attachment; filename="invoice-%s.pdf"`, orderID))

	presigned, err := database.MinIO.PresignedGetObject(ctx, os.Getenv("MINIO_BUCKET"),
		invoiceObjectName(orderID), InvoiceURLExpiry, reqParams)
	if err != nil {
		return "", err
	}
	return presigned.String(), nil
}
