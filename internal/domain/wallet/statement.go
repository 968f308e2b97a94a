package wallet

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ObjectStore is the slice of object storage the exporter needs. The R2/S3
// client in internal/pkg/storage satisfies it.
type ObjectStore interface {
	Save(ctx context.Context, filePath string, reader io.Reader, contentType string) error
	GetURL(filePath string) string
}

// StatementExporter renders a user's transaction history as CSV and uploads
// it to object storage.
type StatementExporter struct {
	svc     *Service
	objects ObjectStore
}

func NewStatementExporter(svc *Service, objects ObjectStore) *StatementExporter {
	return &StatementExporter{svc: svc, objects: objects}
}

// Export writes the statement and returns its public URL.
func (e *StatementExporter) Export(ctx context.Context, userID uuid.UUID, limit, offset int) (string, error) {
	if e.objects == nil {
		return "", ErrExportUnavailable
	}

	txs := e.svc.GetTransactions(ctx, userID, limit, offset)
	data, err := renderStatementCSV(txs)
	if err != nil {
		return "", fmt.Errorf("render statement: %w", err)
	}

	key := fmt.Sprintf("statements/%s/%d.csv", userID, time.Now().UTC().Unix())
	if err := e.objects.Save(ctx, key, bytes.NewReader(data), "text/csv"); err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("statement upload failed")
		return "", fmt.Errorf("upload statement: %w", err)
	}

	return e.objects.GetURL(key), nil
}

func renderStatementCSV(txs []Transaction) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"id", "type", "status", "amount", "tax_credit_used", "tax_credit_given", "payment_method", "description", "created_at"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, tx := range txs {
		method := ""
		if tx.PaymentMethod != nil {
			method = *tx.PaymentMethod
		}
		description := ""
		if tx.Description != nil {
			description = *tx.Description
		}
		record := []string{
			tx.ID,
			string(tx.Type),
			string(tx.Status),
			strconv.FormatFloat(tx.Amount, 'f', 2, 64),
			strconv.FormatFloat(tx.TaxCreditUsed, 'f', 2, 64),
			strconv.FormatFloat(tx.TaxCreditGiven, 'f', 2, 64),
			method,
			description,
			tx.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
