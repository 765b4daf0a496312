package worker

// receipt_worker.go
// Processes receipt jobs from QueueReceipt: renders the PDF receipt for a
// settled sale and mails it to the customer.

import (
	"context"
	"encoding/json"
	"fmt"

	"pharmatrack/internal/infra"
	"pharmatrack/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ReceiptJobPayload is the job envelope sent to QueueReceipt.
type ReceiptJobPayload struct {
	SaleID  string `json:"sale_id"`
	ToEmail string `json:"to_email"`
}

type ReceiptWorker struct {
	sales        repository.SaleRepository
	mailer       *infra.Mailer
	pharmacyName string
	storagePath  string
}

func NewReceiptWorker(sales repository.SaleRepository, mailer *infra.Mailer, pharmacyName, storagePath string) *ReceiptWorker {
	return &ReceiptWorker{
		sales:        sales,
		mailer:       mailer,
		pharmacyName: pharmacyName,
		storagePath:  storagePath,
	}
}

func (w *ReceiptWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ReceiptJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("receipt_worker: invalid payload")
		return
	}
	saleID, err := uuid.Parse(payload.SaleID)
	if err != nil {
		log.Error().Str("sale_id", payload.SaleID).Msg("receipt_worker: invalid sale id")
		return
	}

	sale, err := w.sales.FindByID(ctx, saleID)
	if err != nil {
		log.Error().Err(err).Str("sale_id", payload.SaleID).Msg("receipt_worker: sale not found")
		return
	}

	pdfPath, err := infra.GenerateReceiptPDF(sale, w.pharmacyName, w.storagePath)
	if err != nil {
		log.Error().Err(err).Str("sale_id", payload.SaleID).Msg("receipt_worker: pdf generation failed")
		return
	}

	subject := fmt.Sprintf("%s — your receipt", w.pharmacyName)
	body := fmt.Sprintf("Thank you for your purchase. Total: $%s. Your receipt is attached.",
		sale.TotalAmount.StringFixed(2))
	if err := w.mailer.Send(payload.ToEmail, subject, body, pdfPath); err != nil {
		log.Error().Err(err).Str("to", payload.ToEmail).Msg("receipt_worker: failed to send email")
		return
	}
	log.Info().Str("to", payload.ToEmail).Str("sale_id", payload.SaleID).Msg("receipt_worker: receipt sent")
}
