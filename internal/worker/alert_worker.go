package worker

// alert_worker.go
// Processes low-stock alert jobs: a settlement that drives a medicine to or
// below the alert threshold enqueues one of these, and the pharmacist gets a
// short email naming the medicine and its remaining quantity.

import (
	"context"
	"encoding/json"
	"fmt"

	"pharmatrack/internal/infra"

	"github.com/rs/zerolog/log"
)

// StockAlertJobPayload is the job envelope sent to QueueStockAlert.
type StockAlertJobPayload struct {
	MedicineID string `json:"medicine_id"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	Threshold  int    `json:"threshold"`
}

type AlertWorker struct {
	mailer     *infra.Mailer
	alertEmail string
}

func NewAlertWorker(mailer *infra.Mailer, alertEmail string) *AlertWorker {
	return &AlertWorker{mailer: mailer, alertEmail: alertEmail}
}

func (w *AlertWorker) Process(_ context.Context, raw json.RawMessage) {
	var payload StockAlertJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("alert_worker: invalid payload")
		return
	}
	if w.alertEmail == "" {
		log.Debug().Str("medicine", payload.Name).Msg("alert_worker: no alert email configured — skipping")
		return
	}

	subject := fmt.Sprintf("Low stock: %s (%d left)", payload.Name, payload.Quantity)
	body := fmt.Sprintf(
		"Medicine %s is down to %d units (alert threshold %d). Consider restocking.",
		payload.Name, payload.Quantity, payload.Threshold)
	if err := w.mailer.Send(w.alertEmail, subject, body, ""); err != nil {
		log.Error().Err(err).Str("medicine", payload.Name).Msg("alert_worker: failed to send alert")
		return
	}
	log.Info().Str("medicine", payload.Name).Int("quantity", payload.Quantity).Msg("alert_worker: low-stock alert sent")
}
