package worker

// alert_worker.go
// Processes low-stock check jobs from QueueAlerts. When the product is below
// its effective threshold, sends a digest email to the configured recipient.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/AzizSouissi/store-inventory-suite/internal/infra"
	"github.com/AzizSouissi/store-inventory-suite/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// LowStockJobPayload is the job envelope sent to QueueAlerts.
type LowStockJobPayload struct {
	ProductID string `json:"product_id"`
}

// AlertWorker evaluates low-stock state for a single product and mails a
// notification when it is below threshold.
type AlertWorker struct {
	alerts     service.AlertService
	mailer     *infra.Mailer
	alertEmail string
}

func NewAlertWorker(alerts service.AlertService, mailer *infra.Mailer, alertEmail string) *AlertWorker {
	return &AlertWorker{alerts: alerts, mailer: mailer, alertEmail: alertEmail}
}

// Process handles one low-stock check job.
func (w *AlertWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload LowStockJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("alert_worker: invalid payload")
		return
	}
	productID, err := uuid.Parse(payload.ProductID)
	if err != nil {
		log.Error().Str("product_id", payload.ProductID).Msg("alert_worker: invalid product id")
		return
	}

	low, product, err := w.alerts.IsProductLowStock(ctx, productID)
	if err != nil {
		log.Error().Err(err).Str("product_id", payload.ProductID).Msg("alert_worker: evaluation failed")
		return
	}
	if !low {
		return
	}

	log.Warn().
		Str("product_id", product.ID.String()).
		Str("name", product.Name).
		Str("quantity", product.Quantity.String()).
		Msg("product below low-stock threshold")

	if w.alertEmail == "" {
		// Digest emails disabled; the log entry is the alert.
		return
	}

	subject := fmt.Sprintf("Low stock: %s", product.Name)
	body := fmt.Sprintf(
		"Product %q is below its low-stock threshold.\n\nCurrent quantity: %s %s\n\nReview the reorder list for the suggested order quantity.",
		product.Name, product.Quantity.StringFixed(3), product.Unit,
	)
	if err := w.mailer.SendAlert(w.alertEmail, subject, body, nil, ""); err != nil {
		log.Error().Err(err).Str("to", w.alertEmail).Msg("alert_worker: failed to send email")
		return
	}
	log.Info().Str("to", w.alertEmail).Str("product", product.Name).Msg("alert_worker: low-stock email sent")
}
