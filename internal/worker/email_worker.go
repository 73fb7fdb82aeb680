package worker

// email_worker.go
// Processes email jobs from QueueEmail: renders the order receipt PDF and
// mails it to the client.

import (
	"context"
	"encoding/json"
	"fmt"

	"lojalink/internal/infra"
	"lojalink/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	OrderID string `json:"order_id"`
	ToEmail string `json:"to_email"`
}

// EmailWorker mails PDF receipts for delivered orders.
type EmailWorker struct {
	mailer      *infra.Mailer
	orderRepo   repository.OrderRepository
	storeName   string
	storagePath string
}

func NewEmailWorker(mailer *infra.Mailer, orderRepo repository.OrderRepository, storeName, storagePath string) *EmailWorker {
	return &EmailWorker{
		mailer:      mailer,
		orderRepo:   orderRepo,
		storeName:   storeName,
		storagePath: storagePath,
	}
}

// Process renders the receipt and sends it. Failures land in the DLQ.
func (w *EmailWorker) Process(ctx context.Context, rdb *redis.Client, raw json.RawMessage) {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("email_worker: empty to_email — skipping")
		return
	}

	orderID, err := uuid.Parse(payload.OrderID)
	if err != nil {
		log.Error().Str("order_id", payload.OrderID).Msg("email_worker: invalid order_id")
		return
	}

	order, err := w.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		log.Error().Err(err).Str("order_id", payload.OrderID).Msg("email_worker: order not found")
		return
	}

	pdfPath, err := infra.GenerateReceiptPDF(order, w.storeName, w.storagePath)
	if err != nil {
		// Receipt still goes out, just without the attachment
		log.Warn().Err(err).Str("order_id", payload.OrderID).Msg("email_worker: PDF generation failed")
		pdfPath = ""
	}

	subject := fmt.Sprintf("%s — Pedido entregue", w.storeName)
	body := fmt.Sprintf("Seu pedido foi entregue.\nTotal: R$ %s", order.Total.StringFixed(2))
	if err := w.mailer.SendReceipt(payload.ToEmail, subject, body, pdfPath); err != nil {
		log.Error().Err(err).Str("to", payload.ToEmail).Msg("email_worker: failed to send email")
		SendToDLQ(ctx, rdb, QueueEmail, "email", raw, err.Error(), 1)
		return
	}
	log.Info().Str("to", payload.ToEmail).Str("order_id", payload.OrderID).Msg("email_worker: receipt sent")
}
