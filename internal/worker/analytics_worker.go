package worker

// analytics_worker.go
// Processes purchase-conversion jobs from QueueAnalytics.
// Posts the event to GA4 through a circuit breaker; exhausted retries land in
// the DLQ. Nothing here can ever affect the HTTP response that enqueued the
// job — the queue is the architectural boundary.

import (
	"context"
	"encoding/json"

	"lojalink/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const analyticsMaxAttempts = 3

// AnalyticsJobPayload is the job envelope sent to QueueAnalytics.
type AnalyticsJobPayload struct {
	OrderID  string               `json:"order_id"`
	Value    float64              `json:"value"`
	Currency string               `json:"currency"`
	Items    []infra.PurchaseItem `json:"items"`
}

// AnalyticsWorker sends purchase events to the GA4 Measurement Protocol.
type AnalyticsWorker struct {
	client  *infra.AnalyticsClient
	breaker *infra.CircuitBreaker
}

func NewAnalyticsWorker(client *infra.AnalyticsClient, breaker *infra.CircuitBreaker) *AnalyticsWorker {
	return &AnalyticsWorker{client: client, breaker: breaker}
}

// Process handles a single analytics job with retry + DLQ semantics.
func (w *AnalyticsWorker) Process(ctx context.Context, rdb *redis.Client, raw json.RawMessage) {
	var payload AnalyticsJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("analytics_worker: invalid payload")
		return
	}

	if !w.client.Enabled() {
		log.Debug().Str("order_id", payload.OrderID).Msg("analytics_worker: GA credentials absent — skipping")
		return
	}

	ev := infra.PurchaseEvent{
		TransactionID: payload.OrderID,
		Value:         payload.Value,
		Currency:      payload.Currency,
		Items:         payload.Items,
	}

	err := withRetry(ctx, analyticsMaxAttempts, func(attempt int) error {
		sendErr := w.breaker.Execute(func() error {
			return w.client.SendPurchase(ctx, ev)
		})
		if sendErr != nil {
			log.Warn().
				Err(sendErr).
				Int("attempt", attempt+1).
				Str("order_id", payload.OrderID).
				Msg("analytics_worker: send attempt failed")
		}
		return sendErr
	})
	if err != nil {
		SendToDLQ(ctx, rdb, QueueAnalytics, "analytics", raw, err.Error(), analyticsMaxAttempts)
		return
	}
	log.Info().Str("order_id", payload.OrderID).Msg("analytics_worker: purchase event sent")
}
