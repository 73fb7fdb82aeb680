package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const gaEndpoint = "https://www.google-analytics.com/mp/collect"

// PurchaseItem is one line of a purchase conversion event.
type PurchaseItem struct {
	ItemName string  `json:"item_name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// PurchaseEvent carries the order data sent to GA4 when an order reaches a
// final status.
type PurchaseEvent struct {
	TransactionID string         `json:"transaction_id"`
	Value         float64        `json:"value"`
	Currency      string         `json:"currency"`
	Items         []PurchaseItem `json:"items"`
}

// AnalyticsClient posts purchase conversion events to the GA4 Measurement
// Protocol. When credentials are absent the client is disabled and every send
// is a silent no-op — the feature must never block a deployment that does not
// use it.
type AnalyticsClient struct {
	measurementID string
	apiSecret     string
	httpClient    *http.Client
}

func NewAnalyticsClient(measurementID, apiSecret string) *AnalyticsClient {
	return &AnalyticsClient{
		measurementID: measurementID,
		apiSecret:     apiSecret,
		httpClient:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Enabled reports whether credentials are configured.
func (c *AnalyticsClient) Enabled() bool {
	return c.measurementID != "" && c.apiSecret != ""
}

// SendPurchase posts one purchase event. The Measurement Protocol replies
// 2xx even for malformed payloads, so only transport-level failures surface.
func (c *AnalyticsClient) SendPurchase(ctx context.Context, ev PurchaseEvent) error {
	if !c.Enabled() {
		return nil
	}

	payload := map[string]interface{}{
		// client_id is required; orders are server-side so the transaction
		// id doubles as the pseudo-client
		"client_id": ev.TransactionID,
		"events": []map[string]interface{}{
			{
				"name": "purchase",
				"params": map[string]interface{}{
					"transaction_id": ev.TransactionID,
					"value":          ev.Value,
					"currency":       ev.Currency,
					"items":          ev.Items,
				},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("analytics: marshal payload: %w", err)
	}

	q := url.Values{}
	q.Set("measurement_id", c.measurementID)
	q.Set("api_secret", c.apiSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, gaEndpoint+"?"+q.Encode(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("analytics: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("analytics: endpoint unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("analytics: endpoint returned %d", resp.StatusCode)
	}
	return nil
}
