package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Event types delivered to the alert endpoint.
const (
	EventFetchFailed   = "fetch.failed"   // pipeline aborted with a fatal error
	EventFetchDegraded = "fetch.degraded" // fetch completed but with no rows or no sort order
)

// Event is the payload sent to the alert webhook. Degraded and failed
// fetches usually mean the target site changed its layout or tightened the
// challenge; the webhook exists so an operator hears about it before the
// cache drains.
type Event struct {
	Type      string `json:"type"`
	Route     string `json:"route"` // e.g. "GRU-JFK" or the direct URL path
	Timestamp int64  `json:"timestamp"`
	Data      any    `json:"data,omitempty"`
}

// Notifier delivers alert events to a configured endpoint. The zero value
// (empty URL) is a disabled notifier whose methods are no-ops.
type Notifier struct {
	URL    string
	Secret string
}

// Enabled reports whether a webhook endpoint is configured.
func (n *Notifier) Enabled() bool {
	return n != nil && n.URL != ""
}

// Deliver sends an event synchronously.
// The request body is signed with HMAC-SHA256 if Secret is non-empty.
// Header: X-AwardScout-Signature: sha256=<hex>
func (n *Notifier) Deliver(ctx context.Context, event *Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("webhook: marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "AwardScout-Webhook/1.0")

	if n.Secret != "" {
		mac := hmac.New(sha256.New, []byte(n.Secret))
		mac.Write(body)
		sig := hex.EncodeToString(mac.Sum(nil))
		req.Header.Set("X-AwardScout-Signature", "sha256="+sig)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: deliver: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook: endpoint returned status %d", resp.StatusCode)
	}
	return nil
}

// NotifyAsync sends an event asynchronously with up to 3 retries.
// Retry intervals: 1s, 5s, 30s. No-op when the notifier is disabled.
func (n *Notifier) NotifyAsync(event *Event) {
	if !n.Enabled() {
		return
	}
	event.Timestamp = time.Now().Unix()
	go func() {
		delays := []time.Duration{0, 1 * time.Second, 5 * time.Second, 30 * time.Second}
		for attempt, delay := range delays {
			if delay > 0 {
				time.Sleep(delay)
			}
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			err := n.Deliver(ctx, event)
			cancel()
			if err == nil {
				slog.Info("alert webhook delivered",
					"event", event.Type,
					"route", event.Route,
					"attempt", attempt+1,
				)
				return
			}
			slog.Warn("alert webhook delivery failed",
				"event", event.Type,
				"route", event.Route,
				"attempt", attempt+1,
				"error", err,
			)
		}
		slog.Error("alert webhook exhausted all retries",
			"event", event.Type,
			"route", event.Route,
		)
	}()
}
