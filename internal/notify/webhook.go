// Package notify posts enquiry notifications to a chat gateway webhook.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Webhook posts {phone, message} JSON to a WhatsApp gateway.
type Webhook struct {
	url        string
	phone      string
	httpClient *http.Client
}

// NewWebhook creates a Webhook. The returned value is nil when url is empty,
// which callers treat as "notifications disabled".
func NewWebhook(url, phone string, timeout time.Duration) *Webhook {
	if url == "" {
		return nil
	}
	return &Webhook{
		url:   url,
		phone: phone,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type webhookRequest struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// Notify implements enquiry.Notifier.
func (w *Webhook) Notify(ctx context.Context, text string) error {
	body, err := json.Marshal(webhookRequest{Phone: w.phone, Message: text})
	if err != nil {
		return fmt.Errorf("failed to marshal webhook body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, string(snippet))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
