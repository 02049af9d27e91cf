package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ibrahimkeyboad/goledger/internal/core/domain"
	"github.com/ibrahimkeyboad/goledger/internal/core/security"
)

const (
	EventTransactionRecorded = "transaction.recorded"

	SignatureHeader = "X-Ledger-Signature"
	userAgent       = "GoLedger-Webhook/1.0"
)

// Event is the JSON body delivered to the webhook URL.
type Event struct {
	Event string             `json:"event"`
	Data  domain.Transaction `json:"data"`
}

// NewTransactionRecorded builds the event published after a transaction is stored.
func NewTransactionRecorded(tx domain.Transaction) Event {
	return Event{Event: EventTransactionRecorded, Data: tx}
}

// Sender posts events to a single URL.
type Sender struct {
	URL    string
	Secret string
	Client *http.Client
}

func NewSender(url, secret string) *Sender {
	// Don't let a slow receiver hold the worker.
	return &Sender{URL: url, Secret: secret, Client: &http.Client{Timeout: 5 * time.Second}}
}

// Send delivers one event. Any 2xx response counts as delivered.
func (s *Sender) Send(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if s.Secret != "" {
		req.Header.Set(SignatureHeader, security.SignPayload(s.Secret, body))
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	return fmt.Errorf("webhook receiver returned status %d", resp.StatusCode)
}
