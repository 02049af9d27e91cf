package notifications

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibrahimkeyboad/goledger/internal/core/domain"
	"github.com/ibrahimkeyboad/goledger/internal/core/security"
)

func sampleTransaction() domain.Transaction {
	return domain.Transaction{
		ID:        uuid.New(),
		AccountID: uuid.New(),
		Amount:    -3,
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestSenderSignsAndPosts(t *testing.T) {
	t.Parallel()

	tx := sampleTransaction()
	received := make(chan *http.Request, 1)
	bodies := make(chan []byte, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		received <- r
		bodies <- body
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	sender := NewSender(srv.URL, "topsecret")
	require.NoError(t, sender.Send(context.Background(), NewTransactionRecorded(tx)))

	req := <-received
	body := <-bodies
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.Equal(t, "GoLedger-Webhook/1.0", req.Header.Get("User-Agent"))
	assert.True(t, security.VerifySignature("topsecret", body, req.Header.Get(SignatureHeader)))

	var got struct {
		Event string `json:"event"`
		Data  struct {
			TransactionID string `json:"transaction_id"`
			AccountID     string `json:"account_id"`
			Amount        int64  `json:"amount"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, EventTransactionRecorded, got.Event)
	assert.Equal(t, tx.ID.String(), got.Data.TransactionID)
	assert.Equal(t, tx.AccountID.String(), got.Data.AccountID)
	assert.Equal(t, int64(-3), got.Data.Amount)
}

func TestSenderWithoutSecretOmitsSignature(t *testing.T) {
	t.Parallel()

	headers := make(chan http.Header, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers <- r.Header.Clone()
	}))
	t.Cleanup(srv.Close)

	require.NoError(t, NewSender(srv.URL, "").Send(context.Background(), NewTransactionRecorded(sampleTransaction())))
	assert.Empty(t, (<-headers).Get(SignatureHeader))
}

func TestSenderReportsNon2xx(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	err := NewSender(srv.URL, "").Send(context.Background(), NewTransactionRecorded(sampleTransaction()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
