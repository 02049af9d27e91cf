package handler

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibrahimkeyboad/goledger/internal/core/domain"
)

func TestParseCreateTransaction(t *testing.T) {
	t.Parallel()

	id := uuid.New()

	req, verr := parseCreateTransaction("application/json; charset=utf-8",
		[]byte(`{"account_id":"`+id.String()+`","amount":1e3}`))
	require.Nil(t, verr)
	assert.Equal(t, id, req.AccountID)
	assert.Equal(t, int64(1000), req.Amount)
}

func TestParseCreateTransactionUpperCaseAccount(t *testing.T) {
	t.Parallel()

	req, verr := parseCreateTransaction("application/json",
		[]byte(`{"account_id":"B34C8A57-F999-4D97-97FF-7CD3F57A81A9","amount":5}`))
	require.Nil(t, verr)
	assert.Equal(t, "b34c8a57-f999-4d97-97ff-7cd3f57a81a9", req.AccountID.String())
}

func TestValidationErrorFieldsAreSorted(t *testing.T) {
	t.Parallel()

	_, verr := parseCreateTransaction("", []byte(`{"amount":"x"}`))
	require.NotNil(t, verr)
	for i := 0; i < 20; i++ {
		assert.Equal(t, []string{"account_id", "amount"}, verr.Fields())
	}
	assert.Equal(t, "invalid input: account_id, amount", verr.Error())
}

func TestParseCreateTransactionEmptyBody(t *testing.T) {
	t.Parallel()

	_, verr := parseCreateTransaction("", nil)
	require.NotNil(t, verr)
	assert.Equal(t, []string{msgRequired}, verr.Details.FieldErrors["account_id"])
	assert.Equal(t, []string{msgRequired}, verr.Details.FieldErrors["amount"])
	assert.Empty(t, verr.Details.FormErrors)
}

func TestParseCreateTransactionNullBody(t *testing.T) {
	t.Parallel()

	_, verr := parseCreateTransaction("application/json", []byte("null"))
	require.NotNil(t, verr)
	assert.Equal(t, []string{"Expected object, received null"}, verr.Details.FormErrors)
}

func TestValidationErrorMatchesInvalidInput(t *testing.T) {
	t.Parallel()

	_, verr := parseCreateTransaction("", []byte(`{"account_id":"x","amount":1}`))
	require.NotNil(t, verr)
	assert.ErrorIs(t, verr, domain.ErrInvalidInput)
	assert.Equal(t, []string{"account_id"}, verr.Fields())
}

func TestJSONKind(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		`"x"`:   "string",
		` 12 `:  "number",
		`-1.5`:  "number",
		`true`:  "boolean",
		`false`: "boolean",
		`null`:  "null",
		`[]`:    "array",
		`{}`:    "object",
		``:      "undefined",
	}
	for raw, want := range tests {
		assert.Equal(t, want, jsonKind([]byte(raw)), raw)
	}
}

func TestParseID(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	for _, good := range []string{id.String(), strings.ToUpper(id.String()), "B34C8A57-f999-4D97-97ff-7CD3F57A81A9"} {
		got, ok := parseID(good)
		require.True(t, ok, good)
		assert.Equal(t, strings.ToLower(good), got.String())
	}
	got, _ := parseID(id.String())
	assert.Equal(t, id, got)

	for _, bad := range []string{"", "not-a-uuid", "{" + id.String() + "}", "urn:uuid:" + id.String()} {
		_, ok := parseID(bad)
		assert.False(t, ok, bad)
	}
}
