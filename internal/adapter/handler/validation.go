package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/ibrahimkeyboad/goledger/internal/core/domain"
)

// Messages mirror the ones the browser client already knows how to show.
const (
	msgRequired        = "Required"
	msgInvalidUUID     = "Invalid uuid"
	msgExpectedInteger = "Expected integer, received float"
	msgOutOfRange      = "Number must be within int64 range"
	msgInvalidNumber   = "Invalid number"
	msgInvalidJSON     = "Invalid JSON body"
	msgContentType     = "Content-Type must be application/json"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// Report json names, not Go field names.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

var tagMessages = map[string]string{
	"required":     msgRequired,
	"uuid_rfc4122": msgInvalidUUID,
}

// createTransactionInput holds the fields that survived JSON type checks.
type createTransactionInput struct {
	AccountID string `json:"account_id" validate:"uuid_rfc4122"`
}

// CreateTransactionRequest is a fully validated POST /transactions body.
type CreateTransactionRequest struct {
	AccountID uuid.UUID
	Amount    int64
}

// parseCreateTransaction validates the raw body. Every field is checked so the
// client sees all problems at once.
func parseCreateTransaction(contentType string, body []byte) (*CreateTransactionRequest, *ValidationError) {
	verr := newValidationError()

	if contentType != "" && !strings.HasPrefix(strings.ToLower(contentType), "application/json") {
		verr.addForm(msgContentType)
		return nil, verr
	}

	fields := map[string]json.RawMessage{}
	if len(bytes.TrimSpace(body)) > 0 {
		if !json.Valid(body) {
			verr.addForm(msgInvalidJSON)
			return nil, verr
		}
		if kind := jsonKind(body); kind != "object" {
			verr.addForm("Expected object, received " + kind)
			return nil, verr
		}
		if err := json.Unmarshal(body, &fields); err != nil {
			verr.addForm(msgInvalidJSON)
			return nil, verr
		}
	}

	var input createTransactionInput
	rawAccount, ok := fields["account_id"]
	switch {
	case !ok:
		verr.addField("account_id", msgRequired)
	case jsonKind(rawAccount) != "string":
		verr.addField("account_id", "Expected string, received "+jsonKind(rawAccount))
	default:
		if err := json.Unmarshal(rawAccount, &input.AccountID); err != nil {
			verr.addField("account_id", msgInvalidUUID)
		} else if err := getValidator().Struct(input); err != nil {
			addValidatorErrors(verr, err)
		}
	}

	var amount int64
	rawAmount, ok := fields["amount"]
	switch {
	case !ok:
		verr.addField("amount", msgRequired)
	case jsonKind(rawAmount) != "number":
		verr.addField("amount", "Expected number, received "+jsonKind(rawAmount))
	default:
		var err error
		amount, err = domain.ParseAmount(string(bytes.TrimSpace(rawAmount)))
		if err != nil {
			verr.addField("amount", amountMessage(err))
		}
	}

	if !verr.empty() {
		return nil, verr
	}

	accountID, err := uuid.Parse(input.AccountID)
	if err != nil {
		verr.addField("account_id", msgInvalidUUID)
		return nil, verr
	}

	return &CreateTransactionRequest{AccountID: accountID, Amount: amount}, nil
}

// parseID accepts hyphenated UUID text in either case.
func parseID(s string) (uuid.UUID, bool) {
	if err := getValidator().Var(s, "uuid_rfc4122"); err != nil {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func addValidatorErrors(verr *ValidationError, err error) {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		verr.addForm(err.Error())
		return
	}
	for _, fe := range fieldErrs {
		msg, ok := tagMessages[fe.Tag()]
		if !ok {
			msg = "Failed " + fe.Tag() + " check"
		}
		verr.addField(fe.Field(), msg)
	}
}

func amountMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrAmountNotInteger):
		return msgExpectedInteger
	case errors.Is(err, domain.ErrAmountOutOfRange):
		return msgOutOfRange
	default:
		return msgInvalidNumber
	}
}

// jsonKind names the JSON type of a raw value the way client-side schemas do.
func jsonKind(raw []byte) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "undefined"
	}
	switch raw[0] {
	case '"':
		return "string"
	case '{':
		return "object"
	case '[':
		return "array"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	default:
		return "number"
	}
}
