package payments

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"
)

// Payment intents are created outside this service. We only consume the
// provider's webhook events to keep an internal record of what happened
// to a booking's payment.

// EventEnvelope is the provider's webhook payload shape (Stripe-style).
// Only the fields we consume are declared; the raw body is retained for
// the audit trail.

type EventEnvelope struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Created int64  `json:"created"`
	Data    struct {
		Object struct {
			ID       string `json:"id"`
			Amount   int64  `json:"amount"`
			Currency string `json:"currency"`
			Status   string `json:"status"`
			Metadata struct {
				CompanyID string `json:"company_id"`
				QuoteID   string `json:"quote_id"`
			} `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}

// PaymentEvent is the internal representation handed to downstream
// consumers (audit, notifications).
type PaymentEvent struct {
	ProviderEventID string
	Kind            EventKind
	PaymentRef      string
	CompanyID       string
	QuoteID         string
	AmountMinor     int64
	Currency        string
	OccurredAt      time.Time
	RawPayload      string
}

type EventKind string

const (
	EventKindIntentSucceeded EventKind = "intent_succeeded"
	EventKindIntentFailed    EventKind = "intent_failed"
	EventKindIntentCanceled  EventKind = "intent_canceled"
	EventKindUnknown         EventKind = "unknown"
)

// maxBodyBytes caps the webhook body; provider payloads are small.
const maxBodyBytes = 1 << 20

var ErrBadEnvelope = errors.New("payments: bad event envelope")

// ReadEventBody reads and returns the raw webhook body. The body is
// needed twice: once for signature verification and once for parsing.
func ReadEventBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	return body, nil
}

func ParseEvent(body []byte) (EventEnvelope, error) {
	var env EventEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return EventEnvelope{}, err
	}
	if env.ID == "" || env.Type == "" {
		return EventEnvelope{}, ErrBadEnvelope
	}
	return env, nil
}

func kindOf(providerType string) EventKind {
	switch providerType {
	case "payment_intent.succeeded":
		return EventKindIntentSucceeded
	case "payment_intent.payment_failed":
		return EventKindIntentFailed
	case "payment_intent.canceled":
		return EventKindIntentCanceled
	default:
		return EventKindUnknown
	}
}

func (e EventEnvelope) ToPaymentEvent(raw []byte) PaymentEvent {
	return PaymentEvent{
		ProviderEventID: e.ID,
		Kind:            kindOf(e.Type),
		PaymentRef:      e.Data.Object.ID,
		CompanyID:       e.Data.Object.Metadata.CompanyID,
		QuoteID:         e.Data.Object.Metadata.QuoteID,
		AmountMinor:     e.Data.Object.Amount,
		Currency:        e.Data.Object.Currency,
		OccurredAt:      time.Unix(e.Created, 0).UTC(),
		RawPayload:      string(raw),
	}
}
