package omise

import (
	"encoding/json"
	"strconv"
)

const (
	ChargeStatusSuccessful = "successful"
	ChargeStatusPending    = "pending"
	ChargeStatusFailed     = "failed"
	ChargeStatusExpired    = "expired"
	ChargeStatusReversed   = "reversed"

	FailureCodePaymentRejected = "payment_rejected"

	MetaOrderID       = "order_id"
	MetaCustomerEmail = "customer_email"
	MetaOrderTotal    = "order_total"
)

type ChargeRequest struct {
	Amount      int64          `json:"amount"`
	Currency    string         `json:"currency"`
	Card        string         `json:"card,omitempty"`
	Customer    string         `json:"customer,omitempty"`
	Description string         `json:"description,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	ReturnURI   string         `json:"return_uri,omitempty"`
}

type Charge struct {
	Object         string         `json:"object"`
	ID             string         `json:"id"`
	Amount         int64          `json:"amount"`
	Currency       string         `json:"currency"`
	Status         string         `json:"status"`
	Paid           bool           `json:"paid"`
	Transaction    string         `json:"transaction,omitempty"`
	FailureCode    string         `json:"failure_code,omitempty"`
	FailureMessage string         `json:"failure_message,omitempty"`
	Customer       string         `json:"customer,omitempty"`
	AuthorizeURI   string         `json:"authorize_uri,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

// OrderID returns metadata.order_id, which the gateway echoes either as string or as number
func (c Charge) OrderID() (int64, bool) {
	raw, exists := c.Metadata[MetaOrderID]
	if !exists {
		return 0, false
	}
	switch v := raw.(type) {
	case string:
		id, err := strconv.ParseInt(v, 10, 64)
		return id, err == nil && id > 0
	case float64:
		return int64(v), v > 0 && v == float64(int64(v))
	case json.Number:
		id, err := v.Int64()
		return id, err == nil && id > 0
	default:
		return 0, false
	}
}

type customerRequest struct {
	Email       string         `json:"email"`
	Description string         `json:"description,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

type customer struct {
	Object string `json:"object"`
	ID     string `json:"id"`
}

type errorResponse struct {
	Object  string `json:"object"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WebhookEvent is the body the gateway posts to the webhook endpoint
type WebhookEvent struct {
	Object string          `json:"object"`
	ID     string          `json:"id"`
	Key    string          `json:"key"`
	Data   json.RawMessage `json:"data"`
}

// DataObject tells what kind of object an event carries
func (e WebhookEvent) DataObject() string {
	header := struct {
		Object string `json:"object"`
	}{}
	_ = json.Unmarshal(e.Data, &header)
	return header.Object
}

func (e WebhookEvent) Charge() (Charge, error) {
	charge := Charge{}
	err := json.Unmarshal(e.Data, &charge)
	if err != nil {
		return Charge{}, err
	}
	return charge, nil
}
