package orderapi

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Meta keys written on orders
const (
	MetaChargeID              = "_omise_charge_id"
	MetaCustomerID            = "_omise_customer_id"
	MetaPaymentStatus         = "_payment_status"
	MetaPaymentFailureCode    = "_payment_failure_code"
	MetaPaymentFailureMessage = "_payment_failure_message"
	MetaPaymentError          = "_payment_error"
	MetaIdempotencyKey        = "_idempotency_key"
	MetaMaxAttendees          = "_max_attendees"
)

type MetaData struct {
	ID    int64  `json:"id,omitempty"`
	Key   string `json:"key"`
	Value any    `json:"value"`
}

type Address struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Address1  string `json:"address_1,omitempty"`
	Address2  string `json:"address_2,omitempty"`
	City      string `json:"city,omitempty"`
	State     string `json:"state,omitempty"`
	Postcode  string `json:"postcode,omitempty"`
	Country   string `json:"country,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

type LineItem struct {
	ID        int64      `json:"id,omitempty"`
	ProductID int64      `json:"product_id"`
	Name      string     `json:"name,omitempty"`
	Quantity  int        `json:"quantity"`
	Total     string     `json:"total,omitempty"`
	MetaData  []MetaData `json:"meta_data,omitempty"`
}

type Order struct {
	ID                 int64      `json:"id"`
	Status             string     `json:"status"`
	Currency           string     `json:"currency"`
	Total              string     `json:"total"`
	PaymentMethod      string     `json:"payment_method"`
	PaymentMethodTitle string     `json:"payment_method_title,omitempty"`
	TransactionID      string     `json:"transaction_id"`
	Billing            Address    `json:"billing"`
	Shipping           Address    `json:"shipping"`
	LineItems          []LineItem `json:"line_items"`
	MetaData           []MetaData `json:"meta_data"`
}

func (o Order) Meta(key string) string {
	for _, m := range o.MetaData {
		if m.Key == key {
			return metaValue(m.Value)
		}
	}
	return ""
}

func (o Order) TotalAmount() (float64, error) {
	total, err := decimal.NewFromString(o.Total)
	if err != nil {
		return 0, fmt.Errorf("invalid total '%s' on order %d: %s", o.Total, o.ID, err)
	}
	return total.InexactFloat64(), nil
}

type CreateOrderRequest struct {
	PaymentMethod      string     `json:"payment_method"`
	PaymentMethodTitle string     `json:"payment_method_title"`
	SetPaid            bool       `json:"set_paid"`
	Status             string     `json:"status"`
	Currency           string     `json:"currency,omitempty"`
	Billing            Address    `json:"billing"`
	Shipping           Address    `json:"shipping"`
	LineItems          []LineItem `json:"line_items"`
	MetaData           []MetaData `json:"meta_data,omitempty"`
}

// UpdateOrderRequest only carries what changes; meta entries are merged by key
type UpdateOrderRequest struct {
	Status        string     `json:"status,omitempty"`
	SetPaid       *bool      `json:"set_paid,omitempty"`
	TransactionID string     `json:"transaction_id,omitempty"`
	MetaData      []MetaData `json:"meta_data,omitempty"`
}

type OrderNote struct {
	ID           int64  `json:"id,omitempty"`
	Note         string `json:"note"`
	CustomerNote bool   `json:"customer_note"`
}

type OrderFilter struct {
	Statuses  []string
	ProductID int64
	Page      int
	PerPage   int
}

type Product struct {
	ID       int64      `json:"id"`
	Name     string     `json:"name"`
	Type     string     `json:"type,omitempty"`
	Price    string     `json:"price"`
	MetaData []MetaData `json:"meta_data"`
}

func (p Product) Meta(key string) string {
	for _, m := range p.MetaData {
		if m.Key == key {
			return metaValue(m.Value)
		}
	}
	return ""
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func metaValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return decimal.NewFromFloat(v).String()
	default:
		return fmt.Sprint(v)
	}
}

func BoolPtr(b bool) *bool {
	return &b
}
