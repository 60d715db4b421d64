package checkout

import (
	"time"

	"github.com/MarcGrol/libraryshop/services/cart"
)

type CheckoutRequest struct {
	// CartUID refers to a stored cart, used when the request carries no cart itself
	CartUID        string            `json:"cart_uid,omitempty"`
	Cart           cart.Cart         `json:"cart"`
	Customer       cart.CustomerInfo `json:"customer"`
	Payment        PaymentInfo       `json:"payment"`
	IdempotencyKey string            `json:"idempotency_key,omitempty"`
}

// PaymentInfo carries the one-time card token collected by the browser
type PaymentInfo struct {
	Token    string `json:"token" validate:"required"`
	SaveCard bool   `json:"save_card,omitempty"`
}

type CheckoutResponse struct {
	Success      bool   `json:"success"`
	OrderID      int64  `json:"order_id,omitempty"`
	ChargeID     string `json:"charge_id,omitempty"`
	RedirectURL  string `json:"redirect_url,omitempty"`
	AuthorizeURI string `json:"authorize_uri,omitempty"`
	Error        string `json:"error,omitempty"`
	FailureCode  string `json:"failure_code,omitempty"`
}

type OrderStatusQuery struct {
	OrderID int64 `form:"order_id"`
}

type OrderStatusResponse struct {
	OrderID       int64  `json:"order_id"`
	Status        string `json:"status"`
	Total         string `json:"total"`
	Currency      string `json:"currency"`
	PaymentMethod string `json:"payment_method"`
	TransactionID string `json:"transaction_id"`
}

type failureResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// CheckoutAttempt remembers the outcome of a checkout per idempotency key
type CheckoutAttempt struct {
	UID          string
	OrderID      int64
	CartUID      string
	Done         bool
	HTTPStatus   int
	Response     CheckoutResponse `datastore:",noindex"`
	CreatedAt    time.Time
	LastModified *time.Time
}

type outcome struct {
	status   int
	response CheckoutResponse
}
