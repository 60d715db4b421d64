package omise

import (
	"context"
)

//go:generate mockgen -source=api.go -package omise -destination gateway_mock.go Gateway
type Gateway interface {
	CreateCharge(c context.Context, req ChargeRequest) (Charge, error)
	CreateCustomer(c context.Context, email string, description string, metadata map[string]any) (string, error)
}
