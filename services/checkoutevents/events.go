package checkoutevents

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/MarcGrol/libraryshop/lib/myerrors"
	"github.com/MarcGrol/libraryshop/lib/myevents"
)

const (
	TopicName              = "checkout"
	checkoutStartedName    = TopicName + ".started"
	checkoutCompletedName  = TopicName + ".completed"
	checkoutReconciledName = TopicName + ".reconciled"
)

type CheckoutEventHandler interface {
	OnCheckoutStarted(c context.Context, topic string, event CheckoutStarted) error
	OnCheckoutCompleted(c context.Context, topic string, event CheckoutCompleted) error
	OnCheckoutReconciled(c context.Context, topic string, event CheckoutReconciled) error
}

func DispatchEvent(c context.Context, reader io.Reader, handler CheckoutEventHandler) error {
	envelope, err := myevents.ParseEventEnvelope(reader)
	if err != nil {
		return myerrors.NewInvalidInputError(err)
	}

	switch envelope.EventTypeName {
	case checkoutStartedName:
		{
			event := CheckoutStarted{}
			err := json.Unmarshal([]byte(envelope.EventPayload), &event)
			if err != nil {
				return myerrors.NewInvalidInputError(err)
			}
			return handler.OnCheckoutStarted(c, envelope.Topic, event)
		}
	case checkoutCompletedName:
		{
			event := CheckoutCompleted{}
			err := json.Unmarshal([]byte(envelope.EventPayload), &event)
			if err != nil {
				return myerrors.NewInvalidInputError(err)
			}
			return handler.OnCheckoutCompleted(c, envelope.Topic, event)
		}
	case checkoutReconciledName:
		{
			event := CheckoutReconciled{}
			err := json.Unmarshal([]byte(envelope.EventPayload), &event)
			if err != nil {
				return myerrors.NewInvalidInputError(err)
			}
			return handler.OnCheckoutReconciled(c, envelope.Topic, event)
		}
	default:
		return myerrors.NewNotImplementedError(fmt.Errorf("unsupported event %s", envelope.EventTypeName))
	}
}

type CheckoutStarted struct {
	OrderID        int64
	CartUID        string
	IdempotencyKey string
	Amount         int64
	Currency       string
	Email          string
}

func (e CheckoutStarted) GetEventTypeName() string {
	return checkoutStartedName
}

func (e CheckoutStarted) GetAggregateName() string {
	return strconv.FormatInt(e.OrderID, 10)
}

// CheckoutCompleted is emitted once the orchestrator knows the outcome of the charge
type CheckoutCompleted struct {
	OrderID      int64
	ChargeID     string
	ChargeStatus string
	OrderStatus  string
	Success      bool
}

func (e CheckoutCompleted) GetEventTypeName() string {
	return checkoutCompletedName
}

func (e CheckoutCompleted) GetAggregateName() string {
	return strconv.FormatInt(e.OrderID, 10)
}

// CheckoutReconciled is emitted when a webhook really changed the status of an order
type CheckoutReconciled struct {
	OrderID    int64
	ChargeID   string
	FromStatus string
	ToStatus   string
}

func (e CheckoutReconciled) GetEventTypeName() string {
	return checkoutReconciledName
}

func (e CheckoutReconciled) GetAggregateName() string {
	return strconv.FormatInt(e.OrderID, 10)
}
