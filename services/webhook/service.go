package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/MarcGrol/libraryshop/lib/myerrors"
	"github.com/MarcGrol/libraryshop/lib/mylog"
	"github.com/MarcGrol/libraryshop/lib/mypublisher"
	"github.com/MarcGrol/libraryshop/lib/mytime"
	"github.com/MarcGrol/libraryshop/services/checkoutevents"
	"github.com/MarcGrol/libraryshop/services/omise"
	"github.com/MarcGrol/libraryshop/services/orderapi"
)

const (
	msgUnauthorized      = "Unauthorized"
	msgInvalidPayload    = "Invalid payload"
	msgMissingOrderID    = "Missing order id"
	msgOrderNotFound     = "Order not found"
	msgOrderLookupFailed = "Failed to retrieve order"
	msgOrderUpdateFailed = "Failed to update order"
	msgEndpointActive    = "Omise webhook endpoint is active"
)

type receivedResponse struct {
	Received bool `json:"received"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type livenessResponse struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// transition describes how a charge status lands on the order
type transition struct {
	status string
	update orderapi.UpdateOrderRequest
	note   string
}

type service struct {
	secret      string
	logger      mylog.Logger
	nower       mytime.Nower
	orderSystem orderapi.OrderSystem
	publisher   mypublisher.Publisher
}

// Use dependency injection to isolate the infrastructure and easy testing
func newService(secret string, logger mylog.Logger, nower mytime.Nower, orderSystem orderapi.OrderSystem, publisher mypublisher.Publisher) *service {
	return &service{
		secret:      secret,
		logger:      logger,
		nower:       nower,
		orderSystem: orderSystem,
		publisher:   publisher,
	}
}

func (s *service) receive(c context.Context, rawBody []byte, signature string) (int, interface{}) {
	if signature == "" || s.secret == "" || !omise.VerifyWebhookSignature(rawBody, signature, s.secret) {
		s.logger.Log(c, "", mylog.SeverityWarn, "Rejected webhook: signature missing or invalid")
		return http.StatusUnauthorized, errorResponse{Error: msgUnauthorized}
	}

	event := omise.WebhookEvent{}
	err := json.Unmarshal(rawBody, &event)
	if err != nil {
		s.logger.Log(c, "", mylog.SeverityWarn, "Rejected webhook: %s", err)
		return http.StatusBadRequest, errorResponse{Error: msgInvalidPayload}
	}

	if event.Object != "event" || event.DataObject() != "charge" {
		s.logger.Log(c, event.ID, mylog.SeverityInfo, "Ignoring webhook %s (%s)", event.ID, event.Key)
		return http.StatusOK, receivedResponse{Received: true}
	}

	charge, err := event.Charge()
	if err != nil {
		s.logger.Log(c, event.ID, mylog.SeverityWarn, "Rejected webhook %s: %s", event.ID, err)
		return http.StatusBadRequest, errorResponse{Error: msgInvalidPayload}
	}

	orderID, found := charge.OrderID()
	if !found {
		s.logger.Log(c, charge.ID, mylog.SeverityWarn, "Rejected webhook %s: charge %s carries no order id", event.ID, charge.ID)
		return http.StatusBadRequest, errorResponse{Error: msgMissingOrderID}
	}

	return s.reconcile(c, orderID, charge)
}

func (s *service) reconcile(c context.Context, orderID int64, charge omise.Charge) (int, interface{}) {
	orderUID := strconv.FormatInt(orderID, 10)

	order, err := s.orderSystem.GetOrder(c, orderID)
	if err != nil {
		if myerrors.IsNotFound(err) {
			s.logger.Log(c, orderUID, mylog.SeverityWarn, "Webhook for unknown order %d", orderID)
			return http.StatusNotFound, errorResponse{Error: msgOrderNotFound}
		}
		s.logger.Log(c, orderUID, mylog.SeverityError, "Error fetching order %d: %s", orderID, err)
		return http.StatusInternalServerError, errorResponse{Error: msgOrderLookupFailed}
	}

	next, known := transitionFor(charge)
	if !known {
		s.logger.Log(c, orderUID, mylog.SeverityInfo, "Ignoring charge %s with status %s", charge.ID, charge.Status)
		return http.StatusOK, receivedResponse{Received: true}
	}

	if order.Status == next.status {
		s.logger.Log(c, orderUID, mylog.SeverityInfo, "Order %d already %s", orderID, order.Status)
		return http.StatusOK, receivedResponse{Received: true}
	}
	if !orderapi.CanTransition(order.Status, next.status) {
		s.logger.Log(c, orderUID, mylog.SeverityInfo, "Not moving order %d back from %s to %s", orderID, order.Status, next.status)
		return http.StatusOK, receivedResponse{Received: true}
	}

	_, err = s.orderSystem.UpdateOrder(c, orderID, next.update)
	if err != nil {
		// a non-2xx makes the gateway retry
		s.logger.Log(c, orderUID, mylog.SeverityError, "Error updating order %d to %s: %s", orderID, next.status, err)
		return http.StatusInternalServerError, errorResponse{Error: msgOrderUpdateFailed}
	}
	s.logger.Log(c, orderUID, mylog.SeverityInfo, "Order %d: %s -> %s (charge %s)", orderID, order.Status, next.status, charge.ID)

	if next.note != "" {
		err = s.orderSystem.AddOrderNote(c, orderID, next.note, false)
		if err != nil {
			s.logger.Log(c, orderUID, mylog.SeverityWarn, "Error adding note to order %d: %s", orderID, err)
		}
	}

	err = s.publisher.Publish(c, checkoutevents.TopicName, checkoutevents.CheckoutReconciled{
		OrderID:    orderID,
		ChargeID:   charge.ID,
		FromStatus: order.Status,
		ToStatus:   next.status,
	})
	if err != nil {
		s.logger.Log(c, orderUID, mylog.SeverityError, "Error publishing reconciliation of order %d: %s", orderID, err)
	}

	return http.StatusOK, receivedResponse{Received: true}
}

func (s *service) liveness() livenessResponse {
	return livenessResponse{
		Message:   msgEndpointActive,
		Timestamp: s.nower.Now(),
	}
}

func transitionFor(charge omise.Charge) (transition, bool) {
	switch charge.Status {
	case omise.ChargeStatusSuccessful:
		return transition{
			status: orderapi.StatusProcessing,
			update: orderapi.UpdateOrderRequest{
				Status:        orderapi.StatusProcessing,
				SetPaid:       orderapi.BoolPtr(true),
				TransactionID: charge.ID,
				MetaData: []orderapi.MetaData{
					{Key: orderapi.MetaChargeID, Value: charge.ID},
					{Key: orderapi.MetaPaymentStatus, Value: charge.Status},
				},
			},
			note: fmt.Sprintf("Payment confirmed by Omise (charge %s).", charge.ID),
		}, true
	case omise.ChargeStatusFailed:
		meta := []orderapi.MetaData{
			{Key: orderapi.MetaChargeID, Value: charge.ID},
			{Key: orderapi.MetaPaymentStatus, Value: charge.Status},
		}
		if charge.FailureCode != "" {
			meta = append(meta, orderapi.MetaData{Key: orderapi.MetaPaymentFailureCode, Value: charge.FailureCode})
		}
		if charge.FailureMessage != "" {
			meta = append(meta, orderapi.MetaData{Key: orderapi.MetaPaymentFailureMessage, Value: charge.FailureMessage})
		}
		return transition{
			status: orderapi.StatusFailed,
			update: orderapi.UpdateOrderRequest{
				Status:   orderapi.StatusFailed,
				MetaData: meta,
			},
			note: fmt.Sprintf("Payment failed according to Omise (charge %s): %s %s", charge.ID, charge.FailureCode, charge.FailureMessage),
		}, true
	case omise.ChargeStatusPending:
		return transition{
			status: orderapi.StatusOnHold,
			update: orderapi.UpdateOrderRequest{
				Status: orderapi.StatusOnHold,
				MetaData: []orderapi.MetaData{
					{Key: orderapi.MetaChargeID, Value: charge.ID},
					{Key: orderapi.MetaPaymentStatus, Value: charge.Status},
				},
			},
		}, true
	default:
		return transition{}, false
	}
}
