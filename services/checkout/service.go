package checkout

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/MarcGrol/libraryshop/lib/myerrors"
	"github.com/MarcGrol/libraryshop/lib/myevents"
	"github.com/MarcGrol/libraryshop/lib/myhttpclient"
	"github.com/MarcGrol/libraryshop/lib/mylog"
	"github.com/MarcGrol/libraryshop/lib/mypublisher"
	"github.com/MarcGrol/libraryshop/lib/mypubsub"
	"github.com/MarcGrol/libraryshop/lib/mystore"
	"github.com/MarcGrol/libraryshop/lib/mytime"
	"github.com/MarcGrol/libraryshop/lib/myvalidation"
	"github.com/MarcGrol/libraryshop/services/cart"
	"github.com/MarcGrol/libraryshop/services/checkoutevents"
	"github.com/MarcGrol/libraryshop/services/omise"
	"github.com/MarcGrol/libraryshop/services/orderapi"
)

const (
	defaultChargeTimeout = 15 * time.Second

	msgOrderCreationFailed   = "Failed to create order"
	msgPaymentRejected       = "Payment was rejected. Please check your card details or try a different payment method."
	msgPaymentFailed         = "Payment failed"
	msgPaymentErrorPrefix    = "Payment processing failed: "
	msgCheckoutInProgress    = "Checkout already in progress"
	msgCheckoutNotRegistered = "Failed to register checkout"
	msgCartUnavailable       = "Failed to load cart"
	msgInvalidOrderID        = "Invalid order id"
	msgOrderLookupFailed     = "Failed to retrieve order"
)

type Settings struct {
	BaseURL             string
	MinimumChargeAmount int64
	ChargeTimeout       time.Duration
}

type service struct {
	settings    Settings
	logger      mylog.Logger
	nower       mytime.Nower
	orderSystem orderapi.OrderSystem
	gateway     omise.Gateway
	carts       cart.Repository
	attempts    mystore.Store[CheckoutAttempt]
	publisher   mypublisher.Publisher
	subscriber  mypubsub.PubSub
	inflight    singleflight.Group
}

// Use dependency injection to isolate the infrastructure and easy testing
func newService(settings Settings, logger mylog.Logger, nower mytime.Nower, orderSystem orderapi.OrderSystem, gateway omise.Gateway,
	carts cart.Repository, attempts mystore.Store[CheckoutAttempt], publisher mypublisher.Publisher, subscriber mypubsub.PubSub) *service {
	if settings.ChargeTimeout == 0 {
		settings.ChargeTimeout = defaultChargeTimeout
	}
	return &service{
		settings:    settings,
		logger:      logger,
		nower:       nower,
		orderSystem: orderSystem,
		gateway:     gateway,
		carts:       carts,
		attempts:    attempts,
		publisher:   publisher,
		subscriber:  subscriber,
	}
}

func (s *service) checkout(c context.Context, req CheckoutRequest) outcome {
	req, err := s.completeFromStoredCart(c, req)
	if err != nil {
		s.logger.Log(c, req.CartUID, mylog.SeverityError, "Error loading cart %s: %s", req.CartUID, err)
		return failure(http.StatusInternalServerError, msgCartUnavailable)
	}

	err = myvalidation.Validate(req)
	if err != nil {
		s.logger.Log(c, req.CartUID, mylog.SeverityInfo, "Rejected checkout: %s", err)
		return failure(http.StatusBadRequest, myerrors.Message(err))
	}

	if req.IdempotencyKey == "" {
		return s.process(c, req)
	}

	// concurrent duplicates within this process share a single result; one of them
	// hanging up must not cancel the run the others wait for
	shared := context.WithoutCancel(c)
	result, _, _ := s.inflight.Do(req.IdempotencyKey, func() (interface{}, error) {
		return s.processOnce(shared, req), nil
	})
	return result.(outcome)
}

func (s *service) completeFromStoredCart(c context.Context, req CheckoutRequest) (CheckoutRequest, error) {
	if req.CartUID == "" {
		return req, nil
	}

	if len(req.Cart.Items) == 0 {
		stored, err := s.carts.Load(c, req.CartUID)
		if err != nil {
			return req, err
		}
		req.Cart = stored
	}

	if req.Customer.Email == "" {
		stored, err := s.carts.LoadCustomer(c, req.CartUID)
		if err != nil {
			return req, err
		}
		req.Customer = stored
	}

	return req, nil
}

func (s *service) processOnce(c context.Context, req CheckoutRequest) outcome {
	key := req.IdempotencyKey

	var previous *CheckoutAttempt
	err := s.attempts.RunInTransaction(c, func(c context.Context) error {
		attempt, found, err := s.attempts.Get(c, key)
		if err != nil {
			return err
		}
		if found {
			previous = &attempt
			return nil
		}
		return s.attempts.Put(c, key, CheckoutAttempt{
			UID:       key,
			CartUID:   req.CartUID,
			CreatedAt: s.nower.Now(),
		})
	})
	if err != nil {
		s.logger.Log(c, key, mylog.SeverityError, "Error registering checkout attempt %s: %s", key, err)
		return failure(http.StatusInternalServerError, msgCheckoutNotRegistered)
	}

	if previous != nil {
		if previous.Done {
			s.logger.Log(c, key, mylog.SeverityInfo, "Replaying outcome of checkout %s for order %d", key, previous.OrderID)
			return outcome{status: previous.HTTPStatus, response: previous.Response}
		}
		s.logger.Log(c, key, mylog.SeverityWarn, "Checkout %s is still being processed", key)
		return failure(http.StatusConflict, msgCheckoutInProgress)
	}

	result := s.process(c, req)

	if result.response.OrderID == 0 {
		// no order was created: a retry must be able to start over
		err = s.attempts.Delete(c, key)
		if err != nil {
			s.logger.Log(c, key, mylog.SeverityError, "Error removing checkout attempt %s: %s", key, err)
		}
		return result
	}

	now := s.nower.Now()
	err = s.attempts.Put(c, key, CheckoutAttempt{
		UID:          key,
		OrderID:      result.response.OrderID,
		CartUID:      req.CartUID,
		Done:         true,
		HTTPStatus:   result.status,
		Response:     result.response,
		CreatedAt:    now,
		LastModified: &now,
	})
	if err != nil {
		s.logger.Log(c, key, mylog.SeverityError, "Error storing outcome of checkout attempt %s: %s", key, err)
	}

	return result
}

func (s *service) process(c context.Context, req CheckoutRequest) outcome {
	order, err := s.orderSystem.CreateOrder(c, orderapi.NewOrderRequest(req.Cart, req.Customer, req.IdempotencyKey))
	if err != nil {
		s.logger.Log(c, req.CartUID, mylog.SeverityError, "Error creating order: %s", err)
		return failure(http.StatusInternalServerError, msgOrderCreationFailed)
	}
	orderUID := strconv.FormatInt(order.ID, 10)

	amount := s.chargeAmount(c, order, req.Cart)
	currency := order.Currency
	if currency == "" {
		currency = req.Cart.Currency
	}

	s.publish(c, orderUID, checkoutevents.CheckoutStarted{
		OrderID:        order.ID,
		CartUID:        req.CartUID,
		IdempotencyKey: req.IdempotencyKey,
		Amount:         amount,
		Currency:       currency,
		Email:          req.Customer.Email,
	})

	customerID := ""
	if req.Payment.SaveCard {
		customerID = s.createCustomer(c, order, req.Customer)
	}

	charge, err := s.charge(c, omise.ChargeRequest{
		Amount:      amount,
		Currency:    strings.ToLower(currency),
		Card:        req.Payment.Token,
		Customer:    customerID,
		Description: fmt.Sprintf("Order #%d", order.ID),
		Metadata: map[string]any{
			omise.MetaOrderID:       orderUID,
			omise.MetaCustomerEmail: req.Customer.Email,
			omise.MetaOrderTotal:    order.Total,
		},
		ReturnURI: fmt.Sprintf("%s/checkout/pending?order_id=%d", strings.TrimSuffix(s.settings.BaseURL, "/"), order.ID),
	})

	meta := []orderapi.MetaData{}
	if charge.ID != "" {
		meta = append(meta, orderapi.MetaData{Key: orderapi.MetaChargeID, Value: charge.ID})
	}
	if customerID != "" {
		meta = append(meta, orderapi.MetaData{Key: orderapi.MetaCustomerID, Value: customerID})
	}

	var orderStatus string
	var result outcome
	switch {
	case err != nil && myhttpclient.IsTimeout(err):
		s.logger.Log(c, orderUID, mylog.SeverityWarn, "Charge for order %d timed out, final status will arrive by webhook: %s", order.ID, err)
		charge.Status = omise.ChargeStatusPending
		orderStatus, result = s.onPending(c, order, charge, meta)
	case err != nil:
		charge.Status = "error"
		orderStatus, result = s.onChargeError(c, order, err, meta)
	case charge.Status == omise.ChargeStatusSuccessful:
		orderStatus, result = s.onSuccess(c, order, charge, meta, req.CartUID)
	case charge.Status == omise.ChargeStatusPending:
		orderStatus, result = s.onPending(c, order, charge, meta)
	default:
		orderStatus, result = s.onDeclined(c, order, charge, meta)
	}

	s.publish(c, orderUID, checkoutevents.CheckoutCompleted{
		OrderID:      order.ID,
		ChargeID:     charge.ID,
		ChargeStatus: charge.Status,
		OrderStatus:  orderStatus,
		Success:      result.response.Success,
	})

	return result
}

// chargeAmount prefers the total computed by the order system over the client-side cart
func (s *service) chargeAmount(c context.Context, order orderapi.Order, shoppingCart cart.Cart) int64 {
	total, err := order.TotalAmount()
	if err != nil || total <= 0 {
		total = cart.CalculateTotal(shoppingCart.Items)
	}

	amount := omise.ToMinorUnits(total, s.settings.MinimumChargeAmount)
	if exact := omise.ToMinorUnits(total, 0); exact < amount {
		s.logger.Log(c, strconv.FormatInt(order.ID, 10), mylog.SeverityWarn,
			"Total of order %d is %d, below the minimum charge: charging %d instead", order.ID, exact, amount)
	}
	return amount
}

func (s *service) createCustomer(c context.Context, order orderapi.Order, customer cart.CustomerInfo) string {
	customerID, err := s.gateway.CreateCustomer(c, customer.Email,
		fmt.Sprintf("%s %s", customer.FirstName, customer.LastName),
		map[string]any{omise.MetaOrderID: strconv.FormatInt(order.ID, 10)})
	if err != nil {
		s.logger.Log(c, strconv.FormatInt(order.ID, 10), mylog.SeverityWarn, "Error saving card of %s, continuing without: %s", customer.Email, err)
		return ""
	}
	return customerID
}

func (s *service) charge(c context.Context, req omise.ChargeRequest) (omise.Charge, error) {
	c, cancel := context.WithTimeout(c, s.settings.ChargeTimeout)
	defer cancel()

	return s.gateway.CreateCharge(c, req)
}

func (s *service) onSuccess(c context.Context, order orderapi.Order, charge omise.Charge, meta []orderapi.MetaData, cartUID string) (string, outcome) {
	s.updateOrder(c, order.ID, orderapi.UpdateOrderRequest{
		Status:        orderapi.StatusProcessing,
		SetPaid:       orderapi.BoolPtr(true),
		TransactionID: charge.ID,
		MetaData:      meta,
	})

	if cartUID != "" {
		err := s.carts.Clear(c, cartUID)
		if err != nil {
			s.logger.Log(c, cartUID, mylog.SeverityWarn, "Error clearing cart %s: %s", cartUID, err)
		}
	}

	return orderapi.StatusProcessing, outcome{
		status: http.StatusOK,
		response: CheckoutResponse{
			Success:     true,
			OrderID:     order.ID,
			ChargeID:    charge.ID,
			RedirectURL: redirectURL("/checkout/success", order.ID, charge.ID),
		},
	}
}

func (s *service) onPending(c context.Context, order orderapi.Order, charge omise.Charge, meta []orderapi.MetaData) (string, outcome) {
	meta = append(meta, orderapi.MetaData{Key: orderapi.MetaPaymentStatus, Value: omise.ChargeStatusPending})

	// the webhook may already have moved the order further
	current, err := s.orderSystem.GetOrder(c, order.ID)
	if err != nil {
		s.logger.Log(c, strconv.FormatInt(order.ID, 10), mylog.SeverityError, "Error re-reading order %d: %s", order.ID, err)
	} else if !orderapi.CanTransition(current.Status, orderapi.StatusOnHold) {
		s.logger.Log(c, strconv.FormatInt(order.ID, 10), mylog.SeverityInfo, "Order %d already %s: not moving it to %s", order.ID, current.Status, orderapi.StatusOnHold)
	} else {
		s.updateOrder(c, order.ID, orderapi.UpdateOrderRequest{
			Status:   orderapi.StatusOnHold,
			MetaData: meta,
		})
	}

	return orderapi.StatusOnHold, outcome{
		status: http.StatusOK,
		response: CheckoutResponse{
			Success:      true,
			OrderID:      order.ID,
			ChargeID:     charge.ID,
			RedirectURL:  redirectURL("/checkout/pending", order.ID, charge.ID),
			AuthorizeURI: charge.AuthorizeURI,
		},
	}
}

func (s *service) onDeclined(c context.Context, order orderapi.Order, charge omise.Charge, meta []orderapi.MetaData) (string, outcome) {
	s.logger.Log(c, strconv.FormatInt(order.ID, 10), mylog.SeverityInfo, "Charge %s for order %d is %s: %s %s",
		charge.ID, order.ID, charge.Status, charge.FailureCode, charge.FailureMessage)

	if charge.FailureCode != "" {
		meta = append(meta, orderapi.MetaData{Key: orderapi.MetaPaymentFailureCode, Value: charge.FailureCode})
	}
	if charge.FailureMessage != "" {
		meta = append(meta, orderapi.MetaData{Key: orderapi.MetaPaymentFailureMessage, Value: charge.FailureMessage})
	}
	s.updateOrder(c, order.ID, orderapi.UpdateOrderRequest{
		Status:   orderapi.StatusFailed,
		MetaData: meta,
	})

	return orderapi.StatusFailed, outcome{
		status: http.StatusBadRequest,
		response: CheckoutResponse{
			Success:     false,
			OrderID:     order.ID,
			ChargeID:    charge.ID,
			Error:       declineMessage(charge),
			FailureCode: charge.FailureCode,
		},
	}
}

func (s *service) onChargeError(c context.Context, order orderapi.Order, chargeErr error, meta []orderapi.MetaData) (string, outcome) {
	s.logger.Log(c, strconv.FormatInt(order.ID, 10), mylog.SeverityError, "Error charging order %d: %s", order.ID, chargeErr)

	message := myerrors.Message(chargeErr)
	meta = append(meta, orderapi.MetaData{Key: orderapi.MetaPaymentError, Value: message})
	s.updateOrder(c, order.ID, orderapi.UpdateOrderRequest{
		Status:   orderapi.StatusFailed,
		MetaData: meta,
	})

	return orderapi.StatusFailed, outcome{
		status: http.StatusInternalServerError,
		response: CheckoutResponse{
			Success: false,
			OrderID: order.ID,
			Error:   msgPaymentErrorPrefix + message,
		},
	}
}

// updateOrder only logs: the webhook will bring the order in sync
func (s *service) updateOrder(c context.Context, orderID int64, req orderapi.UpdateOrderRequest) {
	_, err := s.orderSystem.UpdateOrder(c, orderID, req)
	if err != nil {
		s.logger.Log(c, strconv.FormatInt(orderID, 10), mylog.SeverityError, "Error updating order %d to %s: %s", orderID, req.Status, err)
	}
}

func (s *service) publish(c context.Context, orderUID string, event myevents.Event) {
	err := s.publisher.Publish(c, checkoutevents.TopicName, event)
	if err != nil {
		s.logger.Log(c, orderUID, mylog.SeverityError, "Error publishing %s: %s", event.GetEventTypeName(), err)
	}
}

func (s *service) orderStatus(c context.Context, orderID int64) (int, interface{}) {
	if orderID <= 0 {
		return http.StatusBadRequest, failureResponse{Success: false, Error: msgInvalidOrderID}
	}

	order, err := s.orderSystem.GetOrder(c, orderID)
	if err != nil {
		s.logger.Log(c, strconv.FormatInt(orderID, 10), mylog.SeverityError, "Error fetching order %d: %s", orderID, err)
		return http.StatusInternalServerError, failureResponse{Success: false, Error: msgOrderLookupFailed}
	}

	return http.StatusOK, OrderStatusResponse{
		OrderID:       order.ID,
		Status:        order.Status,
		Total:         order.Total,
		Currency:      order.Currency,
		PaymentMethod: order.PaymentMethod,
		TransactionID: order.TransactionID,
	}
}

func declineMessage(charge omise.Charge) string {
	if charge.FailureCode == omise.FailureCodePaymentRejected {
		return msgPaymentRejected
	}
	if charge.FailureMessage != "" {
		return charge.FailureMessage
	}
	return msgPaymentFailed
}

func redirectURL(path string, orderID int64, chargeID string) string {
	target := fmt.Sprintf("%s?order_id=%d", path, orderID)
	if chargeID != "" {
		target += "&charge_id=" + url.QueryEscape(chargeID)
	}
	return target
}

func failure(status int, message string) outcome {
	return outcome{
		status:   status,
		response: CheckoutResponse{Success: false, Error: message},
	}
}
