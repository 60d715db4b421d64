package checkout

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/MarcGrol/libraryshop/lib/myerrors"
	"github.com/MarcGrol/libraryshop/lib/mylog"
	"github.com/MarcGrol/libraryshop/lib/mystore"
	"github.com/MarcGrol/libraryshop/services/checkoutevents"
	"github.com/MarcGrol/libraryshop/services/orderapi"
)

const cartCleanupSubscription = "checkout-cart-cleanup"

func (s *service) Subscribe(c context.Context) error {
	err := s.subscriber.Subscribe(c, checkoutevents.TopicName, cartCleanupSubscription, strings.TrimSuffix(s.settings.BaseURL, "/")+"/checkout/event")
	if err != nil {
		return fmt.Errorf("error subscribing to topic %s: %s", checkoutevents.TopicName, err)
	}

	return nil
}

func (s *service) OnCheckoutStarted(c context.Context, topic string, event checkoutevents.CheckoutStarted) error {
	return nil
}

func (s *service) OnCheckoutCompleted(c context.Context, topic string, event checkoutevents.CheckoutCompleted) error {
	return nil
}

// OnCheckoutReconciled clears the cart of a checkout whose payment got confirmed afterwards
func (s *service) OnCheckoutReconciled(c context.Context, topic string, event checkoutevents.CheckoutReconciled) error {
	if event.ToStatus != orderapi.StatusProcessing {
		return nil
	}

	attempts, err := s.attempts.Query(c, []mystore.Filter{{Field: "OrderID", Compare: "=", Value: event.OrderID}}, "")
	if err != nil {
		return myerrors.NewInternalError(fmt.Errorf("error looking up checkout of order %d: %s", event.OrderID, err))
	}

	for _, attempt := range attempts {
		if attempt.CartUID == "" {
			continue
		}
		// clearing is idempotent
		err = s.carts.Clear(c, attempt.CartUID)
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error clearing cart %s: %s", attempt.CartUID, err))
		}
		s.logger.Log(c, strconv.FormatInt(event.OrderID, 10), mylog.SeverityInfo, "Cleared cart %s of reconciled order %d", attempt.CartUID, event.OrderID)
	}

	return nil
}
