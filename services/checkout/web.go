package checkout

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/libraryshop/lib/mycontext"
	"github.com/MarcGrol/libraryshop/lib/myerrors"
	"github.com/MarcGrol/libraryshop/lib/myhttp"
	"github.com/MarcGrol/libraryshop/lib/mylog"
	"github.com/MarcGrol/libraryshop/lib/mypublisher"
	"github.com/MarcGrol/libraryshop/lib/mypubsub"
	"github.com/MarcGrol/libraryshop/lib/mystore"
	"github.com/MarcGrol/libraryshop/lib/mytime"
	"github.com/MarcGrol/libraryshop/services/cart"
	"github.com/MarcGrol/libraryshop/services/checkoutevents"
	"github.com/MarcGrol/libraryshop/services/omise"
	"github.com/MarcGrol/libraryshop/services/orderapi"
)

type webService struct {
	logger  mylog.Logger
	service *service
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewWebService(settings Settings, nower mytime.Nower, orderSystem orderapi.OrderSystem, gateway omise.Gateway, carts cart.Repository,
	attempts mystore.Store[CheckoutAttempt], publisher mypublisher.Publisher, subscriber mypubsub.PubSub) *webService {
	logger := mylog.New("checkout")
	return &webService{
		logger:  logger,
		service: newService(settings, logger, nower, orderSystem, gateway, carts, attempts, publisher, subscriber),
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) {
	router.HandleFunc("/checkout", s.checkoutPage()).Methods("POST")
	router.HandleFunc("/checkout", s.orderStatusPage()).Methods("GET")
	router.HandleFunc("/checkout/event", s.eventPage()).Methods("POST")
}

func (s *webService) Subscribe(c context.Context) error {
	return s.service.Subscribe(c)
}

func (s *webService) checkoutPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		req := CheckoutRequest{}
		err := myhttp.DecodeJSON(r, &req)
		if err != nil {
			errorWriter.Write(c, w, http.StatusBadRequest, failureResponse{Success: false, Error: myerrors.Message(err)})
			return
		}

		result := s.service.checkout(c, req)

		errorWriter.Write(c, w, result.status, result.response)
	}
}

func (s *webService) orderStatusPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		query := OrderStatusQuery{}
		err := myhttp.DecodeQuery(r, &query)
		if err != nil {
			errorWriter.Write(c, w, http.StatusBadRequest, failureResponse{Success: false, Error: msgInvalidOrderID})
			return
		}

		status, resp := s.service.orderStatus(c, query.OrderID)

		errorWriter.Write(c, w, status, resp)
	}
}

func (s *webService) eventPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		err := checkoutevents.DispatchEvent(c, r.Body, s.service)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, myhttp.SuccessResponse{})
	}
}
