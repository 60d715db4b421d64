package booking

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/libraryshop/lib/mycontext"
	"github.com/MarcGrol/libraryshop/lib/myhttp"
	"github.com/MarcGrol/libraryshop/lib/mylog"
	"github.com/MarcGrol/libraryshop/services/orderapi"
)

type webService struct {
	logger  mylog.Logger
	service *service
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewWebService(currency string, orderSystem orderapi.OrderSystem) *webService {
	logger := mylog.New("booking")
	return &webService{
		logger:  logger,
		service: newService(logger, currency, orderSystem),
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) {
	router.HandleFunc("/api/book-event", s.availabilityPage()).Methods("GET")
	router.HandleFunc("/api/book-event", s.bookPage()).Methods("POST")
}

func (s *webService) availabilityPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		query := AvailabilityQuery{}
		err := myhttp.DecodeQuery(r, &query)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		availability, _, err := s.service.availability(c, query.ProductID)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, availability)
	}
}

func (s *webService) bookPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		req := BookingRequest{}
		err := myhttp.DecodeJSON(r, &req)
		if err != nil {
			errorWriter.WriteError(c, w, 3, err)
			return
		}

		resp, err := s.service.book(c, req)
		if err != nil {
			errorWriter.WriteError(c, w, 4, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, resp)
	}
}
