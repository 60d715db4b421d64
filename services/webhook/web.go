package webhook

import (
	"context"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/libraryshop/lib/mycontext"
	"github.com/MarcGrol/libraryshop/lib/myhttp"
	"github.com/MarcGrol/libraryshop/lib/mylog"
	"github.com/MarcGrol/libraryshop/lib/mypublisher"
	"github.com/MarcGrol/libraryshop/lib/mytime"
	"github.com/MarcGrol/libraryshop/services/omise"
	"github.com/MarcGrol/libraryshop/services/orderapi"
)

const maxBodySize = 1 << 20

type webService struct {
	logger  mylog.Logger
	service *service
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewWebService(secret string, nower mytime.Nower, orderSystem orderapi.OrderSystem, publisher mypublisher.Publisher) *webService {
	logger := mylog.New("webhook")
	return &webService{
		logger:  logger,
		service: newService(secret, logger, nower, orderSystem, publisher),
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) {
	router.HandleFunc("/webhooks/omise", s.webhookPage()).Methods("POST")
	router.HandleFunc("/webhooks/omise", s.livenessPage()).Methods("GET")
}

func (s *webService) webhookPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		// the signature covers the exact bytes
		rawBody, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
		if err != nil {
			errorWriter.Write(c, w, http.StatusBadRequest, errorResponse{Error: msgInvalidPayload})
			return
		}

		status, resp := s.service.receive(c, rawBody, r.Header.Get(omise.SignatureHeader))

		errorWriter.Write(c, w, status, resp)
	}
}

func (s *webService) livenessPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		errorWriter.Write(c, w, http.StatusOK, s.service.liveness())
	}
}
