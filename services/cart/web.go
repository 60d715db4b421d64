package cart

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/libraryshop/lib/mycontext"
	"github.com/MarcGrol/libraryshop/lib/myhttp"
	"github.com/MarcGrol/libraryshop/lib/mylog"
	"github.com/MarcGrol/libraryshop/lib/myuuid"
)

type webService struct {
	logger  mylog.Logger
	service *service
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewWebService(uuider myuuid.UUIDer, repository Repository) *webService {
	logger := mylog.New("cart")
	return &webService{
		logger:  logger,
		service: newService(logger, uuider, repository),
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) {
	router.HandleFunc("/api/cart/{cartUID}", s.getCartPage()).Methods("GET")
	router.HandleFunc("/api/cart/{cartUID}", s.clearCartPage()).Methods("DELETE")
	router.HandleFunc("/api/cart/{cartUID}/items", s.addItemPage()).Methods("POST")
	router.HandleFunc("/api/cart/{cartUID}/items/{itemUID}", s.updateItemPage()).Methods("PUT")
	router.HandleFunc("/api/cart/{cartUID}/items/{itemUID}", s.removeItemPage()).Methods("DELETE")
	router.HandleFunc("/api/cart/{cartUID}/customer", s.getCustomerPage()).Methods("GET")
	router.HandleFunc("/api/cart/{cartUID}/customer", s.putCustomerPage()).Methods("PUT")
}

func (s *webService) getCartPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		cart, err := s.service.getCart(c, mux.Vars(r)["cartUID"])
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, cart)
	}
}

func (s *webService) clearCartPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		cart, err := s.service.clearCart(c, mux.Vars(r)["cartUID"])
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, cart)
	}
}

func (s *webService) addItemPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		req := AddItemRequest{}
		err := myhttp.DecodeJSON(r, &req)
		if err != nil {
			errorWriter.WriteError(c, w, 3, err)
			return
		}

		cart, err := s.service.addItem(c, mux.Vars(r)["cartUID"], req)
		if err != nil {
			errorWriter.WriteError(c, w, 4, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, cart)
	}
}

func (s *webService) updateItemPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		req := UpdateItemRequest{}
		err := myhttp.DecodeJSON(r, &req)
		if err != nil {
			errorWriter.WriteError(c, w, 5, err)
			return
		}

		cart, err := s.service.updateItem(c, mux.Vars(r)["cartUID"], mux.Vars(r)["itemUID"], req.Quantity)
		if err != nil {
			errorWriter.WriteError(c, w, 6, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, cart)
	}
}

func (s *webService) removeItemPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		cart, err := s.service.removeItem(c, mux.Vars(r)["cartUID"], mux.Vars(r)["itemUID"])
		if err != nil {
			errorWriter.WriteError(c, w, 7, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, cart)
	}
}

func (s *webService) getCustomerPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		customer, err := s.service.getCustomer(c, mux.Vars(r)["cartUID"])
		if err != nil {
			errorWriter.WriteError(c, w, 8, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, customer)
	}
}

func (s *webService) putCustomerPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		req := CustomerInfo{}
		err := myhttp.DecodeJSON(r, &req)
		if err != nil {
			errorWriter.WriteError(c, w, 9, err)
			return
		}

		customer, err := s.service.putCustomer(c, mux.Vars(r)["cartUID"], req)
		if err != nil {
			errorWriter.WriteError(c, w, 10, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, customer)
	}
}
