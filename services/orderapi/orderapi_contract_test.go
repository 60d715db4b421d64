package orderapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarcGrol/libraryshop/lib/myerrors"
	"github.com/MarcGrol/libraryshop/lib/myhttpclient"
)

var (
	cookbook = Product{ID: 11, Name: "Thai cookbook", Price: "450.50"}
	workshop = Product{ID: 22, Name: "Reading workshop", Type: "simple", Price: "200.00", MetaData: []MetaData{{ID: 1, Key: MetaMaxAttendees, Value: "20"}}}
)

func TestFakeOrderSystem(t *testing.T) {
	OrderSystemContract{
		orderSystem: func(t *testing.T) OrderSystem {
			return newFakeWithProducts(t)
		},
	}.Test(t)
}

func TestOrderClient(t *testing.T) {
	OrderSystemContract{
		orderSystem: func(t *testing.T) OrderSystem {
			server := httptest.NewServer(newEmulator(t, newFakeWithProducts(t)))
			t.Cleanup(server.Close)

			return NewClient(server.URL+"/", myhttpclient.New(myhttpclient.Options{
				Name:     "orders",
				Username: "ck_test",
				Password: "cs_test",
			}))
		},
	}.Test(t)

	t.Run("Upstream failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"code":"internal_error","message":"database down"}`))
		}))
		defer server.Close()
		sut := NewClient(server.URL, myhttpclient.New(myhttpclient.Options{Name: "orders"}))

		_, err := sut.GetOrder(context.Background(), 1000)

		assert.Error(t, err)
		assert.Equal(t, http.StatusInternalServerError, myerrors.GetHTTPStatus(err))
		assert.Contains(t, err.Error(), "database down (internal_error)")
	})

	t.Run("Order without id", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"status":"pending"}`))
		}))
		defer server.Close()
		sut := NewClient(server.URL, myhttpclient.New(myhttpclient.Options{Name: "orders"}))

		_, err := sut.CreateOrder(context.Background(), CreateOrderRequest{})

		assert.Error(t, err)
	})
}

func newFakeWithProducts(t *testing.T) *FakeOrderSystem {
	fake := NewFakeOrderSystem()
	require.NoError(t, fake.AddProduct(context.Background(), cookbook))
	require.NoError(t, fake.AddProduct(context.Background(), workshop))
	return fake
}

type OrderSystemContract struct {
	orderSystem func(t *testing.T) OrderSystem
}

func (oc OrderSystemContract) Test(t *testing.T) {
	c := context.Background()
	createRequest := CreateOrderRequest{
		PaymentMethod: PaymentMethod,
		Status:        StatusPending,
		Currency:      "THB",
		Billing:       Address{FirstName: "Somchai", LastName: "Jaidee", Email: "somchai@example.com"},
		LineItems:     []LineItem{{ProductID: cookbook.ID, Quantity: 2}},
		MetaData:      []MetaData{{Key: MetaIdempotencyKey, Value: "idem-1"}},
	}

	t.Run("Create, get and update an order", func(t *testing.T) {
		sut := oc.orderSystem(t)

		created, err := sut.CreateOrder(c, createRequest)
		require.NoError(t, err)
		assert.NotZero(t, created.ID)
		assert.Equal(t, StatusPending, created.Status)
		assert.Equal(t, "901.00", created.Total)
		assert.Equal(t, "idem-1", created.Meta(MetaIdempotencyKey))

		got, err := sut.GetOrder(c, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created, got)

		updated, err := sut.UpdateOrder(c, created.ID, UpdateOrderRequest{
			Status:        StatusProcessing,
			SetPaid:       BoolPtr(true),
			TransactionID: "chrg_test_1",
			MetaData:      []MetaData{{Key: MetaChargeID, Value: "chrg_test_1"}},
		})
		require.NoError(t, err)
		assert.Equal(t, StatusProcessing, updated.Status)
		assert.Equal(t, "chrg_test_1", updated.TransactionID)
		assert.Equal(t, "chrg_test_1", updated.Meta(MetaChargeID))
		assert.Equal(t, "idem-1", updated.Meta(MetaIdempotencyKey))
	})

	t.Run("Order does not exist", func(t *testing.T) {
		sut := oc.orderSystem(t)

		_, err := sut.GetOrder(c, 999999)
		assert.True(t, myerrors.IsNotFound(err))

		err = sut.AddOrderNote(c, 999999, "hello", false)
		assert.True(t, myerrors.IsNotFound(err))
	})

	t.Run("Unknown product is rejected", func(t *testing.T) {
		sut := oc.orderSystem(t)

		_, err := sut.CreateOrder(c, CreateOrderRequest{LineItems: []LineItem{{ProductID: 777, Quantity: 1}}})
		assert.Error(t, err)
	})

	t.Run("Add note", func(t *testing.T) {
		sut := oc.orderSystem(t)
		created, err := sut.CreateOrder(c, createRequest)
		require.NoError(t, err)

		err = sut.AddOrderNote(c, created.ID, "Payment received via webhook", false)
		assert.NoError(t, err)
	})

	t.Run("List orders on status and product", func(t *testing.T) {
		sut := oc.orderSystem(t)
		first, err := sut.CreateOrder(c, CreateOrderRequest{Currency: "THB", LineItems: []LineItem{{ProductID: workshop.ID, Quantity: 3}}})
		require.NoError(t, err)
		_, err = sut.CreateOrder(c, CreateOrderRequest{Currency: "THB", LineItems: []LineItem{{ProductID: cookbook.ID, Quantity: 1}}})
		require.NoError(t, err)
		_, err = sut.UpdateOrder(c, first.ID, UpdateOrderRequest{Status: StatusOnHold})
		require.NoError(t, err)

		onHold, err := sut.ListOrders(c, OrderFilter{Statuses: []string{StatusOnHold, StatusProcessing}, ProductID: workshop.ID})
		require.NoError(t, err)
		assert.Len(t, onHold, 1)
		assert.Equal(t, first.ID, onHold[0].ID)

		all, err := sut.ListOrders(c, OrderFilter{})
		require.NoError(t, err)
		assert.Len(t, all, 2)

		secondPage, err := sut.ListOrders(c, OrderFilter{Page: 2, PerPage: 1})
		require.NoError(t, err)
		assert.Len(t, secondPage, 1)
	})

	t.Run("Get product", func(t *testing.T) {
		sut := oc.orderSystem(t)

		product, err := sut.GetProduct(c, workshop.ID)
		require.NoError(t, err)
		assert.Equal(t, "20", product.Meta(MetaMaxAttendees))

		_, err = sut.GetProduct(c, 777)
		assert.True(t, myerrors.IsNotFound(err))
	})
}

// newEmulator exposes the fake through the order system REST API
func newEmulator(t *testing.T, fake *FakeOrderSystem) http.Handler {
	router := mux.NewRouter()
	api := router.PathPrefix(apiPath).Subrouter()
	api.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, password, ok := r.BasicAuth()
			if !ok || username != "ck_test" || password != "cs_test" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	})

	reply := func(w http.ResponseWriter, status int, resp any, err error) {
		if err != nil {
			status = myerrors.GetHTTPStatus(err)
			resp = errorResponse{Code: "emulated", Message: err.Error()}
		}
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(resp)
	}
	pathID := func(r *http.Request, name string) int64 {
		id, _ := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
		return id
	}

	api.HandleFunc("/orders", func(w http.ResponseWriter, r *http.Request) {
		req := CreateOrderRequest{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		order, err := fake.CreateOrder(r.Context(), req)
		reply(w, http.StatusCreated, order, err)
	}).Methods("POST")
	api.HandleFunc("/orders", func(w http.ResponseWriter, r *http.Request) {
		filter := OrderFilter{}
		if status := r.URL.Query().Get("status"); status != "" {
			filter.Statuses = strings.Split(status, ",")
		}
		filter.ProductID, _ = strconv.ParseInt(r.URL.Query().Get("product"), 10, 64)
		filter.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
		filter.PerPage, _ = strconv.Atoi(r.URL.Query().Get("per_page"))
		orders, err := fake.ListOrders(r.Context(), filter)
		reply(w, http.StatusOK, orders, err)
	}).Methods("GET")
	api.HandleFunc("/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		order, err := fake.GetOrder(r.Context(), pathID(r, "id"))
		reply(w, http.StatusOK, order, err)
	}).Methods("GET")
	api.HandleFunc("/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		req := UpdateOrderRequest{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		order, err := fake.UpdateOrder(r.Context(), pathID(r, "id"), req)
		reply(w, http.StatusOK, order, err)
	}).Methods("PUT")
	api.HandleFunc("/orders/{id}/notes", func(w http.ResponseWriter, r *http.Request) {
		note := OrderNote{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&note))
		err := fake.AddOrderNote(r.Context(), pathID(r, "id"), note.Note, note.CustomerNote)
		reply(w, http.StatusCreated, note, err)
	}).Methods("POST")
	api.HandleFunc("/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		product, err := fake.GetProduct(r.Context(), pathID(r, "id"))
		reply(w, http.StatusOK, product, err)
	}).Methods("GET")

	return router
}
