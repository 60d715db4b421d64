package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MarcGrol/libraryshop/lib/mystore"
	"github.com/MarcGrol/libraryshop/lib/myuuid"
)

func TestCartWebService(t *testing.T) {

	t.Run("Get empty cart", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		router, _, _ := setup(t, ctrl)

		// when
		response := call(router, http.MethodGet, "/api/cart/abc", "")

		// then
		assert.Equal(t, http.StatusOK, response.Code)
		assert.JSONEq(t, `{"items":[],"total":0,"currency":"THB"}`, response.Body.String())
	})

	t.Run("Add item", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		router, uuider, repo := setup(t, ctrl)

		// given
		uuider.EXPECT().Create().Return("item-1").Times(2)

		// when
		_ = call(router, http.MethodPost, "/api/cart/abc/items", `{"product_id":11,"name":"Thai cookbook","price":450.5,"quantity":1}`)
		response := call(router, http.MethodPost, "/api/cart/abc/items", `{"product_id":11,"name":"Thai cookbook","price":450.5,"quantity":2}`)

		// then
		assert.Equal(t, http.StatusOK, response.Code)
		cart := parseCart(t, response)
		assert.Len(t, cart.Items, 1)
		assert.Equal(t, 3, cart.Items[0].Quantity)
		assert.InDelta(t, 1351.5, cart.Total, 0.0001)

		stored, _ := repo.Load(context.Background(), "abc")
		assert.Equal(t, cart, stored)
	})

	t.Run("Add invalid item", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		router, _, _ := setup(t, ctrl)

		// when
		response := call(router, http.MethodPost, "/api/cart/abc/items", `{"product_id":11,"name":"Thai cookbook","price":450.5,"quantity":0}`)

		// then
		assert.Equal(t, http.StatusBadRequest, response.Code)
		assert.Contains(t, response.Body.String(), "field quantity must be greater than 0")
	})

	t.Run("Update and remove item", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		router, _, repo := setup(t, ctrl)

		// given
		_ = repo.Save(context.Background(), "abc", cartWithBook())

		// when
		response := call(router, http.MethodPut, "/api/cart/abc/items/item-1", `{"quantity":5}`)

		// then
		assert.Equal(t, http.StatusOK, response.Code)
		assert.Equal(t, 5, parseCart(t, response).Items[0].Quantity)

		// when
		response = call(router, http.MethodDelete, "/api/cart/abc/items/item-1", "")

		// then
		assert.Equal(t, http.StatusOK, response.Code)
		assert.True(t, parseCart(t, response).IsEmpty())
	})

	t.Run("Update unknown item", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		router, _, _ := setup(t, ctrl)

		// when
		response := call(router, http.MethodPut, "/api/cart/abc/items/unknown", `{"quantity":5}`)

		// then
		assert.Equal(t, http.StatusNotFound, response.Code)
	})

	t.Run("Put and get customer", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		router, _, _ := setup(t, ctrl)

		// when
		response := call(router, http.MethodPut, "/api/cart/abc/customer", `{"first_name":"Somchai","last_name":"Jaidee","email":"somchai@example.com"}`)

		// then
		assert.Equal(t, http.StatusOK, response.Code)

		// when
		response = call(router, http.MethodGet, "/api/cart/abc/customer", "")

		// then
		assert.Equal(t, http.StatusOK, response.Code)
		assert.JSONEq(t, `{"first_name":"Somchai","last_name":"Jaidee","email":"somchai@example.com"}`, response.Body.String())
	})

	t.Run("Put invalid customer", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		router, _, _ := setup(t, ctrl)

		// when
		response := call(router, http.MethodPut, "/api/cart/abc/customer", `{"first_name":"Somchai","last_name":"Jaidee","email":"nope"}`)

		// then
		assert.Equal(t, http.StatusBadRequest, response.Code)
		assert.Contains(t, response.Body.String(), "field email is not a valid email")
	})

	t.Run("Clear cart", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		router, _, repo := setup(t, ctrl)

		// given
		_ = repo.Save(context.Background(), "abc", cartWithBook())
		_ = repo.SaveCustomer(context.Background(), "abc", customer)

		// when
		response := call(router, http.MethodDelete, "/api/cart/abc", "")

		// then
		assert.Equal(t, http.StatusOK, response.Code)
		assert.True(t, parseCart(t, response).IsEmpty())
		loaded, _ := repo.LoadCustomer(context.Background(), "abc")
		assert.Equal(t, CustomerInfo{}, loaded)
	})

	t.Run("Concurrent adds to the same cart are all kept", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		router, uuider, repo := setup(t, ctrl)
		const buyers = 20

		// given
		var created atomic.Int32
		uuider.EXPECT().Create().DoAndReturn(func() string {
			return fmt.Sprintf("item-%d", created.Add(1))
		}).Times(buyers)

		// when
		wg := sync.WaitGroup{}
		for i := 1; i <= buyers; i++ {
			wg.Add(1)
			go func(productID int) {
				defer wg.Done()
				response := call(router, http.MethodPost, "/api/cart/shared/items", fmt.Sprintf(`{"product_id":%d,"name":"Book %d","price":10,"quantity":1}`, productID, productID))
				assert.Equal(t, http.StatusOK, response.Code)
			}(i)
		}
		wg.Wait()

		// then
		stored, err := repo.Load(context.Background(), "shared")
		assert.NoError(t, err)
		assert.Len(t, stored.Items, buyers)
		assert.InDelta(t, 200.0, stored.Total, 0.0001)
	})

	t.Run("Cart storage unavailable", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		c := context.Background()
		repo := NewMockRepository(ctrl)
		router := mux.NewRouter()
		NewWebService(myuuid.NewMockUUIDer(ctrl), repo).RegisterEndpoints(c, router)

		// given
		repo.EXPECT().Load(gomock.Any(), "abc").Return(Cart{}, fmt.Errorf("redis down"))
		repo.EXPECT().Update(gomock.Any(), "abc", gomock.Any()).Return(Cart{}, fmt.Errorf("redis down"))

		// when
		getResponse := call(router, http.MethodGet, "/api/cart/abc", "")
		addResponse := call(router, http.MethodPost, "/api/cart/abc/items", `{"product_id":11,"name":"Thai cookbook","price":450.5,"quantity":1}`)

		// then
		assert.Equal(t, http.StatusInternalServerError, getResponse.Code)
		assert.Equal(t, http.StatusInternalServerError, addResponse.Code)
	})
}

func setup(t *testing.T, ctrl *gomock.Controller) (*mux.Router, *myuuid.MockUUIDer, Repository) {
	c := context.Background()
	store, _, _ := mystore.NewInMemoryStore[Snapshot](c)
	repo := NewStoreRepository(store, "THB")
	uuider := myuuid.NewMockUUIDer(ctrl)

	router := mux.NewRouter()
	NewWebService(uuider, repo).RegisterEndpoints(c, router)

	return router, uuider, repo
}

func call(router *mux.Router, method string, url string, body string) *httptest.ResponseRecorder {
	request, _ := http.NewRequest(method, url, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	response := httptest.NewRecorder()
	router.ServeHTTP(response, request)
	return response
}

func parseCart(t *testing.T, response *httptest.ResponseRecorder) Cart {
	cart := Cart{}
	err := json.Unmarshal(response.Body.Bytes(), &cart)
	assert.NoError(t, err)
	return cart
}
