package myhttp

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MarcGrol/libraryshop/lib/myerrors"
	"github.com/MarcGrol/libraryshop/lib/mylog"
)

func TestResponseWriter(t *testing.T) {
	c := context.Background()
	sut := NewWriter(mylog.New("myhttp"))

	t.Run("Error response", func(t *testing.T) {
		response := httptest.NewRecorder()

		sut.WriteError(c, response, 3, myerrors.NewNotFoundError(fmt.Errorf("order 42 not found")))

		assert.Equal(t, http.StatusNotFound, response.Code)
		assert.Equal(t, "application/json", response.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"success":false,"error_code":3,"error":"status: 404, err: order 42 not found"}`, response.Body.String())
	})

	t.Run("Success response", func(t *testing.T) {
		response := httptest.NewRecorder()

		sut.Write(c, response, http.StatusOK, SuccessResponse{Message: "ok"})

		assert.Equal(t, http.StatusOK, response.Code)
		assert.JSONEq(t, `{"message":"ok"}`, response.Body.String())
	})
}

func TestDecodeJSON(t *testing.T) {
	type body struct {
		Name string `json:"name"`
	}

	t.Run("Valid", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Marc"}`))
		dest := body{}

		err := DecodeJSON(r, &dest)

		assert.NoError(t, err)
		assert.Equal(t, "Marc", dest.Name)
	})

	t.Run("Invalid", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
		dest := body{}

		err := DecodeJSON(r, &dest)

		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, myerrors.GetHTTPStatus(err))
	})
}

func TestHostnameWithScheme(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/checkout", nil)
	r.Host = "localhost:8080"

	assert.Equal(t, "http://localhost:8080", HostnameWithScheme(r))
}

func TestDecodeQuery(t *testing.T) {
	type query struct {
		OrderID int64 `form:"order_id"`
	}

	t.Run("Valid", func(t *testing.T) {
		dest := query{}

		err := DecodeQuery(httptest.NewRequest(http.MethodGet, "/checkout?order_id=1234", nil), &dest)

		assert.NoError(t, err)
		assert.Equal(t, int64(1234), dest.OrderID)
	})

	t.Run("Malformed", func(t *testing.T) {
		dest := query{}

		err := DecodeQuery(httptest.NewRequest(http.MethodGet, "/checkout?order_id=abc", nil), &dest)

		assert.Equal(t, http.StatusBadRequest, myerrors.GetHTTPStatus(err))
	})
}
