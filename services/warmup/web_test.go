package warmup

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
)

func TestWarmup(t *testing.T) {

	t.Run("All dependencies ready", func(t *testing.T) {
		// setup
		router := mux.NewRouter()
		NewService(map[string]Check{
			"redis": func(c context.Context) error { return nil },
		}).RegisterEndpoints(context.Background(), router)

		// when
		response := call(router)

		// then
		assert.Equal(t, http.StatusOK, response.Code)
		assert.JSONEq(t, `{"message":"Successfully processed warmup request"}`, response.Body.String())
	})

	t.Run("Dependency not ready", func(t *testing.T) {
		// setup
		router := mux.NewRouter()
		NewService(map[string]Check{
			"redis": func(c context.Context) error { return fmt.Errorf("connection refused") },
		}).RegisterEndpoints(context.Background(), router)

		// when
		response := call(router)

		// then
		assert.Equal(t, http.StatusServiceUnavailable, response.Code)
		assert.Contains(t, response.Body.String(), "redis not ready: connection refused")
	})

	t.Run("Every failing dependency is reported", func(t *testing.T) {
		// setup
		router := mux.NewRouter()
		NewService(map[string]Check{
			"redis":     func(c context.Context) error { return fmt.Errorf("connection refused") },
			"datastore": func(c context.Context) error { return fmt.Errorf("deadline exceeded") },
			"pubsub":    func(c context.Context) error { return nil },
		}).RegisterEndpoints(context.Background(), router)

		// when
		response := call(router)

		// then
		assert.Equal(t, http.StatusServiceUnavailable, response.Code)
		assert.Contains(t, response.Body.String(), "datastore not ready: deadline exceeded; redis not ready: connection refused")
		assert.NotContains(t, response.Body.String(), "pubsub")
	})
}

func call(router *mux.Router) *httptest.ResponseRecorder {
	request, _ := http.NewRequest(http.MethodGet, "/_ah/warmup", nil)
	response := httptest.NewRecorder()
	router.ServeHTTP(response, request)
	return response
}
