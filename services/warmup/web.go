package warmup

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/libraryshop/lib/mycontext"
	"github.com/MarcGrol/libraryshop/lib/myerrors"
	"github.com/MarcGrol/libraryshop/lib/myhttp"
	"github.com/MarcGrol/libraryshop/lib/mylog"
)

// Check verifies a dependency is reachable before the instance receives traffic
type Check func(c context.Context) error

type webService struct {
	logger mylog.Logger
	checks map[string]Check
}

// Use dependency injection to isolate the infrastructure and ease testing
func NewService(checks map[string]Check) *webService {
	logger := mylog.New("warmup")
	return &webService{
		logger: logger,
		checks: checks,
	}
}

func (s webService) RegisterEndpoints(c context.Context, router *mux.Router) {
	router.HandleFunc("/_ah/warmup", s.warmupPage()).Methods("GET")
}

func (s *webService) warmupPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		names := make([]string, 0, len(s.checks))
		for name := range s.checks {
			names = append(names, name)
		}
		sort.Strings(names)

		failures := []string{}
		for _, name := range names {
			err := s.checks[name](c)
			if err != nil {
				failures = append(failures, fmt.Sprintf("%s not ready: %s", name, err))
			}
		}
		if len(failures) > 0 {
			errorWriter.WriteError(c, w, 1, myerrors.NewUnavailableError(fmt.Errorf("%s", strings.Join(failures, "; "))))
			return
		}

		errorWriter.Write(c, w, http.StatusOK, myhttp.SuccessResponse{
			Message: "Successfully processed warmup request",
		})
	}
}
