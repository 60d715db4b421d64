package myhttp

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/form/v4"

	"github.com/MarcGrol/libraryshop/lib/mycontext"
	"github.com/MarcGrol/libraryshop/lib/myerrors"
	"github.com/MarcGrol/libraryshop/lib/mylog"
)

func HostnameWithScheme(r *http.Request) string {
	scheme := "https"
	if r.TLS == nil {
		scheme = "http"
	}

	return fmt.Sprintf("%s://%s", scheme, r.Host)
}

// DecodeJSON parses the request-body into dest and reports failures as invalid input
func DecodeJSON(r *http.Request, dest interface{}) error {
	if r.Body == nil {
		return myerrors.NewInvalidInputErrorf("missing request body")
	}
	err := render.DecodeJSON(r.Body, dest)
	if err != nil {
		return myerrors.NewInvalidInputErrorf("error parsing request body: %s", err)
	}
	return nil
}

var queryDecoder = form.NewDecoder()

// DecodeQuery parses the query-string into dest using the "form" struct tags
func DecodeQuery(r *http.Request, dest interface{}) error {
	err := queryDecoder.Decode(dest, r.URL.Query())
	if err != nil {
		return myerrors.NewInvalidInputErrorf("error parsing query parameters: %s", err)
	}
	return nil
}

// AccessLog logs every request with its final status and duration
func AccessLog(logger mylog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			started := time.Now()

			defer func() {
				logger.Log(mycontext.ContextFromHTTPRequest(r), mycontext.RequestIDFromContext(r.Context()), mylog.SeverityInfo,
					"%s %s -> %d (%d bytes, %s)", r.Method, r.URL.Path, ww.Status(), ww.BytesWritten(), time.Since(started))
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
