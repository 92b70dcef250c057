package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Recovery turns a handler panic into a JSON 500. http.ErrAbortHandler is
// re-raised so the server can drop the connection.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(rec)
			}

			zerolog.Ctx(r.Context()).Error().
				Str("panic", fmt.Sprint(rec)).
				Bytes("stack", debug.Stack()).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("panic recovered")

			details := ""
			if id := chimiddleware.GetReqID(r.Context()); id != "" {
				details = "request " + id
			}
			writeJSONError(w, http.StatusInternalServerError, "internal server error", details)
		}()

		next.ServeHTTP(w, r)
	})
}
