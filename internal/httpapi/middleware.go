package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/rshade/ecoquest/internal/activity"
	"github.com/rshade/ecoquest/internal/logging"
)

type statusRecorder struct {
	http.ResponseWriter

	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withTrace assigns every request a trace ID, echoes it in X-Trace-Id, puts a
// request logger on the context and logs the outcome.
func (s *Server) withTrace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		traceID := r.Header.Get(HeaderTraceID)
		if !logging.IsValidTraceID(traceID) {
			traceID = logging.GenerateTraceID()
		}
		w.Header().Set(HeaderTraceID, traceID)

		ctx := logging.ContextWithTraceID(r.Context(), traceID)
		ctx = s.logger.WithContext(ctx)
		ctx = logging.ContextWithAuditLogger(ctx, s.audit)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		s.logger.Debug().Ctx(ctx).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

func (s *Server) withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				s.logger.Error().Ctx(r.Context()).Interface("panic", v).Str("path", r.URL.Path).Msg("handler panic")
				writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// sessionFrom builds the caller's session from request headers.
func sessionFrom(r *http.Request) activity.Session {
	return activity.Session{
		UserID:   strings.TrimSpace(r.Header.Get(HeaderUser)),
		Email:    strings.TrimSpace(r.Header.Get(HeaderEmail)),
		Username: strings.TrimSpace(r.Header.Get(HeaderUsername)),
		IsAdmin:  strings.EqualFold(strings.TrimSpace(r.Header.Get(HeaderRole)), roleAdmin),
	}
}
