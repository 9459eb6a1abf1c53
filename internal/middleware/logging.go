package middleware

import (
	"bytes"
	"net/http"
	"time"

	reqctx "infinite-experiment/flightvault/internal/context"
	"infinite-experiment/flightvault/internal/logging"
)

// bodies longer than this are cut in debug logs
const maxLoggedBody = 2048

type respLogger struct {
	http.ResponseWriter
	status int
	buf    *bytes.Buffer
}

func (l *respLogger) WriteHeader(code int) {
	l.status = code
	l.ResponseWriter.WriteHeader(code)
}

func (l *respLogger) Write(b []byte) (int, error) {
	if room := maxLoggedBody - l.buf.Len(); room > 0 {
		if len(b) > room {
			l.buf.Write(b[:room])
		} else {
			l.buf.Write(b)
		}
	}
	return l.ResponseWriter.Write(b)
}

// DebugLogging logs every response body. Only mounted in development.
func DebugLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lw := &respLogger{ResponseWriter: w, status: http.StatusOK, buf: &bytes.Buffer{}}

		start := time.Now()
		next.ServeHTTP(lw, r)

		logging.WithRequest(reqctx.GetRequestID(r.Context()), r.URL.Path).Debugw("Response",
			"method", r.Method,
			"query", r.URL.RawQuery,
			"status", lw.status,
			"duration", time.Since(start).String(),
			"body", lw.buf.String(),
		)
	})
}
