package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"text2phenotype.com/morph/logger"
)

var defaultLogger = logger.NewLogger("API")

type endpointLoggerFields struct {
	Method string `json:"method"`
	Url    string `json:"url"`
}

const (
	RequestInfoFieldsKey = "request_info"
	RequestIDHeader      = "X-Request-Id"
)

func makeRequestLogger(request *http.Request, requestID string) zerolog.Logger {
	fields := endpointLoggerFields{
		Method: request.Method,
		Url:    request.URL.String(),
	}
	return defaultLogger.With().
		Str("request_id", requestID).
		Interface(RequestInfoFieldsKey, fields).
		Logger()
}

// withRequestLogger tags the request with an id, taken from the client when it sent one,
// and attaches a logger carrying it to the request context.
func withRequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if len(requestID) == 0 {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)
		log := makeRequestLogger(r, requestID)
		next.ServeHTTP(w, r.WithContext(log.WithContext(r.Context())))
	})
}

func requestLogger(r *http.Request) *zerolog.Logger {
	return zerolog.Ctx(r.Context())
}

func requestID(w http.ResponseWriter) string {
	return w.Header().Get(RequestIDHeader)
}
