package api

import (
	"net/http"

	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"text2phenotype.com/morph/types"
)

type Config struct {
	Active  bool     `envconfig:"LEM_REST_API_ACTIVE" default:"false"`
	Port    string   `envconfig:"LEM_REST_API_PORT" default:"10000"`
	Rate    float64  `envconfig:"LEM_REST_API_RATE" default:"0"`
	Burst   int      `envconfig:"LEM_REST_API_BURST" default:"100"`
	Origins []string `envconfig:"LEM_REST_API_CORS_ORIGINS" default:"*"`
}

type Server struct {
	Request   *Request
	Lemmas    *Lemmas
	Languages []types.LanguageInfo
}

// NewHandler routes the API endpoints. A Rate of zero or less turns rate limiting off.
func NewHandler(server Server, cfg Config) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/lemmatize", server.Request.ProcessData)
	mux.HandleFunc("/lemma", server.Lemmas.Lemma)
	mux.HandleFunc("/lemmas", server.Lemmas.LemmaBatch)
	mux.HandleFunc("/languages", languagesHandler(server.Languages))
	mux.HandleFunc("/health", health)

	limit := rate.Inf
	if cfg.Rate > 0 {
		limit = rate.Limit(cfg.Rate)
	}
	limited := withRateLimit(rate.NewLimiter(limit, cfg.Burst), mux)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.Origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
	})
	return withRequestLogger(corsHandler.Handler(limited))
}

func withRateLimit(limiter *rate.Limiter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			writeError(w, r, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}
