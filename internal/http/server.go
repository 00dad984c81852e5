package http

import (
	"net/http"

	"github.com/Fandor1in/padel-miniapp/internal/auth"
	"github.com/Fandor1in/padel-miniapp/internal/config"
	"github.com/Fandor1in/padel-miniapp/internal/metrics"
	"github.com/Fandor1in/padel-miniapp/internal/processor"
	"github.com/Fandor1in/padel-miniapp/internal/telegram"
	"github.com/rs/cors"
)

func NewServer(cfg config.Config, proc *processor.Processor, verifier telegram.Verifier, sessions *auth.Sessions, metricsSvc metrics.Metrics, metricsHandler http.Handler) *Server {
	server := &Server{
		Processor:      proc,
		Verifier:       verifier,
		Sessions:       sessions,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Router:         http.NewServeMux(),
	}

	server.routes()

	// The Mini App is served from Telegram's webview, so every API call is
	// cross-origin.
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Telegram-Init-Data"},
	})
	server.handler = corsHandler.Handler(server.Router)
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// Routes that act on behalf of a player additionally go through
	// authMiddleware, which resolves the caller to a player id.
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(s.HealthCheckHandler(), loggingMiddleware))

	s.Router.Handle("POST /api/auth", Chain(s.AuthHandler(), loggingMiddleware))
	s.Router.Handle("GET /api/me", Chain(s.MeHandler(), loggingMiddleware, s.authMiddleware))
	s.Router.Handle("GET /api/players", Chain(s.ListPlayersHandler(), loggingMiddleware))
	s.Router.Handle("GET /api/pairs", Chain(s.ListPairsHandler(), loggingMiddleware))
	s.Router.Handle("GET /api/matches", Chain(s.ListMatchesHandler(), loggingMiddleware))
	s.Router.Handle("GET /api/matches/{id}", Chain(s.GetMatchHandler(), loggingMiddleware))
	s.Router.Handle("POST /api/matches", Chain(s.ReportMatchHandler(), loggingMiddleware, s.authMiddleware))
	s.Router.Handle("POST /api/matches/{id}/confirm", Chain(s.ConfirmMatchHandler(), loggingMiddleware, s.authMiddleware))
	s.Router.Handle("POST /api/matches/{id}/reject", Chain(s.RejectMatchHandler(), loggingMiddleware, s.authMiddleware))
	s.Router.Handle("POST /api/matches/{id}/dispute", Chain(s.DisputeMatchHandler(), loggingMiddleware, s.authMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}
