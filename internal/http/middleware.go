package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/Fandor1in/padel-miniapp/internal/apperr"
	"github.com/charmbracelet/log"
)

// Middleware defines the standard signature for an HTTP middleware.
type Middleware func(http.Handler) http.Handler

// Chain combines multiple middlewares into a single handler.
// The middlewares are applied in the order they are passed.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// contextKey is a custom type to avoid key collisions in context.
type contextKey string

const playerIDKey contextKey = "playerID"

// loggingMiddleware logs every incoming request and handles the 'verbose'
// query parameter for request-scoped debug logging.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Info("incoming request", "method", r.Method, "url", r.URL.String())
		if r.URL.Query().Get("verbose") == "true" {
			originalLevel := log.GetLevel()
			log.SetLevel(log.DebugLevel)
			defer log.SetLevel(originalLevel)
		}
		next.ServeHTTP(w, r)
	})
}

// authMiddleware resolves the caller to a player id, either from a session
// token in the Authorization header or from a raw signed init-data payload
// in X-Telegram-Init-Data. The player id lands in the request context.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		playerID, err := s.resolveCaller(r)
		if err != nil {
			writeError(w, err)
			return
		}
		ctx := context.WithValue(r.Context(), playerIDKey, playerID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) resolveCaller(r *http.Request) (string, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			return "", apperr.Unauthenticated("authorization header is not a bearer token")
		}
		playerID, err := s.Sessions.Validate(token)
		if err != nil {
			return "", apperr.Unauthenticated("invalid or expired session token")
		}
		return playerID, nil
	}

	if initData := r.Header.Get("X-Telegram-Init-Data"); initData != "" {
		if err := s.Verifier.Verify(initData); err != nil {
			return "", apperr.Unauthenticated("init data verification failed")
		}
		identity, err := s.Verifier.Parse(initData)
		if err != nil {
			return "", apperr.Unauthenticated("init data verification failed")
		}
		player, err := s.Processor.PlayerByTelegramID(r.Context(), identity.UserID)
		if err != nil {
			return "", err
		}
		return player.ID, nil
	}

	return "", apperr.Unauthenticated("missing credentials")
}

// playerIDFromContext retrieves the authenticated player id set by
// authMiddleware.
func playerIDFromContext(r *http.Request) string {
	playerID, _ := r.Context().Value(playerIDKey).(string)
	return playerID
}
