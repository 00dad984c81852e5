package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/Fandor1in/padel-miniapp/internal/apperr"
	"github.com/Fandor1in/padel-miniapp/internal/league"
	"github.com/Fandor1in/padel-miniapp/internal/processor"
	"github.com/charmbracelet/log"
)

// errorBody is the JSON shape every failed request gets.
type errorBody struct {
	Error struct {
		Kind    string `json:"kind"`
		Message string `json:"message"`
	} `json:"error"`
}

func statusForKind(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperr.KindAuthorization:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	status := statusForKind(kind)
	if status >= 500 {
		log.Error("request failed", "kind", kind, "error", err)
	}
	var body errorBody
	body.Error.Kind = string(kind)
	body.Error.Message = apperr.Message(err)
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response", "error", err)
	}
}

func decodeBody(r *http.Request, v any) error {
	defer io.Copy(io.Discard, r.Body)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.ValidationWrap(err, "invalid request body")
	}
	return nil
}

// decodeOptionalBody is decodeBody for endpoints whose body may be absent
// entirely; a missing body leaves v at its zero value.
func decodeOptionalBody(r *http.Request, v any) error {
	defer io.Copy(io.Discard, r.Body)
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return apperr.ValidationWrap(err, "invalid request body")
}

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

// authRequest carries the raw init data; the header form is also accepted so
// the Mini App can authenticate with a bare POST.
type authRequest struct {
	InitData string `json:"init_data"`
}

type authResponse struct {
	Token  string         `json:"token"`
	Player *league.Player `json:"player"`
}

// AuthHandler exchanges a signed Telegram init-data payload for a session
// token, creating the player on first contact.
func (s *Server) AuthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initData := r.Header.Get("X-Telegram-Init-Data")
		if initData == "" {
			var req authRequest
			if err := decodeBody(r, &req); err != nil {
				writeError(w, err)
				return
			}
			initData = req.InitData
		}
		if initData == "" {
			writeError(w, apperr.Unauthenticated("missing init data"))
			return
		}

		if err := s.Verifier.Verify(initData); err != nil {
			log.Warn("Init data verification failed", "error", err)
			writeError(w, apperr.Unauthenticated("init data verification failed"))
			return
		}
		identity, err := s.Verifier.Parse(initData)
		if err != nil {
			writeError(w, apperr.Unauthenticated("init data verification failed"))
			return
		}

		player, err := s.Processor.Join(r.Context(), identity)
		if err != nil {
			writeError(w, err)
			return
		}

		token, err := s.Sessions.Issue(player.ID)
		if err != nil {
			writeError(w, apperr.Upstream(err, "issuing session token"))
			return
		}
		writeJSON(w, http.StatusOK, authResponse{Token: token, Player: player})
	}
}

func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player, err := s.Processor.GetPlayer(r.Context(), playerIDFromContext(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, player)
	}
}

func (s *Server) ListPlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := s.Processor.ListPlayers(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, players)
	}
}

func (s *Server) ListPairsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pairs, err := s.Processor.ListPairs(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, pairs)
	}
}

func (s *Server) ListMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 50
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				writeError(w, apperr.Validation("limit must be a positive integer"))
				return
			}
			limit = parsed
		}
		matches, err := s.Processor.ListMatches(r.Context(), limit)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, matches)
	}
}

func (s *Server) GetMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		match, err := s.Processor.GetMatch(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, match)
	}
}

func (s *Server) ReportMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req processor.ReportMatchRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, err)
			return
		}
		match, err := s.Processor.ReportMatch(r.Context(), playerIDFromContext(r), req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, match)
	}
}

func (s *Server) ConfirmMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		match, err := s.Processor.ConfirmMatch(r.Context(), playerIDFromContext(r), r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, match)
	}
}

type reasonRequest struct {
	Reason string `json:"reason"`
}

func (s *Server) RejectMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req reasonRequest
		if err := decodeOptionalBody(r, &req); err != nil {
			writeError(w, err)
			return
		}
		match, err := s.Processor.RejectMatch(r.Context(), playerIDFromContext(r), r.PathValue("id"), req.Reason)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, match)
	}
}

func (s *Server) DisputeMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req reasonRequest
		if err := decodeOptionalBody(r, &req); err != nil {
			writeError(w, err)
			return
		}
		match, err := s.Processor.DisputeMatch(r.Context(), playerIDFromContext(r), r.PathValue("id"), req.Reason)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, match)
	}
}
