package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ZurcLeo/melzao-sub000/internal/auth"
	"github.com/ZurcLeo/melzao-sub000/internal/domain"
	"github.com/ZurcLeo/melzao-sub000/internal/game"
)

type contextKey string

const identityKey contextKey = "identity"

// RestHandler is the synchronous façade over the session registry. It calls
// the same operations as the WebSocket adapter; only identity resolution and
// response delivery differ.
type RestHandler struct {
	registry *game.Registry
	auth     *auth.Service
	logger   *slog.Logger
}

func NewRestHandler(registry *game.Registry, authSvc *auth.Service, logger *slog.Logger) *RestHandler {
	return &RestHandler{registry: registry, auth: authSvc, logger: logger}
}

// Routes mounts the REST surface on a chi router.
func (h *RestHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	r.Post("/auth/token", h.mintToken)

	r.Group(func(r chi.Router) {
		r.Use(h.requireIdentity)
		r.Post("/sessions", h.createSession)
		r.Route("/sessions/current", func(r chi.Router) {
			r.Get("/", h.getSession)
			r.Delete("/", h.endSession)
			r.Post("/participants", h.addParticipant)
			r.Post("/start", h.startRound)
			r.Post("/answer", h.submitAnswer)
			r.Post("/quit", h.quitRound)
		})
		r.Get("/admin/sessions", h.listSessions)
	})
	return r
}

// requireIdentity resolves the Bearer token into the caller's identity,
// exactly the way the socket adapter resolves its query token.
func (h *RestHandler) requireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token")
			return
		}
		identity, err := h.auth.Identify(parts[1])
		if err != nil {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired token")
			return
		}
		ctx := context.WithValue(r.Context(), identityKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func identityFrom(ctx context.Context) domain.Identity {
	identity, _ := ctx.Value(identityKey).(domain.Identity)
	return identity
}

func (h *RestHandler) mintToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		HostID string `json:"hostId"`
		Role   string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.HostID == "" {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "hostId is required")
		return
	}
	token, err := h.auth.GenerateToken(req.HostID, req.Role)
	if err != nil {
		h.logger.Error("token generation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "could not issue token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *RestHandler) createSession(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r.Context())

	cfg := h.registry.Defaults()
	if r.Body != nil && r.ContentLength != 0 {
		var overrides struct {
			HoneyMultiplier     *float64 `json:"honeyMultiplier"`
			TimeLimitSeconds    *int     `json:"timeLimitSeconds"`
			MaxParticipants     *int     `json:"maxParticipants"`
			CustomQuestionsOnly *bool    `json:"customQuestionsOnly"`
		}
		if err := json.NewDecoder(r.Body).Decode(&overrides); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "malformed session config")
			return
		}
		if overrides.HoneyMultiplier != nil && *overrides.HoneyMultiplier > 0 {
			cfg.HoneyMultiplier = *overrides.HoneyMultiplier
		}
		if overrides.TimeLimitSeconds != nil && *overrides.TimeLimitSeconds > 0 {
			cfg.TimeLimitSeconds = *overrides.TimeLimitSeconds
		}
		if overrides.MaxParticipants != nil && *overrides.MaxParticipants > 0 {
			cfg.MaxParticipants = *overrides.MaxParticipants
		}
		if overrides.CustomQuestionsOnly != nil {
			cfg.CustomQuestionsOnly = *overrides.CustomQuestionsOnly
		}
	}

	session, err := h.registry.Create(r.Context(), identity.HostID, &cfg)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, session.Snapshot())
}

func (h *RestHandler) getSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.registry.Get(identityFrom(r.Context()).HostID)
	if !ok {
		writeEngineError(w, domain.ErrSessionNotFound)
		return
	}
	writeJSON(w, http.StatusOK, session.Snapshot())
}

func (h *RestHandler) endSession(w http.ResponseWriter, r *http.Request) {
	ended := h.registry.End(r.Context(), identityFrom(r.Context()).HostID, game.ReasonHostEnd)
	writeJSON(w, http.StatusOK, map[string]bool{"ended": ended})
}

func (h *RestHandler) addParticipant(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r.Context())
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "name is required")
		return
	}

	session := h.registry.GetOrCreate(r.Context(), identity.HostID)
	participant, err := session.AddParticipant(r.Context(), strings.TrimSpace(req.Name), identity.Role == domain.RoleAdmin)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, participant)
}

func (h *RestHandler) startRound(w http.ResponseWriter, r *http.Request) {
	session, ok := h.registry.Get(identityFrom(r.Context()).HostID)
	if !ok {
		writeEngineError(w, domain.ErrSessionNotFound)
		return
	}
	var req struct {
		ParticipantID string `json:"participantId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ParticipantID == "" {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "participantId is required")
		return
	}
	participant, question, err := session.Start(r.Context(), req.ParticipantID)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"participant": participant,
		"question":    question,
	})
}

func (h *RestHandler) submitAnswer(w http.ResponseWriter, r *http.Request) {
	session, ok := h.registry.Get(identityFrom(r.Context()).HostID)
	if !ok {
		writeEngineError(w, domain.ErrSessionNotFound)
		return
	}
	var req struct {
		ParticipantID string `json:"participantId"`
		Answer        string `json:"answer"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ParticipantID == "" {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "participantId and answer are required")
		return
	}
	outcome, err := session.SubmitAnswer(r.Context(), req.ParticipantID, req.Answer)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

func (h *RestHandler) quitRound(w http.ResponseWriter, r *http.Request) {
	session, ok := h.registry.Get(identityFrom(r.Context()).HostID)
	if !ok {
		writeEngineError(w, domain.ErrSessionNotFound)
		return
	}
	var req struct {
		ParticipantID string `json:"participantId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ParticipantID == "" {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "participantId is required")
		return
	}
	earned, err := session.Quit(r.Context(), req.ParticipantID)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"finalEarnings": earned})
}

func (h *RestHandler) listSessions(w http.ResponseWriter, r *http.Request) {
	if identityFrom(r.Context()).Role != domain.RoleAdmin {
		writeError(w, http.StatusForbidden, "FORBIDDEN", "admin role required")
		return
	}
	writeJSON(w, http.StatusOK, h.registry.ListActive())
}

// writeEngineError maps engine sentinels to stable transport codes. The
// WebSocket adapter reuses codeFor so both paths speak the same language.
func writeEngineError(w http.ResponseWriter, err error) {
	code, status := codeFor(err)
	writeError(w, status, code, err.Error())
}

func codeFor(err error) (string, int) {
	switch {
	case errors.Is(err, domain.ErrSessionAlreadyExists):
		return "SESSION_ALREADY_EXISTS", http.StatusConflict
	case errors.Is(err, domain.ErrGameInProgress):
		return "GAME_IN_PROGRESS", http.StatusConflict
	case errors.Is(err, domain.ErrDuplicateName):
		return "DUPLICATE_NAME", http.StatusConflict
	case errors.Is(err, domain.ErrSessionBusy):
		return "SESSION_BUSY", http.StatusConflict
	case errors.Is(err, domain.ErrSessionNotActive):
		return "SESSION_NOT_ACTIVE", http.StatusConflict
	case errors.Is(err, domain.ErrNotYourTurn):
		return "NOT_YOUR_TURN", http.StatusConflict
	case errors.Is(err, domain.ErrSessionNotFound):
		return "SESSION_NOT_FOUND", http.StatusNotFound
	case errors.Is(err, domain.ErrParticipantNotFound):
		return "PARTICIPANT_NOT_FOUND", http.StatusNotFound
	case errors.Is(err, domain.ErrParticipantLimitReached):
		return "PARTICIPANT_LIMIT_REACHED", http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrNoQuestionsAvailable):
		return "NO_QUESTIONS_AVAILABLE", http.StatusUnprocessableEntity
	default:
		return "INTERNAL", http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}
