package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/ZurcLeo/melzao-sub000/internal/auth"
	"github.com/ZurcLeo/melzao-sub000/internal/domain"
	"github.com/ZurcLeo/melzao-sub000/internal/game"
)

// WSHandler is the push façade: every socket of a host subscribes to that
// host's session events, so multiple dashboard tabs stay in sync.
type WSHandler struct {
	registry *game.Registry
	auth     *auth.Service
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(registry *game.Registry, authSvc *auth.Service, logger *slog.Logger) *WSHandler {
	return &WSHandler{
		registry: registry,
		auth:     authSvc,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type timeUpPayload struct {
	CorrectAnswer string `json:"correctAnswer"`
}

// ServeWS upgrades the connection, resolves the host identity from the query
// token and wires the socket into the session operations. First contact
// lazily creates the host's session with default configuration.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	identity, err := h.auth.Identify(r.URL.Query().Get("token"))
	if err != nil {
		http.Error(w, "invalid or missing token", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("ws upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	session := h.registry.GetOrCreate(r.Context(), identity.HostID)
	updates, cancel := session.Subscribe()
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	// Single writer goroutine; gorilla connections do not allow concurrent writes.
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.logger.Debug("ws write error", "host", identity.HostID, "error", err)
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case event, ok := <-updates:
				if !ok {
					return
				}
				msg := translateEvent(event)
				select {
				case send <- msg:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		h.dispatch(r, identity, inbound, send)
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

// translateEvent maps a session event to the socket wire shape. Time-up
// carries only the reveal; the snapshot follows as its own game-state event.
func translateEvent(event game.Event) outboundMessage[any] {
	if event.Type == game.EventTimeUp {
		return outboundMessage[any]{Type: game.EventTimeUp, Payload: timeUpPayload{CorrectAnswer: event.CorrectAnswer}}
	}
	return outboundMessage[any]{Type: game.EventState, Payload: event.Snapshot}
}

func (h *WSHandler) dispatch(r *http.Request, identity domain.Identity, inbound inboundMessage, send chan<- outboundMessage[any]) {
	ctx := r.Context()
	fail := func(err error) {
		code, _ := codeFor(err)
		send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Code: code, Message: err.Error()}}
	}

	switch inbound.Type {
	case "add-participant":
		var payload struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil || payload.Name == "" {
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Code: "INVALID_REQUEST", Message: "name is required"}}
			return
		}
		session := h.registry.GetOrCreate(ctx, identity.HostID)
		participant, err := session.AddParticipant(ctx, payload.Name, identity.Role == domain.RoleAdmin)
		if err != nil {
			fail(err)
			return
		}
		send <- outboundMessage[any]{Type: "participant-added", Payload: participant}

	case "start-game":
		var payload struct {
			ParticipantID string `json:"participantId"`
		}
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Code: "INVALID_REQUEST", Message: "invalid start payload"}}
			return
		}
		session, ok := h.registry.Get(identity.HostID)
		if !ok {
			fail(domain.ErrSessionNotFound)
			return
		}
		participant, question, err := session.Start(ctx, payload.ParticipantID)
		if err != nil {
			fail(err)
			return
		}
		send <- outboundMessage[any]{Type: "round-started", Payload: map[string]any{
			"participant": participant,
			"question":    question,
		}}

	case "submit-answer":
		var payload struct {
			ParticipantID string `json:"participantId"`
			Answer        string `json:"answer"`
		}
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Code: "INVALID_REQUEST", Message: "invalid answer payload"}}
			return
		}
		session, ok := h.registry.Get(identity.HostID)
		if !ok {
			fail(domain.ErrSessionNotFound)
			return
		}
		outcome, err := session.SubmitAnswer(ctx, payload.ParticipantID, payload.Answer)
		if err != nil {
			fail(err)
			return
		}
		send <- outboundMessage[any]{Type: "answer-result", Payload: outcome}

	case "quit":
		var payload struct {
			ParticipantID string `json:"participantId"`
		}
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Code: "INVALID_REQUEST", Message: "invalid quit payload"}}
			return
		}
		session, ok := h.registry.Get(identity.HostID)
		if !ok {
			fail(domain.ErrSessionNotFound)
			return
		}
		earned, err := session.Quit(ctx, payload.ParticipantID)
		if err != nil {
			fail(err)
			return
		}
		send <- outboundMessage[any]{Type: "round-quit", Payload: map[string]int{"finalEarnings": earned}}

	case "end-session":
		ended := h.registry.End(ctx, identity.HostID, game.ReasonHostEnd)
		send <- outboundMessage[any]{Type: "session-ended", Payload: map[string]bool{"ended": ended}}

	default:
		send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Code: "INVALID_REQUEST", Message: "unsupported message type"}}
	}
}
