package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ZurcLeo/melzao-sub000/internal/auth"
	"github.com/ZurcLeo/melzao-sub000/internal/catalog"
	"github.com/ZurcLeo/melzao-sub000/internal/domain"
	"github.com/ZurcLeo/melzao-sub000/internal/game"
	"github.com/ZurcLeo/melzao-sub000/internal/infra/memory"
)

func newTestStack() (*game.Registry, *auth.Service) {
	registry := game.NewRegistry(game.RegistryConfig{
		Catalog: catalog.New(nil),
		Store:   memory.NewHistoryStore(),
		Logger:  slog.Default(),
		Defaults: domain.SessionConfig{
			HoneyMultiplier:  1,
			TimeLimitSeconds: 30,
			MaxParticipants:  10,
		},
	})
	return registry, auth.NewService("test-secret", time.Hour)
}

func TestWebSocketGameFlow(t *testing.T) {
	registry, authSvc := newTestStack()
	wsHandler := NewWSHandler(registry, authSvc, slog.Default())

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	server := httptest.NewServer(mux)
	defer server.Close()

	token, err := authSvc.GenerateToken("host-1", "")
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	u := "ws" + server.URL[len("http"):] + "/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// First contact creates the session and pushes the initial snapshot.
	msg := readUntil(conn, t, "game-state")
	var snap domain.Snapshot
	mustUnmarshal(t, msg.Payload, &snap)
	if snap.Status != domain.SessionWaiting {
		t.Fatalf("expected waiting session, got %s", snap.Status)
	}

	writeMsg(conn, t, "add-participant", map[string]any{"name": "Ana"})
	added := readUntil(conn, t, "participant-added")
	var participant domain.Participant
	mustUnmarshal(t, added.Payload, &participant)
	if participant.Name != "Ana" {
		t.Fatalf("expected Ana, got %+v", participant)
	}

	writeMsg(conn, t, "start-game", map[string]any{"participantId": participant.ID})
	started := readUntil(conn, t, "round-started")
	var round struct {
		Question domain.Question `json:"question"`
	}
	mustUnmarshal(t, started.Payload, &round)
	if round.Question.Level != 1 {
		t.Fatalf("expected level-1 question, got %d", round.Question.Level)
	}

	writeMsg(conn, t, "submit-answer", map[string]any{
		"participantId": participant.ID,
		"answer":        round.Question.CorrectAnswer,
	})
	result := readUntil(conn, t, "answer-result")
	var outcome game.AnswerOutcome
	mustUnmarshal(t, result.Payload, &outcome)
	if !outcome.Correct || outcome.NextQuestion == nil || outcome.NextQuestion.Level != 2 {
		t.Fatalf("expected correct answer with level-2 follow-up, got %+v", outcome)
	}
}

func TestWebSocketDuplicateNameError(t *testing.T) {
	registry, authSvc := newTestStack()
	wsHandler := NewWSHandler(registry, authSvc, slog.Default())

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	server := httptest.NewServer(mux)
	defer server.Close()

	token, _ := authSvc.GenerateToken("host-1", "")
	u := "ws" + server.URL[len("http"):] + "/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	writeMsg(conn, t, "add-participant", map[string]any{"name": "Ana"})
	readUntil(conn, t, "participant-added")

	writeMsg(conn, t, "add-participant", map[string]any{"name": "ana"})
	errMsg := readUntil(conn, t, "error")
	var payload errorPayload
	mustUnmarshal(t, errMsg.Payload, &payload)
	if payload.Code != "DUPLICATE_NAME" {
		t.Fatalf("expected DUPLICATE_NAME, got %+v", payload)
	}
}

func TestWebSocketRejectsBadToken(t *testing.T) {
	registry, authSvc := newTestStack()
	wsHandler := NewWSHandler(registry, authSvc, slog.Default())

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	server := httptest.NewServer(mux)
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/ws?token=garbage"
	_, resp, err := websocket.DefaultDialer.Dial(u, nil)
	if err == nil {
		t.Fatal("expected dial to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %+v", resp)
	}
}

// Two sockets of the same host observe the same broadcasts: a mutation over
// one connection shows up as a game-state push on the other.
func TestWebSocketFanOutAcrossTabs(t *testing.T) {
	registry, authSvc := newTestStack()
	wsHandler := NewWSHandler(registry, authSvc, slog.Default())

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	server := httptest.NewServer(mux)
	defer server.Close()

	token, _ := authSvc.GenerateToken("host-1", "")
	u := "ws" + server.URL[len("http"):] + "/ws?token=" + token

	actor, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial actor: %v", err)
	}
	defer actor.Close()
	spectator, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial spectator: %v", err)
	}
	defer spectator.Close()

	readUntil(spectator, t, "game-state") // initial

	writeMsg(actor, t, "add-participant", map[string]any{"name": "Ana"})

	deadline := time.Now().Add(5 * time.Second)
	for {
		if time.Now().After(deadline) {
			t.Fatal("spectator never saw the roster update")
		}
		msg := readUntil(spectator, t, "game-state")
		var snap domain.Snapshot
		mustUnmarshal(t, msg.Payload, &snap)
		if len(snap.Participants) == 1 && snap.Participants[0].Name == "Ana" {
			return
		}
	}
}

type wireMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func readUntil(conn *websocket.Conn, t *testing.T, want string) wireMessage {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for i := 0; i < 20; i++ {
		var msg wireMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read json: %v", err)
		}
		if msg.Type == want {
			return msg
		}
	}
	t.Fatalf("never received %q", want)
	return wireMessage{}
}

func writeMsg(conn *websocket.Conn, t *testing.T, msgType string, payload any) {
	t.Helper()
	if err := conn.WriteJSON(map[string]any{"type": msgType, "payload": payload}); err != nil {
		t.Fatalf("write %s: %v", msgType, err)
	}
}

func mustUnmarshal(t *testing.T, raw json.RawMessage, v any) {
	t.Helper()
	if err := json.Unmarshal(raw, v); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
}
