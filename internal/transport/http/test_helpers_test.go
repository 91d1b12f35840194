package http

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/jobdeck/presence-server/internal/auth"
	"github.com/jobdeck/presence-server/internal/config"
	"github.com/jobdeck/presence-server/internal/core"
	"github.com/jobdeck/presence-server/internal/proto"
	"github.com/jobdeck/presence-server/internal/store/sqlite"
)

// Schema applied manually instead of reusing the store's migration path,
// so tests control exactly what exists.
const testSchema = `
CREATE TABLE users (
	id           TEXT PRIMARY KEY,
	display_name TEXT NOT NULL,
	avatar_ref   TEXT NOT NULL DEFAULT '',
	job_category TEXT NOT NULL DEFAULT '',
	created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE messages (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	room_key      TEXT NOT NULL,
	sender_id     TEXT NOT NULL,
	sender_name   TEXT NOT NULL,
	sender_avatar TEXT NOT NULL DEFAULT '',
	body          TEXT NOT NULL,
	created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

func startTestServer(t *testing.T, seed func(*sql.DB) error, mutate func(*config.Config)) *httptest.Server {
	t.Helper()

	st, err := sqlite.NewWithSetup(":memory:", func(db *sql.DB) error {
		if _, err := db.Exec(testSchema); err != nil {
			return err
		}
		if seed != nil {
			return seed(db)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("create store: %v", err)
	}

	cfg := config.Default()
	cfg.Addr = ":0"
	if mutate != nil {
		mutate(&cfg)
	}

	registry := core.NewRegistry()
	rooms := core.NewRooms()
	notifier := core.NewNotifier(registry, rooms, st)
	dispatcher := core.NewDispatcher(registry, rooms, st, st, notifier, cfg.HistoryLimit)

	logger := zerolog.Nop()
	server := NewServer(dispatcher, notifier, rooms, cfg, &logger)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(func() {
		ts.Close()
		st.Close()
	})
	return ts
}

func seedJobSeekers(db *sql.DB) error {
	_, err := db.Exec(`
		INSERT INTO users (id, display_name, avatar_ref, job_category) VALUES
			('u1', 'Alice', 'avatars/alice.png', 'Engineer'),
			('u2', 'Bob',   '',                  'Engineer'),
			('u3', 'Carol', '',                  'Designer');
	`)
	return err
}

func dialWS(t *testing.T, ctx context.Context, ts *httptest.Server) *websocket.Conn {
	t.Helper()

	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial ws: %v", err)
	}
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "done") })
	return conn
}

func sendInbound(t *testing.T, ctx context.Context, conn *websocket.Conn, typ string, data any) {
	t.Helper()

	payload, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal %s payload: %v", typ, err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: typ, Data: payload}); err != nil {
		t.Fatalf("write %s: %v", typ, err)
	}
}

type outboundEnvelope struct {
	Type  string          `json:"type"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
	Error *proto.Error    `json:"error"`
}

// readUntilEvent drains the connection until the named event arrives.
func readUntilEvent(t *testing.T, ctx context.Context, conn *websocket.Conn, event string) json.RawMessage {
	t.Helper()

	for i := 0; i < 32; i++ {
		var out outboundEnvelope
		if err := wsjson.Read(ctx, conn, &out); err != nil {
			t.Fatalf("read waiting for %s: %v", event, err)
		}
		if out.Type == proto.OutboundTypeEvent && out.Event == event {
			return out.Data
		}
	}
	t.Fatalf("event %s never arrived", event)
	return nil
}

// wsjsonReadQuiet reads one envelope without failing the test; used to
// assert that nothing arrives within a deadline.
func wsjsonReadQuiet(ctx context.Context, conn *websocket.Conn, v any) error {
	return wsjson.Read(ctx, conn, v)
}

func mustIdentifyToken(t *testing.T, secret, userID string) string {
	t.Helper()

	token, err := auth.GenerateToken(&auth.JWTConfig{Secret: []byte(secret)}, userID, time.Hour)
	if err != nil {
		t.Fatalf("generate identify token: %v", err)
	}
	return token
}

func readError(t *testing.T, ctx context.Context, conn *websocket.Conn) *proto.Error {
	t.Helper()

	for i := 0; i < 32; i++ {
		var out outboundEnvelope
		if err := wsjson.Read(ctx, conn, &out); err != nil {
			t.Fatalf("read waiting for error: %v", err)
		}
		if out.Type == proto.OutboundTypeError {
			return out.Error
		}
	}
	t.Fatalf("error envelope never arrived")
	return nil
}
