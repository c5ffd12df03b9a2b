package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrewsflike/officemessenger/internal/cache"
	"github.com/andrewsflike/officemessenger/internal/config"
	"github.com/andrewsflike/officemessenger/internal/hub"
	"github.com/andrewsflike/officemessenger/internal/ident"
	"github.com/andrewsflike/officemessenger/internal/registry"
	"github.com/andrewsflike/officemessenger/internal/repository"
	"github.com/andrewsflike/officemessenger/internal/service"
)

func newTestServer(t *testing.T) (*httptest.Server, registry.Registry) {
	t.Helper()

	wsCfg := config.WebSocketConfig{
		PingInterval:   30 * time.Second,
		PongWait:       60 * time.Second,
		WriteWait:      10 * time.Second,
		MaxMessageSize: 4096,
	}

	reg := registry.NewMemoryRegistry(ident.NewParticipantIDGenerator())
	repo := repository.NewMemoryMessageRepository()
	wsHub := hub.NewHub()

	messageSvc := service.NewMessageService(repo, cache.NewNoopHistoryCache(), reg, wsHub, ident.NewUUIDGenerator(), zerolog.Nop())
	presenceSvc := service.NewPresenceService(reg, messageSvc, wsHub, zerolog.Nop())

	mux := http.NewServeMux()
	NewWSHandler(wsHub, presenceSvc, messageSvc, wsCfg).RegisterRoutes(mux)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, reg
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) map[string]interface{} {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err, "waiting for server event")

	var event map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &event))
	return event
}

func send(t *testing.T, conn *websocket.Conn, event interface{}) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(event))
}

func TestChatSessionLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)

	// Alice connects and immediately receives the (empty) history.
	alice := dial(t, srv)
	evt := readEvent(t, alice)
	require.Equal(t, "message_history", evt["type"])
	assert.Empty(t, evt["messages"])

	// Alice names herself and learns her own 8-hex participant id.
	send(t, alice, map[string]string{"type": "set_username", "username": "Alice"})
	evt = readEvent(t, alice)
	require.Equal(t, "user_joined", evt["type"])
	aliceID, _ := evt["userId"].(string)
	require.Len(t, aliceID, 8)
	users := evt["users"].([]interface{})
	require.Len(t, users, 1)
	first := users[0].(map[string]interface{})
	assert.Equal(t, aliceID, first["id"])
	assert.Equal(t, "Alice", first["name"])

	// Bob connects and names himself; both now see a two-entry roster.
	bob := dial(t, srv)
	evt = readEvent(t, bob)
	require.Equal(t, "message_history", evt["type"])

	send(t, bob, map[string]string{"type": "set_username", "username": "Bob"})
	bobJoined := readEvent(t, bob)
	require.Equal(t, "user_joined", bobJoined["type"])
	bobID, _ := bobJoined["userId"].(string)
	require.Len(t, bobID, 8)
	require.Len(t, bobJoined["users"].([]interface{}), 2)

	aliceView := readEvent(t, alice)
	require.Equal(t, "user_joined", aliceView["type"])
	assert.Nil(t, aliceView["userId"], "only the namer learns its own id")
	require.Len(t, aliceView["users"].([]interface{}), 2)

	// Alice broadcasts; both receive the identical message.
	send(t, alice, map[string]string{"type": "send_message", "username": "Alice", "message": "hello all"})
	forAlice := readEvent(t, alice)
	forBob := readEvent(t, bob)
	require.Equal(t, "new_message", forAlice["type"])
	assert.Equal(t, forAlice["id"], forBob["id"])
	assert.Equal(t, "hello all", forBob["text"])
	assert.Equal(t, forAlice["timestamp"], forBob["timestamp"])

	// Alice messages Bob directly; each observes exactly one delivery.
	send(t, alice, map[string]string{"type": "send_private_message", "toUserId": bobID, "message": "hey bob"})
	dmAlice := readEvent(t, alice)
	dmBob := readEvent(t, bob)
	require.Equal(t, "new_private_message", dmAlice["type"])
	require.Equal(t, "new_private_message", dmBob["type"])
	assert.Equal(t, aliceID, dmBob["fromUserId"])
	assert.Equal(t, "Alice", dmBob["user"])
	assert.Equal(t, "hey bob", dmBob["text"])

	// Bob asks for the conversation; only he gets the replay.
	send(t, bob, map[string]string{"type": "load_private_history", "withUserId": aliceID})
	hist := readEvent(t, bob)
	require.Equal(t, "private_history", hist["type"])
	assert.Equal(t, aliceID, hist["withUserId"])
	require.Len(t, hist["messages"].([]interface{}), 1)

	// Bob leaves; Alice's roster shrinks back to herself.
	bob.Close()
	left := readEvent(t, alice)
	require.Equal(t, "user_left", left["type"])
	users = left["users"].([]interface{})
	require.Len(t, users, 1)
	assert.Equal(t, "Alice", users[0].(map[string]interface{})["name"])
}

func TestMalformedAndInvalidFramesAreDropped(t *testing.T) {
	srv, _ := newTestServer(t)

	conn := dial(t, srv)
	readEvent(t, conn) // message_history

	// None of these may produce a response or kill the connection.
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	send(t, conn, map[string]string{"type": "bogus_event"})
	send(t, conn, map[string]string{"type": "set_username", "username": ""})
	send(t, conn, map[string]string{"type": "send_message", "username": "Ghost", "message": ""})
	send(t, conn, map[string]string{"type": "send_private_message", "toUserId": "cafebabe", "message": "hi"})

	// The session still works afterwards.
	send(t, conn, map[string]string{"type": "set_username", "username": "Survivor"})
	evt := readEvent(t, conn)
	require.Equal(t, "user_joined", evt["type"])
	assert.NotEmpty(t, evt["userId"])
}

func TestDirectMessagePersistsForOfflineRecipient(t *testing.T) {
	srv, reg := newTestServer(t)

	// Bob shows up just long enough to get an id, then leaves.
	bob := dial(t, srv)
	readEvent(t, bob)
	send(t, bob, map[string]string{"type": "set_username", "username": "Bob"})
	bobID := readEvent(t, bob)["userId"].(string)
	bob.Close()

	// Wait for the server to process the disconnect so the roster is clean
	// before Alice shows up.
	require.Eventually(t, func() bool { return len(reg.Roster()) == 0 }, 2*time.Second, 10*time.Millisecond)

	alice := dial(t, srv)
	readEvent(t, alice)
	send(t, alice, map[string]string{"type": "set_username", "username": "Alice"})
	readEvent(t, alice) // user_joined

	// Bob is gone; the message persists and only Alice sees the echo.
	send(t, alice, map[string]string{"type": "send_private_message", "toUserId": bobID, "message": "you there?"})
	echo := readEvent(t, alice)
	require.Equal(t, "new_private_message", echo["type"])

	send(t, alice, map[string]string{"type": "load_private_history", "withUserId": bobID})
	hist := readEvent(t, alice)
	require.Equal(t, "private_history", hist["type"])
	messages := hist["messages"].([]interface{})
	require.Len(t, messages, 1)
	assert.Equal(t, "you there?", messages[0].(map[string]interface{})["text"])
}
