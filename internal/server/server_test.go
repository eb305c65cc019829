package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/flip7/internal/game"
)

type testClient struct {
	t    *testing.T
	conn *websocket.Conn
}

func startTestServer(t *testing.T, names ...string) (*Server, *httptest.Server) {
	t.Helper()
	srv := NewServer("", names, time.Minute, quartz.NewReal(), testLogger())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		srv.Stop()
		ts.Close()
	})
	return srv, ts
}

func dial(t *testing.T, ts *httptest.Server) *testClient {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return &testClient{t: t, conn: conn}
}

func (c *testClient) send(typ MessageType, data any) {
	c.t.Helper()
	msg, err := NewMessage(typ, data)
	require.NoError(c.t, err)
	require.NoError(c.t, c.conn.WriteJSON(msg))
}

// expect reads messages until one of type typ arrives and decodes it into v
func (c *testClient) expect(typ MessageType, v any) {
	c.t.Helper()
	require.NoError(c.t, c.conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		var msg Message
		require.NoError(c.t, c.conn.ReadJSON(&msg))
		if msg.Type == typ {
			if v != nil {
				require.NoError(c.t, json.Unmarshal(msg.Data, v))
			}
			return
		}
	}
}

func TestJoinSeat(t *testing.T) {
	srv, ts := startTestServer(t, "alice", "bob")

	alice := dial(t, ts)
	alice.send(MessageTypeJoin, JoinData{Name: "bob"})
	var joined JoinedData
	alice.expect(MessageTypeJoined, &joined)
	assert.Equal(t, JoinedData{Name: "bob", Seat: 1, Players: []string{"alice", "bob"}}, joined)

	seat, ok := srv.Seat("bob")
	require.True(t, ok)
	assert.True(t, seat.Occupied())

	alice.send(MessageTypeJoin, JoinData{Name: "alice"})
	var errData ErrorData
	alice.expect(MessageTypeError, &errData)
	assert.Equal(t, "already_seated", errData.Code)

	intruder := dial(t, ts)
	intruder.send(MessageTypeJoin, JoinData{Name: "bob"})
	intruder.expect(MessageTypeError, &errData)
	assert.Equal(t, "seat_taken", errData.Code)

	intruder.send(MessageTypeJoin, JoinData{Name: "carol"})
	intruder.expect(MessageTypeError, &errData)
	assert.Equal(t, "join_failed", errData.Code)

	intruder.send(MessageTypeAnswer, AnswerData{ID: "1", Answer: "h"})
	intruder.expect(MessageTypeError, &errData)
	assert.Equal(t, "not_seated", errData.Code)
}

func TestSeatFreedOnDisconnect(t *testing.T) {
	srv, ts := startTestServer(t, "alice", "bob")

	c := dial(t, ts)
	c.send(MessageTypeJoin, JoinData{Name: "alice"})
	c.expect(MessageTypeJoined, nil)
	require.NoError(t, c.conn.Close())

	seat, _ := srv.Seat("alice")
	require.Eventually(t, func() bool { return !seat.Occupied() }, 5*time.Second, 10*time.Millisecond)

	again := dial(t, ts)
	again.send(MessageTypeJoin, JoinData{Name: "alice"})
	again.expect(MessageTypeJoined, nil)
}

func TestWaitForSeats(t *testing.T) {
	srv, ts := startTestServer(t, "alice", "bob")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- srv.WaitForSeats(ctx) }()

	for _, name := range []string{"alice", "bob"} {
		c := dial(t, ts)
		c.send(MessageTypeJoin, JoinData{Name: name})
		c.expect(MessageTypeJoined, nil)
	}
	require.NoError(t, <-done)

	short, cancelShort := context.WithCancel(context.Background())
	cancelShort()
	empty := NewServer("", []string{"carol"}, time.Minute, quartz.NewReal(), testLogger())
	assert.ErrorIs(t, empty.WaitForSeats(short), context.Canceled)
}

func TestRemoteDecision(t *testing.T) {
	srv, ts := startTestServer(t, "alice", "bob")

	c := dial(t, ts)
	c.send(MessageTypeJoin, JoinData{Name: "alice"})
	c.expect(MessageTypeJoined, nil)

	seat, _ := srv.Seat("alice")
	result := decideAsync(context.Background(), seat, testPrompt())

	var ask AskData
	c.expect(MessageTypeAsk, &ask)
	assert.Equal(t, "hit or stay?", ask.Text)

	c.send(MessageTypeAnswer, AnswerData{ID: ask.ID + "0", Answer: "s"})
	var errData ErrorData
	c.expect(MessageTypeError, &errData)
	assert.Equal(t, "unexpected_answer", errData.Code)

	c.send(MessageTypeAnswer, AnswerData{ID: ask.ID, Answer: "h"})
	r := <-result
	require.NoError(t, r.err)
	assert.Equal(t, "h", r.answer)
}

func TestAnnounceAndFinish(t *testing.T) {
	srv, ts := startTestServer(t, "alice", "bob")

	c := dial(t, ts)
	c.send(MessageTypeJoin, JoinData{Name: "alice"})
	c.expect(MessageTypeJoined, nil)

	srv.Announce("Round 1 begins")
	var logData LogData
	c.expect(MessageTypeLog, &logData)
	assert.Equal(t, "Round 1 begins", logData.Text)

	srv.Finish(&game.Result{Winners: []string{"bob"}, Standings: []game.Standing{{Player: "bob", Total: 201}}})
	var over GameOverData
	c.expect(MessageTypeGameOver, &over)
	assert.Equal(t, []string{"bob"}, over.Winners)
}

func TestUnknownMessageType(t *testing.T) {
	_, ts := startTestServer(t, "alice", "bob")
	c := dial(t, ts)
	c.send(MessageType("shuffle"), nil)
	var errData ErrorData
	c.expect(MessageTypeError, &errData)
	assert.Equal(t, "unknown_message_type", errData.Code)
}

func TestHealth(t *testing.T) {
	_, ts := startTestServer(t, "alice", "bob")
	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK 0/2 seats\n", string(body))
}

func TestServeStopsOnCancel(t *testing.T) {
	srv := NewServer("127.0.0.1:0", []string{"alice", "bob"}, time.Minute, quartz.NewReal(), testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
