package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// waitFor polls cond until it holds or the deadline passes. WebSocket
// registration runs through the hub goroutine, so tests can't assert
// immediately after a dial.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("Timed out waiting for %s", what)
}

func containsCall(calls []string, name string) bool {
	for _, c := range calls {
		if c == name {
			return true
		}
	}
	return false
}

// TestHandleCommandInput verifies input frames reach the engine
func TestHandleCommandInput(t *testing.T) {
	mock := newMockEngine()

	handleCommand(mock, "1.2.3.4", []byte(`{"event":"input","data":{"up":true,"left":true}}`))

	input := mock.recordedInput()
	if !input.Up || !input.Left {
		t.Errorf("Expected up+left recorded, got %+v", input)
	}
	if input.Down || input.Right || input.Escape {
		t.Errorf("Unpressed keys should stay false, got %+v", input)
	}
}

// TestHandleCommandUpgrade verifies upgrade picks reach the engine
func TestHandleCommandUpgrade(t *testing.T) {
	mock := newMockEngine()

	handleCommand(mock, "1.2.3.4", []byte(`{"event":"upgrade","data":{"id":"attack_speed"}}`))

	if got := mock.recordedUpgrade(); got != "attack_speed" {
		t.Errorf("Expected attack_speed forwarded, got %q", got)
	}
}

// TestHandleCommandLifecycle verifies each lifecycle event dispatches to the
// matching engine call
func TestHandleCommandLifecycle(t *testing.T) {
	events := []string{"start", "pause", "resume", "menu"}

	for _, event := range events {
		t.Run(event, func(t *testing.T) {
			mock := newMockEngine()
			handleCommand(mock, "1.2.3.4", []byte(`{"event":"`+event+`"}`))

			calls := mock.recordedCalls()
			if len(calls) != 1 || calls[0] != event {
				t.Errorf("Expected a single %s call, got %v", event, calls)
			}
		})
	}
}

// TestHandleCommandMalformed verifies bad frames are dropped without
// touching the engine
func TestHandleCommandMalformed(t *testing.T) {
	frames := [][]byte{
		[]byte(`{not json`),
		[]byte(`{"event":"input","data":"nope"}`),
		[]byte(`{"event":"upgrade","data":{"id":42}}`),
		[]byte(`{"event":"teleport"}`),
	}

	mock := newMockEngine()
	for _, frame := range frames {
		handleCommand(mock, "1.2.3.4", frame)
	}

	if calls := mock.recordedCalls(); len(calls) != 0 {
		t.Errorf("Expected no engine calls, got %v", calls)
	}
	if got := mock.recordedUpgrade(); got != "" {
		t.Errorf("Expected no upgrade forwarded, got %q", got)
	}
	if input := mock.recordedInput(); input.Up || input.Down || input.Left || input.Right {
		t.Errorf("Expected input untouched, got %+v", input)
	}
}

// TestBroadcastBackpressure verifies a full broadcast channel drops messages
// instead of blocking the caller
func TestBroadcastBackpressure(t *testing.T) {
	hub := NewWebSocketHub() // Run() never started, nothing drains the channel

	done := make(chan struct{})
	go func() {
		for i := 0; i < 300; i++ {
			hub.Broadcast("game:state", map[string]int{"tick": i})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Broadcast blocked on a full channel")
	}

	if got := len(hub.broadcast); got != 256 {
		t.Errorf("Expected the channel capped at 256, got %d", got)
	}
}

// TestBroadcastUnmarshalable verifies unencodable payloads are skipped
func TestBroadcastUnmarshalable(t *testing.T) {
	hub := NewWebSocketHub()

	hub.Broadcast("game:state", make(chan int))

	if got := len(hub.broadcast); got != 0 {
		t.Errorf("Expected nothing enqueued, got %d", got)
	}
}

// TestWebSocketRoundTrip connects a real client through the upgrade path,
// receives a broadcast, sends a command, and disconnects
func TestWebSocketRoundTrip(t *testing.T) {
	hub := NewWebSocketHub()
	go hub.Run()

	mock := newMockEngine()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.HandleWebSocket(mock, w, r)
	}))
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http")
	header := http.Header{"Origin": []string{"http://localhost:3000"}}

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	waitFor(t, "client registration", func() bool { return hub.ClientCount() == 1 })

	// Server push reaches the client
	hub.Broadcast("game:state", map[string]int{"tick": 5})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read broadcast: %v", err)
	}
	var envelope wsCommand
	if err := json.Unmarshal(msg, &envelope); err != nil {
		t.Fatalf("decode broadcast: %v", err)
	}
	if envelope.Event != "game:state" {
		t.Errorf("Expected game:state, got %q", envelope.Event)
	}

	// Client command reaches the engine through the read loop
	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"event":"start"}`)); err != nil {
		t.Fatalf("write command: %v", err)
	}
	waitFor(t, "command dispatch", func() bool {
		return containsCall(mock.recordedCalls(), "start")
	})

	// Disconnect releases both the hub slot and the per-IP budget
	conn.Close()
	waitFor(t, "client unregistration", func() bool { return hub.ClientCount() == 0 })
	if got := hub.wsLimiter.GetConnectionCount("127.0.0.1"); got != 0 {
		t.Errorf("Expected the per-IP slot released, got %d", got)
	}
}

// TestWebSocketOriginRejected verifies non-loopback origins fail the upgrade
func TestWebSocketOriginRejected(t *testing.T) {
	hub := NewWebSocketHub()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.HandleWebSocket(newMockEngine(), w, r)
	}))
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http")
	header := http.Header{"Origin": []string{"https://evil.com"}}

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	if err == nil {
		conn.Close()
		t.Fatal("Expected the handshake to fail")
	}
	if resp != nil {
		resp.Body.Close()
		if resp.StatusCode != http.StatusForbidden {
			t.Errorf("Expected 403, got %d", resp.StatusCode)
		}
	}

	// The reserved per-IP slot is given back on upgrade failure
	if got := hub.wsLimiter.GetConnectionCount("127.0.0.1"); got != 0 {
		t.Errorf("Expected the per-IP slot released, got %d", got)
	}
}

// TestWebSocketPerIPLimit verifies the connection cap per source address
func TestWebSocketPerIPLimit(t *testing.T) {
	hub := NewWebSocketHub()
	hub.wsLimiter = NewWebSocketRateLimiter(1)
	go hub.Run()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.HandleWebSocket(newMockEngine(), w, r)
	}))
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http")
	header := http.Header{"Origin": []string{"http://localhost:3000"}}

	first, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	if err != nil {
		t.Fatalf("first dial failed: %v", err)
	}
	defer first.Close()

	second, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	if err == nil {
		second.Close()
		t.Fatal("Expected the second connection to be rejected")
	}
	if resp != nil {
		resp.Body.Close()
		if resp.StatusCode != http.StatusTooManyRequests {
			t.Errorf("Expected 429, got %d", resp.StatusCode)
		}
	}
}
