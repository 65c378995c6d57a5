package host

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"nhooyr.io/websocket"
)

// dialBridge stands up the bridge behind httptest and connects a fake host.
func dialBridge(t *testing.T) (*Bridge, *websocket.Conn, context.Context) {
	t.Helper()
	b := NewBridge(0)

	ts := httptest.NewServer(b.Handler())
	t.Cleanup(ts.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.CloseNow() })

	// Give the bridge a moment to register the connection.
	deadline := time.Now().Add(time.Second)
	for !b.Connected() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if !b.Connected() {
		t.Fatal("bridge never registered the connection")
	}
	return b, conn, ctx
}

func TestBridgeDeliversNotifications(t *testing.T) {
	b, conn, ctx := dialBridge(t)

	frame := `{"type":"tabUpdated","tab":{"id":"t1","title":"Go","url":"https://go.dev","isLoading":false}}`
	if err := conn.Write(ctx, websocket.MessageText, []byte(frame)); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case n := <-b.Notifications():
		if n.Kind != NotifyTabUpdated {
			t.Errorf("kind = %q, want tabUpdated", n.Kind)
		}
		if n.Tab == nil || n.Tab.ID != "t1" || n.Tab.Title != "Go" {
			t.Errorf("tab = %+v, want id t1 title Go", n.Tab)
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for notification")
	}
}

func TestBridgeTabClosedNotification(t *testing.T) {
	b, conn, ctx := dialBridge(t)

	frame := `{"type":"tabClosed","id":"t9"}`
	if err := conn.Write(ctx, websocket.MessageText, []byte(frame)); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case n := <-b.Notifications():
		if n.Kind != NotifyTabClosed || n.TabID != "t9" {
			t.Errorf("got %+v, want tabClosed t9", n)
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for notification")
	}
}

func TestBridgeCreateTabRoundTrip(t *testing.T) {
	b, conn, ctx := dialBridge(t)

	// Fake host: answer the first request with a created tab.
	go func() {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		var req request
		if err := json.Unmarshal(data, &req); err != nil {
			return
		}
		if req.Action != "createTab" {
			return
		}
		reply, _ := json.Marshal(map[string]any{
			"id": req.ID,
			"ok": true,
			"tab": TabState{
				ID:        "t1",
				Title:     "New Tab",
				URL:       req.URL,
				IsLoading: true,
			},
		})
		conn.Write(ctx, websocket.MessageText, reply)
	}()

	tab, err := b.CreateTab(ctx, "https://go.dev")
	if err != nil {
		t.Fatalf("CreateTab: %v", err)
	}
	if tab.ID != "t1" || tab.URL != "https://go.dev" {
		t.Errorf("tab = %+v, want id t1 url https://go.dev", tab)
	}
}

func TestBridgeHostError(t *testing.T) {
	b, conn, ctx := dialBridge(t)

	go func() {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		var req request
		json.Unmarshal(data, &req)
		reply, _ := json.Marshal(map[string]any{
			"id":    req.ID,
			"ok":    false,
			"error": "surface limit reached",
		})
		conn.Write(ctx, websocket.MessageText, reply)
	}()

	_, err := b.CreateTab(ctx, "https://go.dev")
	if err == nil {
		t.Fatal("expected error from host")
	}
	if !strings.Contains(err.Error(), "surface limit reached") {
		t.Errorf("error %q does not carry host message", err)
	}
}

func TestBridgeNotConnected(t *testing.T) {
	b := NewBridge(0)
	ctx := context.Background()

	if err := b.ActivateTab(ctx, "t1"); err != ErrNotConnected {
		t.Errorf("ActivateTab on idle bridge: got %v, want ErrNotConnected", err)
	}
	if _, err := b.CreateTab(ctx, ""); err != ErrNotConnected {
		t.Errorf("CreateTab on idle bridge: got %v, want ErrNotConnected", err)
	}
}
