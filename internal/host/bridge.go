package host

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/lotas/fenster/internal/applog"
	"nhooyr.io/websocket"
)

// request is a command from the chrome to the host.
type request struct {
	ID     string `json:"id"`
	Action string `json:"action"`
	TabID  string `json:"tabId,omitempty"`
	URL    string `json:"url,omitempty"`
}

// response answers a request, matched by id.
type response struct {
	ID    string    `json:"id"`
	OK    bool      `json:"ok"`
	Error string    `json:"error,omitempty"`
	Tab   *TabState `json:"tab,omitempty"`
}

// inbound is the envelope for any frame from the host. Frames with a type
// are notifications; frames without one are responses. The id field does
// double duty: correlation id on responses, tab id on tabClosed.
type inbound struct {
	Type  string    `json:"type,omitempty"`
	ID    string    `json:"id,omitempty"`
	OK    *bool     `json:"ok,omitempty"`
	Error string    `json:"error,omitempty"`
	Tab   *TabState `json:"tab,omitempty"`
}

// Bridge manages the WebSocket connection to the host process and
// implements Host over it. At most one host is attached at a time; a new
// connection replaces the old one.
type Bridge struct {
	port   int
	notifs chan Notification

	mu      sync.Mutex
	conn    *websocket.Conn
	connCtx context.Context
	pending map[string]chan response

	reqCounter atomic.Int64
}

// NewBridge creates a Bridge. Port 0 means the caller manages the listener.
func NewBridge(port int) *Bridge {
	return &Bridge{
		port:    port,
		notifs:  make(chan Notification, 64),
		pending: make(map[string]chan response),
	}
}

// Port returns the configured port.
func (b *Bridge) Port() int {
	return b.port
}

// Notifications returns the channel of unsolicited host messages.
func (b *Bridge) Notifications() <-chan Notification {
	return b.notifs
}

// Connected reports whether a host is attached.
func (b *Bridge) Connected() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conn != nil
}

// CreateTab implements Host.
func (b *Bridge) CreateTab(ctx context.Context, url string) (TabState, error) {
	resp, err := b.call(ctx, request{Action: "createTab", URL: url})
	if err != nil {
		return TabState{}, err
	}
	if resp.Tab == nil {
		return TabState{}, fmt.Errorf("createTab: host returned no tab")
	}
	return *resp.Tab, nil
}

// ActivateTab implements Host.
func (b *Bridge) ActivateTab(ctx context.Context, id string) error {
	_, err := b.call(ctx, request{Action: "activateTab", TabID: id})
	return err
}

// NavigateTo implements Host.
func (b *Bridge) NavigateTo(ctx context.Context, id, url string) error {
	_, err := b.call(ctx, request{Action: "navigateTo", TabID: id, URL: url})
	return err
}

// CloseTab implements Host.
func (b *Bridge) CloseTab(ctx context.Context, id string) error {
	_, err := b.call(ctx, request{Action: "closeTab", TabID: id})
	return err
}

// call sends a request and waits for the matching response or ctx expiry.
func (b *Bridge) call(ctx context.Context, req request) (response, error) {
	b.mu.Lock()
	conn := b.conn
	connCtx := b.connCtx
	if conn == nil {
		b.mu.Unlock()
		return response{}, ErrNotConnected
	}
	req.ID = fmt.Sprintf("req-%d", b.reqCounter.Add(1))
	ch := make(chan response, 1)
	b.pending[req.ID] = ch
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		delete(b.pending, req.ID)
		b.mu.Unlock()
	}()

	applog.Info("host.send", "action", req.Action, "id", req.ID)
	data, err := json.Marshal(req)
	if err != nil {
		return response{}, err
	}
	if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
		return response{}, fmt.Errorf("%s: %w", req.Action, err)
	}

	select {
	case resp := <-ch:
		if !resp.OK {
			return resp, fmt.Errorf("%s: host error: %s", req.Action, resp.Error)
		}
		return resp, nil
	case <-ctx.Done():
		return response{}, fmt.Errorf("%s: %w", req.Action, ctx.Err())
	case <-connCtx.Done():
		return response{}, fmt.Errorf("%s: %w", req.Action, ErrNotConnected)
	}
}

// Handler returns an http.Handler that accepts WebSocket upgrades from the
// host process.
func (b *Bridge) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			applog.Error("host.accept", err)
			return
		}

		conn.SetReadLimit(16 << 20) // tabUpdated can carry full page content

		ctx := r.Context()
		b.mu.Lock()
		if b.conn != nil {
			applog.Info("host.replaced")
			b.conn.CloseNow()
		}
		b.conn = conn
		b.connCtx = ctx
		b.mu.Unlock()

		applog.Info("host.connected", "remote", r.RemoteAddr)

		defer func() {
			b.mu.Lock()
			if b.conn == conn {
				b.conn = nil
				b.connCtx = nil
			}
			b.mu.Unlock()
			conn.CloseNow()
			applog.Info("host.disconnected")
		}()

		for {
			_, data, err := conn.Read(ctx)
			if err != nil {
				return
			}
			var msg inbound
			if err := json.Unmarshal(data, &msg); err != nil {
				applog.Error("host.parse", err)
				continue
			}
			b.route(msg)
		}
	})
}

// route dispatches one inbound frame to the waiting caller or the
// notification channel. Unknown frames are logged and dropped.
func (b *Bridge) route(msg inbound) {
	switch msg.Type {
	case "":
		// Response frame.
		b.mu.Lock()
		ch := b.pending[msg.ID]
		b.mu.Unlock()
		if ch == nil {
			applog.Info("host.response.orphan", "id", msg.ID)
			return
		}
		resp := response{ID: msg.ID, Error: msg.Error, Tab: msg.Tab}
		if msg.OK != nil {
			resp.OK = *msg.OK
		}
		ch <- resp

	case string(NotifyTabUpdated):
		if msg.Tab == nil || msg.Tab.ID == "" {
			applog.Info("host.notify.malformed", "type", msg.Type)
			return
		}
		b.notify(Notification{Kind: NotifyTabUpdated, Tab: msg.Tab})

	case string(NotifyTabClosed):
		if msg.ID == "" {
			applog.Info("host.notify.malformed", "type", msg.Type)
			return
		}
		b.notify(Notification{Kind: NotifyTabClosed, TabID: msg.ID})

	default:
		applog.Info("host.notify.unknown", "type", msg.Type)
	}
}

func (b *Bridge) notify(n Notification) {
	applog.Info("host.recv", "type", string(n.Kind))
	select {
	case b.notifs <- n:
	default:
	}
}

// ListenAndServe starts the WebSocket endpoint on the configured port.
func (b *Bridge) ListenAndServe(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("/", b.Handler())

	addr := fmt.Sprintf("127.0.0.1:%d", b.port)
	applog.Info("bridge.start", "addr", addr)
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		srv.Close()
	}()

	return srv.ListenAndServe()
}
