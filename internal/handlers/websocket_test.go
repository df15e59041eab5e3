package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"fourheat/internal/models"
	"fourheat/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type envelope struct {
	Type  string          `json:"type"`
	Data  models.Snapshot `json:"data"`
	Error string          `json:"error"`
}

func newStreamURL(t *testing.T, s *service.Service, allowedOrigins []string) string {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(s, nil, nil, allowedOrigins)
	r.GET("/ws", h.wsConnect)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	u, _ := url.Parse(srv.URL)
	u.Scheme = "ws"
	u.Path = "/ws"
	return u.String()
}

func dialStream(t *testing.T, s *service.Service) *websocket.Conn {
	t.Helper()
	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	conn, _, err := dialer.Dial(newStreamURL(t, s, nil), nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) envelope {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var env envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read: %v", err)
	}
	return env
}

func TestWebSocket_InitialThenPublished(t *testing.T) {
	poller := newMockPoller()
	mon := &mockMonitoring{current: models.Snapshot{"30001": {Value: 5, Type: "J"}}}
	conn := dialStream(t, &service.Service{Monitoring: mon, Poller: poller})

	env := readEnvelope(t, conn)
	if env.Type != wsTypeState || env.Data["30001"].Value != 5 {
		t.Fatalf("bad initial envelope: %+v", env)
	}

	<-poller.subscribed
	poller.publish(models.Snapshot{"30001": {Value: 6, Type: "J"}})

	env = readEnvelope(t, conn)
	if env.Type != wsTypeState || env.Data["30001"].Value != 6 {
		t.Fatalf("bad published envelope: %+v", env)
	}
}

func TestWebSocket_NoDataYet(t *testing.T) {
	poller := newMockPoller()
	mon := &mockMonitoring{currentErr: service.ErrNoData}
	conn := dialStream(t, &service.Service{Monitoring: mon, Poller: poller})

	env := readEnvelope(t, conn)
	if env.Type != wsTypeNoData || env.Error == "" || env.Data != nil {
		t.Fatalf("expected no_data envelope, got %+v", env)
	}

	<-poller.subscribed
	poller.publish(models.Snapshot{"30002": {Value: 1, Type: "I"}})

	env = readEnvelope(t, conn)
	if env.Type != wsTypeState || env.Data["30002"].Value != 1 {
		t.Fatalf("bad published envelope: %+v", env)
	}
}

func TestWebSocket_EnvelopeOmitsEmptyFields(t *testing.T) {
	b, err := json.Marshal(wsEnvelope{Type: wsTypeState})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"type":"state"}` {
		t.Fatalf("unexpected encoding: %s", b)
	}
}

func TestWebSocket_AllowedOrigins(t *testing.T) {
	cases := []struct {
		name    string
		allowed []string
		origin  string
		wantOK  bool
	}{
		{"no origin header", []string{"http://dash.local"}, "", true},
		{"listed origin", []string{"http://dash.local/"}, "http://DASH.local", true},
		{"unlisted origin", []string{"http://dash.local"}, "http://evil.local", false},
		{"wildcard", []string{"*"}, "http://evil.local", true},
		{"default rejects cross origin", nil, "http://evil.local", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			poller := newMockPoller()
			mon := &mockMonitoring{currentErr: service.ErrNoData}
			u := newStreamURL(t, &service.Service{Monitoring: mon, Poller: poller}, tc.allowed)

			header := http.Header{}
			if tc.origin != "" {
				header.Set("Origin", tc.origin)
			}
			dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
			conn, resp, err := dialer.Dial(u, header)
			if tc.wantOK {
				if err != nil {
					t.Fatalf("dial error: %v", err)
				}
				_ = conn.Close()
				return
			}
			if err == nil {
				_ = conn.Close()
				t.Fatal("expected handshake to be rejected")
			}
			if resp == nil || resp.StatusCode != http.StatusForbidden {
				t.Fatalf("expected 403, got %+v", resp)
			}
		})
	}
}
