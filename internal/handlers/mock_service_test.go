package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"fourheat/internal/models"
	"fourheat/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(_ context.Context, username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}

func (m *mockAuth) GenerateToken(_ context.Context, username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}

func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockMonitoring struct {
	current    models.Snapshot
	currentErr error

	refreshed  models.Snapshot
	refreshErr error
	refreshes  int

	stored    []models.StoredReading
	storedErr error
}

func (m *mockMonitoring) Current(context.Context) (models.Snapshot, error) {
	return m.current, m.currentErr
}

func (m *mockMonitoring) Refresh(context.Context) (models.Snapshot, error) {
	m.refreshes++
	return m.refreshed, m.refreshErr
}

func (m *mockMonitoring) Stored(context.Context) ([]models.StoredReading, error) {
	return m.stored, m.storedErr
}

type mockStove struct {
	calls       []string
	ctxErrs     []error // ctx.Err() seen by each call
	lastSet     service.SetValueParams
	setValueErr error
}

func (m *mockStove) record(ctx context.Context, command string) {
	m.calls = append(m.calls, command)
	m.ctxErrs = append(m.ctxErrs, ctx.Err())
}

func (m *mockStove) TurnOn(ctx context.Context)  { m.record(ctx, service.CommandOn) }
func (m *mockStove) TurnOff(ctx context.Context) { m.record(ctx, service.CommandOff) }
func (m *mockStove) Unblock(ctx context.Context) { m.record(ctx, service.CommandUnblock) }

func (m *mockStove) SetValue(ctx context.Context, p service.SetValueParams) error {
	m.record(ctx, service.CommandSetValue)
	m.lastSet = p
	return m.setValueErr
}

type mockEventLog struct {
	resp     []models.StoveEvent
	err      error
	lastFrom time.Time
	lastTo   time.Time
	lastType string
}

func (m *mockEventLog) List(_ context.Context, f service.LogFilter) ([]models.StoveEvent, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	return m.resp, m.err
}

// mockPoller hands out one channel per subscriber; publish fans out.
type mockPoller struct {
	mu         sync.Mutex
	subs       []chan models.Snapshot
	subscribed chan struct{}
}

func newMockPoller() *mockPoller {
	return &mockPoller{subscribed: make(chan struct{}, 8)}
}

func (m *mockPoller) Run(context.Context, time.Duration) {}

func (m *mockPoller) Subscribe() (<-chan models.Snapshot, func()) {
	ch := make(chan models.Snapshot, 4)
	m.mu.Lock()
	m.subs = append(m.subs, ch)
	m.mu.Unlock()
	m.subscribed <- struct{}{}
	return ch, func() {}
}

func (m *mockPoller) publish(s models.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ch := range m.subs {
		ch <- s
	}
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, nil, nil, nil)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

func withAuth(req *http.Request) *http.Request {
	for k, vv := range authHeader("valid") {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	return req
}
