package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	contractx "github.com/tanpawarit/pharmapilot/agent/contract"
	authx "github.com/tanpawarit/pharmapilot/pkg/auth"
	storex "github.com/tanpawarit/pharmapilot/store"
)

type fakeResearcher struct {
	mu   sync.Mutex
	reqs []contractx.ResearchRequest
	out  contractx.ResearchResult
	err  error
}

func (f *fakeResearcher) Research(ctx context.Context, req contractx.ResearchRequest) (contractx.ResearchResult, error) {
	f.mu.Lock()
	f.reqs = append(f.reqs, req)
	f.mu.Unlock()
	if f.err != nil {
		return contractx.ResearchResult{}, f.err
	}
	return f.out, nil
}

type fakeWorker struct {
	reqs []contractx.WorkerRequest
}

func (f *fakeWorker) Run(ctx context.Context, req contractx.WorkerRequest) (contractx.WorkerOutput, error) {
	f.reqs = append(f.reqs, req)
	return contractx.WorkerOutput{Content: "analysis by " + string(req.Task.Domain)}, nil
}

type fakeSynth struct{}

func (fakeSynth) Synthesize(ctx context.Context, req contractx.SynthesisRequest) (string, error) {
	return "report: " + req.Query, nil
}

type fakeAgents struct {
	workers map[contractx.Domain]*fakeWorker
}

func (f *fakeAgents) Worker(d contractx.Domain) (contractx.Worker, error) {
	w, ok := f.workers[d]
	if !ok {
		w = &fakeWorker{}
		f.workers[d] = w
	}
	return w, nil
}

func (f *fakeAgents) Synthesizer() contractx.Synthesizer { return fakeSynth{} }

type sentReset struct {
	to, token string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentReset
}

func (f *fakeMailer) SendPasswordReset(ctx context.Context, to, name, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentReset{to: to, token: token})
	return nil
}

type harness struct {
	handler    http.Handler
	researcher *fakeResearcher
	agents     *fakeAgents
	mailer     *fakeMailer
	mem        *storex.Memory
	tokens     *authx.Manager
}

func newHarness(t *testing.T, cfg Config) *harness {
	t.Helper()

	tokens, err := authx.NewManager(authx.Config{Secret: "test-secret"})
	require.NoError(t, err)

	h := &harness{
		researcher: &fakeResearcher{out: contractx.ResearchResult{
			Status:     "success",
			Response:   "answer {{CHART:revenue_forecast}}",
			Content:    "answer {{CHART:revenue_forecast}}",
			AgentsUsed: []string{"IQVIA Market Analysis"},
			Molecule:   "Metformin",
			Charts:     []contractx.ChartSpec{},
		}},
		agents: &fakeAgents{workers: map[contractx.Domain]*fakeWorker{}},
		mailer: &fakeMailer{},
		mem:    storex.NewMemory(),
		tokens: tokens,
	}

	srv, err := NewServer(cfg, Deps{
		Researcher:  h.researcher,
		Agents:      h.agents,
		Users:       h.mem,
		Projects:    h.mem,
		ResetTokens: h.mem,
		Tokens:      tokens,
		Mailer:      h.mailer,
	})
	require.NoError(t, err)
	h.handler = srv.Handler()
	return h
}

func (h *harness) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (h *harness) login(t *testing.T, email string) authx.TokenPair {
	t.Helper()
	rec := h.do(t, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email": email, "full_name": "Test User", "password": "password123",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = h.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email": email, "password": "password123",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var pair authx.TokenPair
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pair))
	return pair
}

func TestNewServerRequiresDeps(t *testing.T) {
	t.Parallel()
	_, err := NewServer(Config{}, Deps{})
	assert.Error(t, err)
}

func TestChatSuccess(t *testing.T) {
	t.Parallel()
	h := newHarness(t, Config{})

	rec := h.do(t, http.MethodPost, "/api/v1/chat", map[string]string{"query": "market for Metformin", "molecule": "Metformin"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	body := decodeBody(t, rec)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, body["response"], body["content"])
	assert.Equal(t, []any{}, body["charts"])

	require.Len(t, h.researcher.reqs, 1)
	assert.Equal(t, "market for Metformin", h.researcher.reqs[0].Query)
	assert.Equal(t, "Metformin", h.researcher.reqs[0].Molecule)
}

func TestChatGenerateAcceptsPrompt(t *testing.T) {
	t.Parallel()
	h := newHarness(t, Config{})

	rec := h.do(t, http.MethodPost, "/api/v1/chat/generate", map[string]string{"prompt": "patents for Losartan"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, h.researcher.reqs, 1)
	assert.Equal(t, "patents for Losartan", h.researcher.reqs[0].Query)
}

func TestChatMissingQuery(t *testing.T) {
	t.Parallel()
	h := newHarness(t, Config{})

	rec := h.do(t, http.MethodPost, "/api/v1/chat", map[string]string{"query": "  "}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "query is required", body["error"])
	assert.Equal(t, "validation_error", body["detail"])
	assert.Empty(t, h.researcher.reqs)
}

func TestChatOrchestrationFailure(t *testing.T) {
	t.Parallel()
	h := newHarness(t, Config{})
	h.researcher.err = fmt.Errorf("%w: synthesis: %w", contractx.ErrOrchestration, errors.New("secret upstream detail"))

	rec := h.do(t, http.MethodPost, "/api/v1/chat", map[string]string{"query": "market"}, "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "orchestration_error", body["detail"])
	assert.NotContains(t, rec.Body.String(), "secret upstream detail")
}

func TestChatUnexpectedFailure(t *testing.T) {
	t.Parallel()
	h := newHarness(t, Config{})
	h.researcher.err = errors.New("boom")

	rec := h.do(t, http.MethodPost, "/api/v1/chat", map[string]string{"query": "market"}, "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal_error", decodeBody(t, rec)["detail"])
}

func TestChatRateLimited(t *testing.T) {
	t.Parallel()
	h := newHarness(t, Config{RateLimit: 0.001, RateBurst: 2})

	for i := 0; i < 2; i++ {
		rec := h.do(t, http.MethodPost, "/api/v1/chat", map[string]string{"query": "market"}, "")
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec := h.do(t, http.MethodPost, "/api/v1/chat", map[string]string{"query": "market"}, "")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "rate_limited", decodeBody(t, rec)["detail"])
}

func TestAuthFlow(t *testing.T) {
	t.Parallel()
	h := newHarness(t, Config{})

	pair := h.login(t, "Ana@Example.com")
	assert.Equal(t, "bearer", pair.TokenType)

	rec := h.do(t, http.MethodGet, "/api/v1/auth/me", nil, pair.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decodeBody(t, rec)
	assert.Equal(t, "ana@example.com", me["email"])
	assert.Equal(t, "researcher", me["role"])
	assert.NotContains(t, me, "hashed_password")

	rec = h.do(t, http.MethodGet, "/api/v1/auth/me", nil, pair.RefreshToken)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = h.do(t, http.MethodPost, "/api/v1/auth/refresh", map[string]string{"refresh_token": pair.RefreshToken}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decodeBody(t, rec)["access_token"])

	rec = h.do(t, http.MethodPost, "/api/v1/auth/refresh", nil, pair.RefreshToken)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(t, http.MethodPost, "/api/v1/auth/refresh", map[string]string{"refresh_token": pair.AccessToken}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = h.do(t, http.MethodPost, "/api/v1/auth/logout", nil, pair.AccessToken)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()
	h := newHarness(t, Config{})
	h.login(t, "dup@example.com")

	cases := []struct {
		name string
		body map[string]string
		want string
	}{
		{"missing fields", map[string]string{"email": "x@example.com"}, "Email, full_name, and password are required"},
		{"short password", map[string]string{"email": "x@example.com", "full_name": "X", "password": "short"}, "Password must be at least 8 characters long"},
		{"duplicate", map[string]string{"email": "DUP@example.com", "full_name": "X", "password": "password123"}, "Email already registered"},
	}
	for _, tc := range cases {
		rec := h.do(t, http.MethodPost, "/api/v1/auth/register", tc.body, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, tc.name)
		assert.Equal(t, tc.want, decodeBody(t, rec)["detail"], tc.name)
	}
}

func TestLoginFailures(t *testing.T) {
	t.Parallel()
	h := newHarness(t, Config{})
	h.login(t, "ana@example.com")

	rec := h.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"email": "ana@example.com", "password": "wrongpass"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = h.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"email": "nobody@example.com", "password": "password123"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	hashed, err := authx.HashPassword("password123")
	require.NoError(t, err)
	require.NoError(t, h.mem.CreateUser(context.Background(), &storex.User{Email: "off@example.com", HashedPassword: hashed, Role: "researcher", IsActive: false}))
	rec = h.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"email": "off@example.com", "password": "password123"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "User account is inactive", decodeBody(t, rec)["detail"])
}

func TestPasswordResetFlow(t *testing.T) {
	t.Parallel()
	h := newHarness(t, Config{})
	h.login(t, "ana@example.com")

	rec := h.do(t, http.MethodPost, "/api/v1/auth/forgot-password", map[string]string{"email": "nobody@example.com"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, h.mailer.sent)

	rec = h.do(t, http.MethodPost, "/api/v1/auth/forgot-password", map[string]string{"email": "ana@example.com"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, h.mailer.sent, 1)
	token := h.mailer.sent[0].token

	rec = h.do(t, http.MethodPost, "/api/v1/auth/reset-password", map[string]string{"token": token, "new_password": "short"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(t, http.MethodPost, "/api/v1/auth/reset-password", map[string]string{"token": token, "new_password": "newpassword1"}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = h.do(t, http.MethodPost, "/api/v1/auth/reset-password", map[string]string{"token": token, "new_password": "newpassword2"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"email": "ana@example.com", "password": "newpassword1"}, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProjectsScopedToOwner(t *testing.T) {
	t.Parallel()
	h := newHarness(t, Config{})
	ana := h.login(t, "ana@example.com")
	bo := h.login(t, "bo@example.com")

	rec := h.do(t, http.MethodGet, "/api/v1/projects", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = h.do(t, http.MethodPost, "/api/v1/projects", map[string]string{"description": "no name"}, ana.AccessToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(t, http.MethodPost, "/api/v1/projects", map[string]string{"name": "Metformin LCM", "molecule_name": "Metformin"}, ana.AccessToken)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody(t, rec)
	assert.Equal(t, "Active", created["status"])
	assert.Equal(t, "ana@example.com", created["user_email"])
	path := fmt.Sprintf("/api/v1/projects/%d", int64(created["id"].(float64)))

	rec = h.do(t, http.MethodGet, "/api/v1/projects", nil, bo.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())

	rec = h.do(t, http.MethodGet, path, nil, bo.AccessToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = h.do(t, http.MethodPut, path, map[string]string{"status": "Archived"}, ana.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeBody(t, rec)
	assert.Equal(t, "Archived", updated["status"])
	assert.Equal(t, "Metformin LCM", updated["name"])

	rec = h.do(t, http.MethodDelete, path, nil, bo.AccessToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = h.do(t, http.MethodDelete, path, nil, ana.AccessToken)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(t, http.MethodGet, path, nil, ana.AccessToken)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExecuteAgent(t *testing.T) {
	t.Parallel()
	h := newHarness(t, Config{})
	pair := h.login(t, "ana@example.com")

	rec := h.do(t, http.MethodPost, "/api/v1/agents/execute", map[string]string{"agent_type": "iqvia", "input_text": "Metformin revenue"}, pair.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, "analysis by market", body["result"])
	assert.Equal(t, "iqvia", body["agent_type"])
	assert.Equal(t, "success", body["status"])

	w := h.agents.workers[contractx.DomainMarket]
	require.Len(t, w.reqs, 1)
	assert.Equal(t, "Metformin", w.reqs[0].Molecule)
	assert.Equal(t, "IQVIA Market Analysis", w.reqs[0].Task.AgentName)

	rec = h.do(t, http.MethodPost, "/api/v1/agents/execute", map[string]string{"agent_type": "patent", "input_text": "x"}, pair.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(t, http.MethodPost, "/api/v1/agents/execute", map[string]string{"agent_type": "report_generator", "input_text": "sum up"}, pair.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "report: sum up", decodeBody(t, rec)["result"])

	rec = h.do(t, http.MethodPost, "/api/v1/agents/execute", map[string]string{"agent_type": "master", "input_text": "full run"}, pair.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "answer {{CHART:revenue_forecast}}", decodeBody(t, rec)["result"])

	rec = h.do(t, http.MethodPost, "/api/v1/agents/execute", map[string]string{"agent_type": "astrology", "input_text": "x"}, pair.AccessToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Unknown agent type: astrology", decodeBody(t, rec)["detail"])

	rec = h.do(t, http.MethodPost, "/api/v1/agents/execute", map[string]string{"agent_type": "iqvia"}, pair.AccessToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthInfoAndMetrics(t *testing.T) {
	t.Parallel()
	h := newHarness(t, Config{})

	rec := h.do(t, http.MethodGet, "/api/v1/health", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"status": "healthy", "service": ServiceName}, decodeBody(t, rec))

	rec = h.do(t, http.MethodGet, "/api/v1/", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "running", decodeBody(t, rec)["status"])

	rec = h.do(t, http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pharmapilot_http_requests_total")
}

func TestCORS(t *testing.T) {
	t.Parallel()
	h := newHarness(t, Config{AllowedOrigins: []string{"https://app.example.com"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/chat", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestExpiredAccessTokenRejected(t *testing.T) {
	t.Parallel()
	h := newHarness(t, Config{})

	past := time.Now().Add(-2 * time.Hour)
	old, err := authx.NewManager(authx.Config{Secret: "test-secret"}, authx.WithClock(func() time.Time { return past }))
	require.NoError(t, err)
	pair, err := old.IssuePair("1", "ana@example.com", "researcher")
	require.NoError(t, err)

	rec := h.do(t, http.MethodGet, "/api/v1/auth/me", nil, pair.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
