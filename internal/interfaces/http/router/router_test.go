package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"ai-content-gen-api/internal/application/generation"
	"ai-content-gen-api/internal/config"
	"ai-content-gen-api/internal/domain/entity"
	"ai-content-gen-api/internal/infrastructure/llm"
	"ai-content-gen-api/internal/infrastructure/persistence/memory"
	"ai-content-gen-api/internal/interfaces/http/handler"
	"ai-content-gen-api/internal/interfaces/http/middleware"
)

type stubProvider struct {
	text  string
	err   error
	calls int
}

func (p *stubProvider) Name() string  { return "stub" }
func (p *stubProvider) Model() string { return "stub-1" }
func (p *stubProvider) Generate(context.Context, llm.Request) (*llm.Response, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return &llm.Response{Text: p.text}, nil
}

type testEnv struct {
	engine   *gin.Engine
	store    *memory.SessionStore
	provider *stubProvider
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.Generation.SessionTTL = time.Hour
	cfg.Features.Page.Enabled = true

	store := memory.NewSessionStore(100, 0)
	provider := &stubProvider{text: "  # Hello\n\nGenerated body  "}
	svc := generation.NewService(
		generation.ProviderSourceFunc(func(context.Context, string) (llm.Provider, error) { return provider, nil }),
		store, nil, generation.Options{},
	)

	r, err := New(cfg, &Handlers{
		Health:     handler.NewHealthHandler(cfg, nil),
		Generation: handler.NewGenerationHandler(svc),
		Page:       handler.NewPageHandler(svc),
		Sessions:   svc,
	}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return &testEnv{engine: r.Engine(), store: store, provider: provider}
}

func (e *testEnv) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func (e *testEnv) createSession(t *testing.T) string {
	t.Helper()
	w := e.do(http.MethodPost, "/v1/sessions", "")
	if w.Code != http.StatusCreated {
		t.Fatalf("create session: status %d body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Data struct {
			SessionID string `json:"session_id"`
			View      struct {
				State string `json:"state"`
			} `json:"view"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.View.State != "idle" {
		t.Errorf("new session should be idle, got %s", resp.Data.View.State)
	}
	return resp.Data.SessionID
}

type generateEnvelope struct {
	Data struct {
		View struct {
			Display    string `json:"display"`
			State      string `json:"state"`
			Generating bool   `json:"generating"`
		} `json:"view"`
		Item *struct {
			ID      string `json:"id"`
			Preview string `json:"preview"`
		} `json:"item"`
	} `json:"data"`
}

const validBody = `{"topic":"remote work","content_type":"blog-post","tone":"casual","length":"short"}`

func TestHealthEndpoints(t *testing.T) {
	env := newTestEnv(t)
	for _, path := range []string{"/health", "/ready", "/live"} {
		if w := env.do(http.MethodGet, path, ""); w.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, w.Code)
		}
	}
}

func TestOptions(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(http.MethodGet, "/v1/options", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Data struct {
			ContentTypes []struct{ Value, Label string } `json:"content_types"`
			Lengths      []struct{ Value, Label string } `json:"lengths"`
		} `json:"data"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Data.ContentTypes) != 6 || resp.Data.ContentTypes[3].Label != "Social Media Post" {
		t.Errorf("unexpected content types %+v", resp.Data.ContentTypes)
	}
	if len(resp.Data.Lengths) != 3 || resp.Data.Lengths[0].Label != "Short (50-150 words)" {
		t.Errorf("unexpected lengths %+v", resp.Data.Lengths)
	}
}

func TestGenerateSuccessAndHistory(t *testing.T) {
	env := newTestEnv(t)
	sid := env.createSession(t)

	w := env.do(http.MethodPost, "/v1/sessions/"+sid+"/generations", validBody)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp generateEnvelope
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Data.View.State != "succeeded" || resp.Data.View.Display != "# Hello\n\nGenerated body" {
		t.Errorf("unexpected view %+v", resp.Data.View)
	}
	if resp.Data.Item == nil {
		t.Fatal("expected new item")
	}

	w = env.do(http.MethodGet, "/v1/sessions/"+sid+"/history", "")
	var hist struct {
		Data struct {
			Items []struct {
				ID string `json:"id"`
			} `json:"items"`
		} `json:"data"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &hist)
	if len(hist.Data.Items) != 1 || hist.Data.Items[0].ID != resp.Data.Item.ID {
		t.Errorf("unexpected history %s", w.Body.String())
	}

	w = env.do(http.MethodGet, "/v1/sessions/"+sid+"/view?format=html", "")
	var rendered struct {
		Data struct {
			HTML string `json:"html"`
		} `json:"data"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &rendered)
	if !strings.Contains(rendered.Data.HTML, `<h1 id="hello">Hello</h1>`) {
		t.Errorf("expected rendered html, got %s", w.Body.String())
	}
}

func TestGenerateFailureReturnsFixedMessage(t *testing.T) {
	env := newTestEnv(t)
	env.provider.err = errors.New("HTTP 503")
	sid := env.createSession(t)

	w := env.do(http.MethodPost, "/v1/sessions/"+sid+"/generations", validBody)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp generateEnvelope
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Data.View.State != "failed" ||
		resp.Data.View.Display != "Sorry, there was an error generating content. Please try again." {
		t.Errorf("unexpected view %+v", resp.Data.View)
	}
	if resp.Data.Item != nil {
		t.Error("failure must not add a history item")
	}
}

func TestGenerateIncompleteForm(t *testing.T) {
	env := newTestEnv(t)
	sid := env.createSession(t)

	w := env.do(http.MethodPost, "/v1/sessions/"+sid+"/generations", `{"topic":"x","content_type":"tweet","tone":"casual"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if env.provider.calls != 0 {
		t.Error("incomplete form must not issue a request")
	}
}

func TestGenerateWhileInFlight(t *testing.T) {
	env := newTestEnv(t)
	sid := env.createSession(t)

	view := entity.NewSessionView()
	view.Begin(time.Now())
	_ = env.store.SaveView(context.Background(), sid, view)

	w := env.do(http.MethodPost, "/v1/sessions/"+sid+"/generations", validBody)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
	if env.provider.calls != 0 {
		t.Error("in-flight session must not issue a second request")
	}
}

func TestUnknownSession(t *testing.T) {
	env := newTestEnv(t)
	for _, tc := range []struct{ method, path, body string }{
		{http.MethodGet, "/v1/sessions/nope/view", ""},
		{http.MethodGet, "/v1/sessions/nope/history", ""},
		{http.MethodPost, "/v1/sessions/nope/generations", validBody},
	} {
		if w := env.do(tc.method, tc.path, tc.body); w.Code != http.StatusNotFound {
			t.Errorf("%s %s: expected 404, got %d", tc.method, tc.path, w.Code)
		}
	}
}

func TestSelectHistory(t *testing.T) {
	env := newTestEnv(t)
	sid := env.createSession(t)

	w := env.do(http.MethodPost, "/v1/sessions/"+sid+"/generations", validBody)
	var first generateEnvelope
	_ = json.Unmarshal(w.Body.Bytes(), &first)

	env.provider.text = "second"
	env.do(http.MethodPost, "/v1/sessions/"+sid+"/generations", validBody)

	w = env.do(http.MethodPost, "/v1/sessions/"+sid+"/history/"+first.Data.Item.ID+"/select", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var view struct {
		Data struct {
			Display string `json:"display"`
		} `json:"data"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &view)
	if view.Data.Display != "# Hello\n\nGenerated body" {
		t.Errorf("unexpected display %q", view.Data.Display)
	}

	if w := env.do(http.MethodPost, "/v1/sessions/"+sid+"/history/missing/select", ""); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown item, got %d", w.Code)
	}
}

func TestHistoryPagination(t *testing.T) {
	env := newTestEnv(t)
	sid := env.createSession(t)
	for i := 0; i < 3; i++ {
		env.do(http.MethodPost, "/v1/sessions/"+sid+"/generations", validBody)
	}

	w := env.do(http.MethodGet, "/v1/sessions/"+sid+"/history?page=2&page_size=2", "")
	var resp struct {
		Data struct {
			Items []json.RawMessage `json:"items"`
		} `json:"data"`
		Meta struct {
			Total      int `json:"total"`
			TotalPages int `json:"total_pages"`
		} `json:"meta"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Data.Items) != 1 || resp.Meta.Total != 3 || resp.Meta.TotalPages != 2 {
		t.Errorf("unexpected page %s", w.Body.String())
	}
}

func TestDownload(t *testing.T) {
	env := newTestEnv(t)
	sid := env.createSession(t)

	if w := env.do(http.MethodGet, "/v1/sessions/"+sid+"/download", ""); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 before any content, got %d", w.Code)
	}

	env.do(http.MethodPost, "/v1/sessions/"+sid+"/generations", validBody)
	w := env.do(http.MethodGet, "/v1/sessions/"+sid+"/download", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("unexpected content type %q", ct)
	}
	cd := w.Header().Get("Content-Disposition")
	if !strings.HasPrefix(cd, `attachment; filename="generated-content-`) || !strings.HasSuffix(cd, `.txt"`) {
		t.Errorf("unexpected content disposition %q", cd)
	}
	if w.Body.String() != "# Hello\n\nGenerated body" {
		t.Errorf("unexpected body %q", w.Body.String())
	}
}

func TestPageFlow(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Your generated content will appear here") {
		t.Error("expected empty state")
	}
	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("expected session cookie")
	}

	post := func(form url.Values) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		env.engine.ServeHTTP(rec, req)
		return rec
	}

	w = post(url.Values{"topic": {"go"}, "content_type": {"tweet"}})
	if w.Code != http.StatusBadRequest || env.provider.calls != 0 {
		t.Fatalf("incomplete form: status %d calls %d", w.Code, env.provider.calls)
	}
	if !strings.Contains(w.Body.String(), `value="go"`) {
		t.Error("form values should be kept")
	}

	w = post(url.Values{"topic": {"go"}, "content_type": {"tweet"}, "tone": {"humorous"}, "length": {"short"}})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `<h1 id="hello">Hello</h1>`) || !strings.Contains(body, "Session History") {
		t.Errorf("expected rendered content and history, got %s", body)
	}

	req := httptest.NewRequest(http.MethodGet, "/download", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	env.engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "# Hello\n\nGenerated body" {
		t.Errorf("unexpected download %d %q", rec.Code, rec.Body.String())
	}
}
