package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newCohereServer(t *testing.T, status int, body string, check func(r *http.Request, req cohereGenerateRequest)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req cohereGenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if check != nil {
			check(r, req)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCohereGenerateSuccess(t *testing.T) {
	body := `{"id":"gen-1","generations":[{"id":"a","text":" Hello "},{"id":"b","text":"second"}],"meta":{"billed_units":{"input_tokens":12,"output_tokens":3}}}`
	srv := newCohereServer(t, http.StatusOK, body, func(r *http.Request, req cohereGenerateRequest) {
		if r.URL.Path != "/v1/generate" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected authorization %q", got)
		}
		if req.Model != "command" || req.Prompt != "say hi" || req.MaxTokens != 150 || req.Temperature != 0.7 {
			t.Errorf("unexpected request body %+v", req)
		}
	})

	p, err := NewCohereProvider(CohereConfig{APIKey: "test-key", BaseURL: srv.URL + "/v1/"})
	if err != nil {
		t.Fatalf("NewCohereProvider: %v", err)
	}

	resp, err := p.Generate(context.Background(), Request{Prompt: "say hi", MaxTokens: 150, Temperature: 0.7})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if resp.Text != " Hello " {
		t.Errorf("expected untrimmed first candidate, got %q", resp.Text)
	}
	if resp.PromptTokens != 12 || resp.CompletionTokens != 3 {
		t.Errorf("unexpected usage %+v", resp)
	}
}

func TestCohereGenerateFailures(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		malformed bool
	}{
		{"unauthorized", http.StatusUnauthorized, `{"message":"invalid api token"}`, false},
		{"server error", http.StatusInternalServerError, `oops`, false},
		{"invalid json", http.StatusOK, `{not json`, true},
		{"no generations", http.StatusOK, `{"generations":[]}`, true},
		{"text not string", http.StatusOK, `{"generations":[{"text":42}]}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newCohereServer(t, tt.status, tt.body, nil)
			p, err := NewCohereProvider(CohereConfig{APIKey: "k", BaseURL: srv.URL})
			if err != nil {
				t.Fatalf("NewCohereProvider: %v", err)
			}

			_, err = p.Generate(context.Background(), Request{Prompt: "p", MaxTokens: 300})
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.Is(err, ErrMalformedResponse); got != tt.malformed {
				t.Errorf("ErrMalformedResponse match = %v, want %v (err: %v)", got, tt.malformed, err)
			}
		})
	}
}

func TestCohereOversizedResponse(t *testing.T) {
	body := `{"generations":[{"text":"` + strings.Repeat("a", maxResponseBytes) + `"}]}`
	srv := newCohereServer(t, http.StatusOK, body, nil)
	p, err := NewCohereProvider(CohereConfig{APIKey: "k", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewCohereProvider: %v", err)
	}

	_, err = p.Generate(context.Background(), Request{Prompt: "p", MaxTokens: 150})
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse for oversized body, got %v", err)
	}
}

func TestCohereOversizedErrorBodyIsTruncated(t *testing.T) {
	srv := newCohereServer(t, http.StatusBadGateway, strings.Repeat("x", maxResponseBytes*2), nil)
	p, err := NewCohereProvider(CohereConfig{APIKey: "k", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewCohereProvider: %v", err)
	}

	_, err = p.Generate(context.Background(), Request{Prompt: "p", MaxTokens: 150})
	if err == nil {
		t.Fatal("expected status error")
	}
	if len(err.Error()) > maxErrorBodyBytes+100 {
		t.Errorf("error message should be truncated, got %d bytes", len(err.Error()))
	}
}

func TestCohereNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	p, err := NewCohereProvider(CohereConfig{APIKey: "k", BaseURL: url})
	if err != nil {
		t.Fatalf("NewCohereProvider: %v", err)
	}
	if _, err := p.Generate(context.Background(), Request{Prompt: "p"}); err == nil {
		t.Fatal("expected network error")
	}
}

func TestCohereRequiresAPIKey(t *testing.T) {
	if _, err := NewCohereProvider(CohereConfig{}); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}
