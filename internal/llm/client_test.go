package llm

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestStripFence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"fence with padding", "  ```json\n{\"a\": 1}\n```  ", `{"a": 1}`},
		{"no closing fence", "```json\n{\"a\": 1}", `{"a": 1}`},
		{"single line fence", "```json{\"a\": 1}```", `{"a": 1}`},
		{"whitespace only", "   \n\t", ""},
		{"backticks inside text", "use `json.Marshal` here", "use `json.Marshal` here"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripFence(tt.input); got != tt.want {
				t.Errorf("StripFence(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestOpenAIClientComplete(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{"choices": [{"message": {"content": "` + "```json\\n{\\\"ok\\\": true}\\n```" + `"}}]}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient(srv.URL, "secret", "test-model")
	text, err := c.Complete(context.Background(), Request{Prompt: "hello", MaxTokens: 100, Temperature: 0.3})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if text != `{"ok": true}` {
		t.Errorf("text: got %q, want fence-stripped JSON", text)
	}
	if gotPath != "/chat/completions" {
		t.Errorf("path: got %q", gotPath)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("auth: got %q", gotAuth)
	}
	for _, frag := range []string{`"model":"test-model"`, `"role":"user"`, `"content":"hello"`, `"max_tokens":100`} {
		if !strings.Contains(string(gotBody), frag) {
			t.Errorf("request body missing %s: %s", frag, gotBody)
		}
	}
}

func TestOpenAIClientErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		frag   string
	}{
		{"server error", http.StatusInternalServerError, "boom", "status 500"},
		{"api error payload", http.StatusOK, `{"error": {"type": "rate_limit", "message": "slow down"}}`, "rate_limit"},
		{"no choices", http.StatusOK, `{"choices": []}`, "no choices"},
		{"empty content", http.StatusOK, `{"choices": [{"message": {"content": "  "}}]}`, "no response"},
		{"invalid json", http.StatusOK, `not json`, "parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewOpenAIClient(srv.URL, "secret", "test-model")
			_, err := c.Complete(context.Background(), Request{Prompt: "hello"})
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.frag) {
				t.Errorf("error %q does not mention %q", err, tt.frag)
			}
		})
	}
}

func TestOpenAIClientDefaultBaseURL(t *testing.T) {
	c := NewOpenAIClient("", "k", "m")
	if c.baseURL != DefaultBaseURL {
		t.Errorf("baseURL: got %q, want %q", c.baseURL, DefaultBaseURL)
	}

	c = NewOpenAIClient("https://example.com/v1/", "k", "m")
	if c.baseURL != "https://example.com/v1" {
		t.Errorf("trailing slash not trimmed: %q", c.baseURL)
	}
}
