package openrouter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCompleteSendsPromptAndModel(t *testing.T) {
	var gotModel, gotContent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		gotModel = req.Model
		if len(req.Messages) == 1 {
			gotContent = req.Messages[0].Content
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "  **1.** Yes  "}},
			},
		})
	}))
	defer server.Close()

	client := New("key", server.URL+"/v1", "mistralai/mistral-7b-instruct:free", 0)
	got, err := client.Complete(context.Background(), "Is knee surgery covered?")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got != "**1.** Yes" {
		t.Fatalf("expected trimmed reply, got %q", got)
	}
	if gotModel != "mistralai/mistral-7b-instruct:free" {
		t.Fatalf("unexpected model: %q", gotModel)
	}
	if gotContent != "Is knee surgery covered?" {
		t.Fatalf("unexpected prompt: %q", gotContent)
	}
}

func TestCompleteEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	client := New("key", server.URL+"/v1", "test-model", 0)
	_, err := client.Complete(context.Background(), "prompt")
	if err == nil || !strings.Contains(err.Error(), "empty choices") {
		t.Fatalf("expected empty choices error, got %v", err)
	}
}

func TestCompleteUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error": {"message": "rate limited"}}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := New("key", server.URL+"/v1", "test-model", 0)
	_, err := client.Complete(context.Background(), "prompt")
	if err == nil || !strings.Contains(err.Error(), "openrouter chat completion") {
		t.Fatalf("expected wrapped upstream error, got %v", err)
	}
}
