package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ananyak/ndra/internal/core/domain"
)

func TestEmbedReturnsVectors(t *testing.T) {
	var gotModel string
	var gotInput []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embed" {
			http.NotFound(w, r)
			return
		}
		var req struct {
			Model string   `json:"model"`
			Input []string `json:"input"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		gotModel = req.Model
		gotInput = req.Input
		_ = json.NewEncoder(w).Encode(map[string]any{
			"embeddings": [][]float32{{0.1, 0.2}, {0.3, 0.4}},
		})
	}))
	defer server.Close()

	embedder := NewEmbedder(New(server.URL, "all-minilm"))
	vectors, err := embedder.Embed(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if len(vectors) != 2 || vectors[0][1] != 0.2 {
		t.Fatalf("unexpected vectors: %v", vectors)
	}
	if gotModel != "all-minilm" || len(gotInput) != 2 {
		t.Fatalf("unexpected request: model=%q input=%v", gotModel, gotInput)
	}
}

func TestEmbedQueryReturnsSingleVector(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"embeddings": [][]float32{{0.5}},
		})
	}))
	defer server.Close()

	embedder := NewEmbedder(New(server.URL, "all-minilm"))
	vector, err := embedder.EmbedQuery(context.Background(), "query")
	if err != nil {
		t.Fatalf("EmbedQuery() error = %v", err)
	}
	if len(vector) != 1 || vector[0] != 0.5 {
		t.Fatalf("unexpected vector: %v", vector)
	}
}

func TestEmbedServerErrorWrappedTemporary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	embedder := NewEmbedder(New(server.URL, "all-minilm"))
	_, err := embedder.Embed(context.Background(), []string{"a"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("expected ErrTemporary for retryable status, got %v", err)
	}
}

func TestEmbedEmptyInputIsNoop(t *testing.T) {
	embedder := NewEmbedder(New("http://unused", "all-minilm"))
	vectors, err := embedder.Embed(context.Background(), nil)
	if err != nil || vectors != nil {
		t.Fatalf("expected nil, nil; got %v, %v", vectors, err)
	}
}
