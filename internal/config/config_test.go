package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("API_PORT", "")
	t.Setenv("CHROMA_COLLECTION", "")
	t.Setenv("OLLAMA_EMBED_MODEL", "")
	t.Setenv("PRIMARY_MODEL", "")
	t.Setenv("GEMINI_MODEL", "")
	t.Setenv("RAG_TOP_K", "")
	t.Setenv("CLAUSE_TOP_K", "")
	t.Setenv("CLEAN_WORKERS", "")

	cfg := Load()
	if cfg.APIPort != "8080" {
		t.Fatalf("expected default api port 8080, got %q", cfg.APIPort)
	}
	if cfg.ChromaCollection != "ndr_chunks" {
		t.Fatalf("expected default collection ndr_chunks, got %q", cfg.ChromaCollection)
	}
	if cfg.OllamaEmbedModel != "all-minilm" {
		t.Fatalf("expected default embed model all-minilm, got %q", cfg.OllamaEmbedModel)
	}
	if cfg.PrimaryModel != "mistralai/mistral-7b-instruct:free" {
		t.Fatalf("expected default primary model, got %q", cfg.PrimaryModel)
	}
	if cfg.GeminiModel != "gemini-2.5-pro" {
		t.Fatalf("expected default gemini model, got %q", cfg.GeminiModel)
	}
	if cfg.RAGTopK != 5 {
		t.Fatalf("expected default top k 5, got %d", cfg.RAGTopK)
	}
	if cfg.ClauseTopK != 3 {
		t.Fatalf("expected default clause top k 3, got %d", cfg.ClauseTopK)
	}
	if cfg.CleanWorkers != 4 {
		t.Fatalf("expected default clean workers 4, got %d", cfg.CleanWorkers)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("NDRA_API_KEY", "secret")
	t.Setenv("RAG_TOP_K", "8")
	t.Setenv("LLM_RATE_PER_SECOND", "0.5")
	t.Setenv("CHUNK_SIZE", "1200")

	cfg := Load()
	if cfg.APIKey != "secret" {
		t.Fatalf("expected api key override, got %q", cfg.APIKey)
	}
	if cfg.RAGTopK != 8 {
		t.Fatalf("expected top k 8, got %d", cfg.RAGTopK)
	}
	if cfg.LLMRatePerSecond != 0.5 {
		t.Fatalf("expected rate 0.5, got %v", cfg.LLMRatePerSecond)
	}
	if cfg.ChunkSize != 1200 {
		t.Fatalf("expected chunk size 1200, got %d", cfg.ChunkSize)
	}
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("RAG_TOP_K", "not-a-number")
	t.Setenv("LLM_RATE_PER_SECOND", "fast")

	cfg := Load()
	if cfg.RAGTopK != 5 {
		t.Fatalf("expected fallback top k 5, got %d", cfg.RAGTopK)
	}
	if cfg.LLMRatePerSecond != 2 {
		t.Fatalf("expected fallback rate 2, got %v", cfg.LLMRatePerSecond)
	}
}
