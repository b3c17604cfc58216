package chroma

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ananyak/ndra/internal/core/domain"
)

// Client talks to a Chroma server over its HTTP API. One process-wide
// client is constructed at startup and shared; it is safe for
// concurrent use.
type Client struct {
	baseURL    string
	collection string
	httpClient *http.Client

	ensureMu     sync.Mutex
	collectionID string
}

func New(baseURL, collection string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		collection: collection,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Query runs a single nearest-neighbor search and returns passages in
// the server's similarity order. Results are passed through unmodified;
// cleaning and truncation happen downstream.
func (c *Client) Query(ctx context.Context, vector []float32, topK int) ([]domain.RetrievedPassage, error) {
	collectionID, err := c.ensureCollection(ctx)
	if err != nil {
		return nil, err
	}

	reqBody := map[string]any{
		"query_embeddings": [][]float32{vector},
		"n_results":        topK,
		"include":          []string{"documents", "metadatas"},
	}

	var queryResp struct {
		Documents [][]string         `json:"documents"`
		Metadatas [][]map[string]any `json:"metadatas"`
	}
	path := fmt.Sprintf("/api/v1/collections/%s/query", collectionID)
	if err := c.postJSON(ctx, path, reqBody, &queryResp, "query"); err != nil {
		return nil, err
	}

	if len(queryResp.Documents) == 0 {
		return nil, nil
	}
	documents := queryResp.Documents[0]
	var metadatas []map[string]any
	if len(queryResp.Metadatas) > 0 {
		metadatas = queryResp.Metadatas[0]
	}

	out := make([]domain.RetrievedPassage, 0, len(documents))
	for i, doc := range documents {
		passage := domain.RetrievedPassage{Text: doc}
		if i < len(metadatas) {
			passage.Metadata = metadatas[i]
		}
		out = append(out, passage)
	}
	return out, nil
}

// IndexChunks upserts chunk texts with their vectors and document
// payload. Used only by the ingestion worker; the query path never
// writes.
func (c *Client) IndexChunks(ctx context.Context, doc *domain.Document, chunks []string, vectors [][]float32) error {
	if len(chunks) == 0 || len(vectors) == 0 {
		return nil
	}
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunks/vectors mismatch")
	}

	collectionID, err := c.ensureCollection(ctx)
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(chunks))
	metadatas := make([]map[string]any, 0, len(chunks))
	for i := range chunks {
		ids = append(ids, uuid.NewString())
		metadatas = append(metadatas, map[string]any{
			"doc_id":      doc.ID,
			"doc_title":   doc.Title,
			"filename":    doc.Filename,
			"chunk_index": i,
		})
	}

	reqBody := map[string]any{
		"ids":        ids,
		"embeddings": vectors,
		"documents":  chunks,
		"metadatas":  metadatas,
	}

	path := fmt.Sprintf("/api/v1/collections/%s/add", collectionID)
	var addResp any
	return c.postJSON(ctx, path, reqBody, &addResp, "add")
}

// ensureCollection resolves (or creates) the collection and caches its
// server-side id for the process lifetime.
func (c *Client) ensureCollection(ctx context.Context) (string, error) {
	c.ensureMu.Lock()
	defer c.ensureMu.Unlock()

	if c.collectionID != "" {
		return c.collectionID, nil
	}

	reqBody := map[string]any{
		"name":          c.collection,
		"get_or_create": true,
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := c.postJSON(ctx, "/api/v1/collections", reqBody, &created, "ensure collection"); err != nil {
		return "", err
	}
	if created.ID == "" {
		return "", fmt.Errorf("chroma ensure collection: empty collection id")
	}
	c.collectionID = created.ID
	return c.collectionID, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload any, out any, operation string) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create %s request: %w", operation, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("chroma %s request: %w", operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		trimmed := strings.TrimSpace(string(msg))
		if trimmed == "" {
			return fmt.Errorf("chroma %s status: %s", operation, resp.Status)
		}
		return fmt.Errorf("chroma %s status: %s: %s", operation, resp.Status, trimmed)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", operation, err)
	}
	return nil
}
