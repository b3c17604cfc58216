package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/ananyak/ndra/internal/core/domain"
	"github.com/ananyak/ndra/internal/core/ports"
)

const maxPassageChars = 400

// Retriever embeds the rewritten query, asks the external index for the
// top-K passages, and cleans them concurrently. Cleaning preserves the
// index's own ranking; there is no re-ranking, deduplication, or score
// thresholding here.
type Retriever struct {
	embedder     ports.Embedder
	index        ports.VectorIndex
	cleanWorkers int
}

func NewRetriever(embedder ports.Embedder, index ports.VectorIndex, cleanWorkers int) *Retriever {
	if cleanWorkers <= 0 {
		cleanWorkers = 4
	}
	return &Retriever{
		embedder:     embedder,
		index:        index,
		cleanWorkers: cleanWorkers,
	}
}

// Search returns cleaned passages in index order. Embedding and index
// failures propagate to the caller; the boundary layer reports them as
// a pipeline failure.
func (r *Retriever) Search(ctx context.Context, query string, topK int) ([]domain.RetrievedPassage, error) {
	if topK <= 0 {
		topK = 5
	}

	vector, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	passages, err := r.index.Query(ctx, vector, topK)
	if err != nil {
		return nil, fmt.Errorf("query vector index: %w", err)
	}

	r.cleanAll(passages)
	return passages, nil
}

// cleanAll normalizes passage text with a bounded worker pool. Results
// are written back by index, so order is untouched.
func (r *Retriever) cleanAll(passages []domain.RetrievedPassage) {
	if len(passages) == 0 {
		return
	}

	sem := make(chan struct{}, r.cleanWorkers)
	var wg sync.WaitGroup
	for i := range passages {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()
			passages[idx].Text = cleanPassageText(passages[idx].Text)
		}(i)
	}
	wg.Wait()
}

// cleanPassageText collapses whitespace and truncates to the passage
// length the prompt synthesizer expects.
func cleanPassageText(text string) string {
	collapsed := strings.Join(strings.Fields(text), " ")
	runes := []rune(collapsed)
	if len(runes) > maxPassageChars {
		return string(runes[:maxPassageChars])
	}
	return collapsed
}
