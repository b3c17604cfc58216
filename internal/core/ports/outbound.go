package ports

import (
	"context"
	"io"

	"github.com/ananyak/ndra/internal/core/domain"
)

// DocumentRepository persists and reads policy document state.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
	SetChunkCount(ctx context.Context, id string, chunkCount int) error
}

// ObjectStorage stores source documents.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes ingestion events.
type MessageQueue interface {
	PublishDocumentIngested(ctx context.Context, documentID string) error
	SubscribeDocumentIngested(ctx context.Context, handler func(context.Context, string) error) error
}

// TextExtractor extracts plain text from a stored document.
type TextExtractor interface {
	Extract(ctx context.Context, doc *domain.Document) (string, error)
}

// Embedder builds vectors for chunks and query text. The same model
// must serve indexing and querying; a mismatch silently breaks
// retrieval and is not validated here.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Chunker splits extracted text into indexable chunks.
type Chunker interface {
	Split(text string) []string
}

// VectorIndex indexes chunks and answers nearest-neighbor queries. The
// query path returns passages in the index's own similarity order.
type VectorIndex interface {
	IndexChunks(ctx context.Context, doc *domain.Document, chunks []string, vectors [][]float32) error
	Query(ctx context.Context, vector []float32, topK int) ([]domain.RetrievedPassage, error)
}

// CompletionClient is a black-box complete(prompt) -> text model.
type CompletionClient interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}
