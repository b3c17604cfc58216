package ports

import (
	"context"
	"io"

	"github.com/ananyak/ndra/internal/core/domain"
)

// DocumentIngestor is the inbound contract for document upload orchestration.
type DocumentIngestor interface {
	Upload(ctx context.Context, filename, mimeType string, body io.Reader) (*domain.Document, error)
}

// PolicyQueryService is the inbound contract for the question-answering
// pipeline.
type PolicyQueryService interface {
	Run(ctx context.Context, query domain.RawQuery) (*domain.PipelineResult, error)
}

// DocumentReader is the inbound read model for document metadata/state.
type DocumentReader interface {
	GetByID(ctx context.Context, id string) (*domain.Document, error)
}

// DocumentProcessor is the inbound contract for asynchronous document
// processing.
type DocumentProcessor interface {
	ProcessByID(ctx context.Context, documentID string) error
}
