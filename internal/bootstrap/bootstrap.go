package bootstrap

import (
	"context"
	"fmt"

	"github.com/ananyak/ndra/internal/config"
	"github.com/ananyak/ndra/internal/core/ports"
	"github.com/ananyak/ndra/internal/core/usecase"
	"github.com/ananyak/ndra/internal/infrastructure/chunking"
	"github.com/ananyak/ndra/internal/infrastructure/extractor/doctext"
	"github.com/ananyak/ndra/internal/infrastructure/llm/gemini"
	"github.com/ananyak/ndra/internal/infrastructure/llm/ollama"
	"github.com/ananyak/ndra/internal/infrastructure/llm/openrouter"
	"github.com/ananyak/ndra/internal/infrastructure/queue/nats"
	"github.com/ananyak/ndra/internal/infrastructure/repository/postgres"
	"github.com/ananyak/ndra/internal/infrastructure/resilience"
	"github.com/ananyak/ndra/internal/infrastructure/storage/localfs"
	"github.com/ananyak/ndra/internal/infrastructure/vector/chroma"
)

type App struct {
	Config config.Config

	Queue     ports.MessageQueue
	Repo      ports.DocumentRepository
	IngestUC  ports.DocumentIngestor
	ProcessUC ports.DocumentProcessor
	Pipeline  *usecase.Pipeline
	Inference *usecase.FailoverStrategy

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewDocumentRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	ollamaClient := ollama.New(cfg.OllamaURL, cfg.OllamaEmbedModel)
	embedder := ollama.NewEmbedderWithExecutor(ollamaClient, executor)

	vectorIndex := chroma.New(cfg.ChromaURL, cfg.ChromaCollection)
	chunker := chunking.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap)
	extractor := doctext.NewExtractor(storage)

	primary := openrouter.New(cfg.OpenRouterAPIKey, cfg.OpenRouterBaseURL, cfg.PrimaryModel, cfg.LLMRatePerSecond)
	fallback := gemini.New(cfg.GeminiBaseURL, cfg.GeminiModel, cfg.GeminiAPIKey)
	inference := usecase.NewFailoverStrategy(primary, fallback)

	queryExtractor := usecase.NewQueryExtractor(primary)
	retriever := usecase.NewRetriever(embedder, vectorIndex, cfg.CleanWorkers)
	pipeline := usecase.NewPipeline(queryExtractor, retriever, inference, cfg.RAGTopK, cfg.ClauseTopK)

	ingestUC := usecase.NewIngestDocumentUseCase(repo, storage, queue)
	processUC := usecase.NewProcessDocumentUseCase(repo, extractor, chunker, embedder, vectorIndex)

	return &App{
		Config: cfg,
		Queue:  queue,
		Repo:   repo,

		IngestUC:  ingestUC,
		ProcessUC: processUC,
		Pipeline:  pipeline,
		Inference: inference,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
