package usecase

import (
	"context"
	"math"
	"time"

	"github.com/ananyak/ndra/internal/core/domain"
)

// Pipeline sequences the query-understanding-and-answer stages:
// extract, rewrite, structure, retrieve, prompt, infer, parse, trace.
// Only the passage cleaning inside the retriever and the failover
// inside the inference strategy deviate from strict sequencing.
type Pipeline struct {
	extractor *QueryExtractor
	retriever *Retriever
	inference *FailoverStrategy

	topK       int
	clauseTopK int
}

func NewPipeline(extractor *QueryExtractor, retriever *Retriever, inference *FailoverStrategy, topK, clauseTopK int) *Pipeline {
	if topK <= 0 {
		topK = 5
	}
	if clauseTopK <= 0 {
		clauseTopK = 3
	}
	return &Pipeline{
		extractor:  extractor,
		retriever:  retriever,
		inference:  inference,
		topK:       topK,
		clauseTopK: clauseTopK,
	}
}

// Run executes the pipeline for one request. Understanding and
// answer-shaping failures degrade to conservative defaults; retrieval
// failures propagate as hard errors.
func (p *Pipeline) Run(ctx context.Context, query domain.RawQuery) (*domain.PipelineResult, error) {
	overallStart := time.Now()

	info := p.extractor.Extract(ctx, query.Text)
	rewritten := RewriteQuery(info, query.Text)
	structured := BuildStructuredQuery(info, rewritten, query.Text)

	searchStart := time.Now()
	passages, err := p.retriever.Search(ctx, rewritten, p.topK)
	if err != nil {
		return nil, err
	}
	searchElapsed := time.Since(searchStart)

	prompt := BuildAnswerPrompt(structured, passages)

	inferStart := time.Now()
	rawOutput := p.inference.Complete(ctx, prompt)
	inferElapsed := time.Since(inferStart)

	answer := ParseAnswer(rawOutput)
	supporting := TraceClauses(answer.Justification, passages, p.clauseTopK)
	for _, clause := range supporting {
		answer.SupportingClauses = append(answer.SupportingClauses, clause.Text)
	}

	matched := make([]string, 0, len(passages))
	metadata := make([]map[string]any, 0, len(passages))
	for _, passage := range passages {
		matched = append(matched, passage.Text)
		metadata = append(metadata, passage.Metadata)
	}

	return &domain.PipelineResult{
		Query:             query.Text,
		RewrittenQuery:    rewritten,
		Intent:            structured.Intent,
		MatchedClauses:    matched,
		Answer:            answer,
		RawOutput:         rawOutput,
		Completeness:      structured.CompletenessScore(),
		RetrievalMetadata: metadata,
		Structured:        structured,
		Timing: domain.StageTiming{
			RetrievalSeconds: roundSeconds(searchElapsed),
			InferenceSeconds: roundSeconds(inferElapsed),
			TotalSeconds:     roundSeconds(time.Since(overallStart)),
		},
	}, nil
}

func roundSeconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*10000) / 10000
}
