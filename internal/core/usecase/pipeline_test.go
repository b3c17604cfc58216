package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ananyak/ndra/internal/core/domain"
)

// pipelineLLMFake answers the extraction prompt with structured JSON and
// every other prompt with a canned markdown verdict.
type pipelineLLMFake struct {
	extraction string
	answer     string
	err        error
}

func (f *pipelineLLMFake) Name() string { return "fake" }

func (f *pipelineLLMFake) Complete(_ context.Context, prompt string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if strings.Contains(prompt, "intelligent query parser") {
		return f.extraction, nil
	}
	return f.answer, nil
}

func newTestPipeline(llm *pipelineLLMFake, index *retrieveIndexFake) *Pipeline {
	embedder := &retrieveEmbedderFake{vector: []float32{0.1, 0.2}}
	retriever := NewRetriever(embedder, index, 2)
	inference := NewFailoverStrategy(llm)
	return NewPipeline(NewQueryExtractor(llm), retriever, inference, 5, 3)
}

func TestPipelineRunKneeSurgeryScenario(t *testing.T) {
	llm := &pipelineLLMFake{
		extraction: `{"age": "46", "gender": "male", "procedure": "knee surgery", "location": "Pune", "policy_duration": "3 months", "subject": null}`,
		answer:     "**1.** Yes\n**2. Explanation:** Joint surgeries including knee replacement are covered after the 90-day waiting period.\n**3.** Final decision: approved.",
	}
	index := &retrieveIndexFake{passages: []domain.RetrievedPassage{
		{Text: "Joint surgeries are covered after a 90-day waiting period.", Metadata: map[string]any{"doc_title": "Health Policy Wording"}},
		{Text: "Premium payments are due monthly.", Metadata: map[string]any{"doc_title": "Health Policy Wording"}},
	}}
	p := newTestPipeline(llm, index)

	result, err := p.Run(context.Background(), domain.RawQuery{Text: "Is knee surgery covered for a 46M in Pune with a 3-month policy?"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Answer.Verdict != domain.VerdictYes {
		t.Fatalf("expected Yes, got %s", result.Answer.Verdict)
	}
	if result.Intent != domain.IntentCoverageCheck {
		t.Fatalf("expected coverage_check, got %s", result.Intent)
	}
	if !strings.Contains(result.RewrittenQuery, "46 years old") {
		t.Fatalf("expected rewritten query with age, got %q", result.RewrittenQuery)
	}
	if len(result.MatchedClauses) != 2 {
		t.Fatalf("expected 2 matched clauses, got %d", len(result.MatchedClauses))
	}
	if len(result.Answer.SupportingClauses) == 0 {
		t.Fatalf("expected traced supporting clauses")
	}
	if !strings.Contains(result.Answer.SupportingClauses[0], "Joint surgeries") {
		t.Fatalf("expected surgery clause traced first, got %q", result.Answer.SupportingClauses[0])
	}
	if result.Completeness != 0.83 {
		t.Fatalf("expected completeness 0.83, got %v", result.Completeness)
	}
	if result.Timing.TotalSeconds < 0 || result.Timing.RetrievalSeconds < 0 || result.Timing.InferenceSeconds < 0 {
		t.Fatalf("negative timings: %+v", result.Timing)
	}
	if result.Timing.TotalSeconds < result.Timing.RetrievalSeconds {
		t.Fatalf("total below retrieval: %+v", result.Timing)
	}
	if result.RetrievalMetadata[0]["doc_title"] != "Health Policy Wording" {
		t.Fatalf("expected metadata carried through, got %v", result.RetrievalMetadata)
	}
}

func TestPipelineRunRetrievalFailureIsHardError(t *testing.T) {
	llm := &pipelineLLMFake{extraction: `{"subject": "coverage"}`, answer: "**1.** Yes"}
	index := &retrieveIndexFake{err: errors.New("chroma unreachable")}
	p := newTestPipeline(llm, index)

	_, err := p.Run(context.Background(), domain.RawQuery{Text: "Is it covered?"})
	if err == nil || !strings.Contains(err.Error(), "query vector index") {
		t.Fatalf("expected retrieval error, got %v", err)
	}
}

func TestPipelineRunExtractionFailureDegrades(t *testing.T) {
	llm := &pipelineLLMFake{extraction: "no json here", answer: "**1.** No\n**2.** Nothing applies."}
	index := &retrieveIndexFake{passages: []domain.RetrievedPassage{{Text: "some clause"}}}
	p := newTestPipeline(llm, index)

	result, err := p.Run(context.Background(), domain.RawQuery{Text: "Is knee surgery covered?"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.RewrittenQuery != UnableToProcess {
		t.Fatalf("expected %q, got %q", UnableToProcess, result.RewrittenQuery)
	}
	if result.Answer.Verdict != domain.VerdictNo {
		t.Fatalf("expected No, got %s", result.Answer.Verdict)
	}
}
