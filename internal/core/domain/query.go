package domain

import (
	"fmt"
	"math"
	"strings"
)

// RawQuery is the immutable pipeline input: the user's question plus
// optional caller-supplied metadata.
type RawQuery struct {
	Text     string            `json:"query"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// CoverageDomain is the insurance line a query is about.
type CoverageDomain string

const (
	DomainHealth   CoverageDomain = "health"
	DomainMotor    CoverageDomain = "motor"
	DomainTravel   CoverageDomain = "travel"
	DomainLife     CoverageDomain = "life"
	DomainProperty CoverageDomain = "property"
	DomainGeneral  CoverageDomain = "general"
)

// Intent is the closed set of recognized query intents.
type Intent string

const (
	IntentEligibilityCheck    Intent = "eligibility_check"
	IntentClaimStatus         Intent = "claim_status"
	IntentCoverageCheck       Intent = "coverage_check"
	IntentRenewal             Intent = "renewal"
	IntentPremiumInfo         Intent = "premium_info"
	IntentDocumentRequirement Intent = "document_requirement"
	IntentGeneralInquiry      Intent = "general_inquiry"
)

// ExtractedInfo holds the structured fields pulled out of a free-text
// query. Missing fields are empty strings. A non-empty Err marks a
// terminal extraction failure; downstream phrase construction must
// short-circuit on it.
type ExtractedInfo struct {
	Age            string `json:"age,omitempty"`
	Gender         string `json:"gender,omitempty"`
	Procedure      string `json:"procedure,omitempty"`
	Location       string `json:"location,omitempty"`
	PolicyDuration string `json:"policy_duration,omitempty"`
	Subject        string `json:"subject,omitempty"`

	Err string `json:"error,omitempty"`
}

func (i ExtractedInfo) Failed() bool {
	return i.Err != ""
}

// Render flattens the extracted fields into one lowercase string so the
// domain classifier can keyword-match against field values as well as
// the raw query text. Every field name is rendered even when the value
// is empty; the names themselves participate in keyword matching, and
// "procedure" in particular is a health keyword.
func (i ExtractedInfo) Render() string {
	var b strings.Builder
	writeField := func(name, value string) {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s: %s", name, value)
	}
	writeField("age", i.Age)
	writeField("gender", i.Gender)
	writeField("procedure", i.Procedure)
	writeField("location", i.Location)
	writeField("policy_duration", i.PolicyDuration)
	writeField("subject", i.Subject)
	return strings.ToLower(b.String())
}

// StructuredQuery is the canonical record assembled from a raw query,
// its extraction result, and the deterministic rewrite.
type StructuredQuery struct {
	OriginalQuery  string            `json:"original_query"`
	RewrittenQuery string            `json:"rewritten_query"`
	Intent         Intent            `json:"intent"`
	Subject        string            `json:"subject,omitempty"`
	Age            string            `json:"age,omitempty"`
	Gender         string            `json:"gender,omitempty"`
	Procedure      string            `json:"procedure,omitempty"`
	Location       string            `json:"location,omitempty"`
	PolicyDuration string            `json:"policy_duration,omitempty"`
	Entities       map[string]string `json:"extracted_entities"`
}

// CompletenessScore is the fraction of the six structured fields that
// were extracted, rounded to two decimals.
func (q StructuredQuery) CompletenessScore() float64 {
	fields := []string{q.Subject, q.Age, q.Gender, q.Procedure, q.Location, q.PolicyDuration}
	filled := 0
	for _, f := range fields {
		if f != "" {
			filled++
		}
	}
	return math.Round(float64(filled)/float64(len(fields))*100) / 100
}

// RetrievedPassage is one similarity-search hit, cleaned for prompting.
type RetrievedPassage struct {
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Verdict is the binary answer extracted from model output.
type Verdict string

const (
	VerdictYes Verdict = "Yes"
	VerdictNo  Verdict = "No"
)

// AnswerRecord is the parsed, clause-traceable answer. Verdict defaults
// to No when no recognizable pattern is found; that is a conservative
// default, not an inferred negative.
type AnswerRecord struct {
	Verdict           Verdict  `json:"verdict"`
	Justification     string   `json:"justification"`
	SupportingClauses []string `json:"supporting_clauses"`
}

// StageTiming records wall-clock durations in seconds, rounded to four
// decimals.
type StageTiming struct {
	RetrievalSeconds float64 `json:"semantic_search"`
	InferenceSeconds float64 `json:"llm_inference"`
	TotalSeconds     float64 `json:"total"`
}

// PipelineResult is the per-request aggregate returned to the boundary
// layer. It is never persisted.
type PipelineResult struct {
	Query             string           `json:"query"`
	RewrittenQuery    string           `json:"rewritten_query"`
	Intent            Intent           `json:"intent"`
	MatchedClauses    []string         `json:"matched_clauses"`
	Answer            AnswerRecord     `json:"answer"`
	RawOutput         string           `json:"raw_llm_output"`
	Completeness      float64          `json:"completeness_score"`
	RetrievalMetadata []map[string]any `json:"retrieval_metadata"`
	Structured        StructuredQuery  `json:"structured_query"`
	Timing            StageTiming      `json:"timing"`
}
