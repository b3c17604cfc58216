package usecase

import (
	"reflect"
	"testing"

	"github.com/ananyak/ndra/internal/core/domain"
)

func TestClassifyIntent(t *testing.T) {
	tests := []struct {
		query string
		want  domain.Intent
	}{
		{"Am I eligible for knee surgery coverage?", domain.IntentEligibilityCheck},
		{"What is my claim status?", domain.IntentClaimStatus},
		{"Is knee surgery covered?", domain.IntentCoverageCheck},
		{"How do I renew my policy?", domain.IntentRenewal},
		{"What is the premium for this plan?", domain.IntentPremiumInfo},
		{"Which documents do I need?", domain.IntentDocumentRequirement},
		{"Hello there", domain.IntentGeneralInquiry},
	}
	for _, tt := range tests {
		if got := ClassifyIntent(tt.query); got != tt.want {
			t.Fatalf("ClassifyIntent(%q) = %s, want %s", tt.query, got, tt.want)
		}
	}
}

func TestClassifyIntentFirstRuleWins(t *testing.T) {
	// Matches both eligibility ("eligible") and coverage ("covered");
	// the eligibility rule is listed first.
	got := ClassifyIntent("Am I still eligible and covered?")
	if got != domain.IntentEligibilityCheck {
		t.Fatalf("expected eligibility_check, got %s", got)
	}
}

func TestExtractEntities(t *testing.T) {
	got := ExtractEntities("I had an accident 2 months ago with my existing policy")
	want := map[string]string{
		"incident":      "accident",
		"incident_time": "2 months ago",
		"policy_status": "existing",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ExtractEntities = %v, want %v", got, want)
	}
}

func TestExtractEntitiesSurgeryAndLastMonth(t *testing.T) {
	got := ExtractEntities("my knee surgery last month under a new policy")
	want := map[string]string{
		"incident":      "surgery",
		"incident_time": "last month",
		"policy_status": "new",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ExtractEntities = %v, want %v", got, want)
	}
}

func TestExtractEntitiesAccidentBeatsSurgery(t *testing.T) {
	got := ExtractEntities("surgery after the accident")
	if got["incident"] != "accident" {
		t.Fatalf("expected accident to win, got %v", got)
	}
}

func TestExtractEntitiesEmpty(t *testing.T) {
	got := ExtractEntities("tell me about coverage")
	if len(got) != 0 {
		t.Fatalf("expected no entities, got %v", got)
	}
}

func TestBuildStructuredQueryDeterministic(t *testing.T) {
	info := domain.ExtractedInfo{
		Age:       "46",
		Gender:    "male",
		Procedure: "knee surgery",
	}
	raw := "Am I eligible for knee surgery after an accident 3 months ago?"

	first := BuildStructuredQuery(info, "rewritten", raw)
	for i := 0; i < 5; i++ {
		got := BuildStructuredQuery(info, "rewritten", raw)
		if !reflect.DeepEqual(got, first) {
			t.Fatalf("structured query not deterministic")
		}
	}

	if first.Intent != domain.IntentEligibilityCheck {
		t.Fatalf("expected eligibility_check, got %s", first.Intent)
	}
	if first.OriginalQuery != raw || first.RewrittenQuery != "rewritten" {
		t.Fatalf("unexpected query fields: %+v", first)
	}
	if first.Entities["incident"] != "accident" || first.Entities["incident_time"] != "3 months ago" {
		t.Fatalf("unexpected entities: %v", first.Entities)
	}
}

func TestCompletenessScore(t *testing.T) {
	q := domain.StructuredQuery{Age: "46", Gender: "male", Procedure: "knee surgery"}
	if got := q.CompletenessScore(); got != 0.5 {
		t.Fatalf("expected 0.5, got %v", got)
	}

	empty := domain.StructuredQuery{}
	if got := empty.CompletenessScore(); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}

	full := domain.StructuredQuery{
		Subject: "s", Age: "a", Gender: "g",
		Procedure: "p", Location: "l", PolicyDuration: "d",
	}
	if got := full.CompletenessScore(); got != 1 {
		t.Fatalf("expected 1, got %v", got)
	}
}
