package usecase

import (
	"regexp"
	"strings"

	"github.com/ananyak/ndra/internal/core/domain"
)

// Intent rules are tried in order against the raw query (not the
// rewrite); the first rule with a substring hit wins. The order is
// load-bearing and mirrors the original tables.
var intentRules = []struct {
	intent   domain.Intent
	keywords []string
}{
	{domain.IntentEligibilityCheck, []string{"eligible", "eligibility", "can i", "still covered"}},
	{domain.IntentClaimStatus, []string{"claim status", "track claim", "claim update"}},
	{domain.IntentCoverageCheck, []string{"covered", "coverage", "what is included"}},
	{domain.IntentRenewal, []string{"renew", "extension", "renewal"}},
	{domain.IntentPremiumInfo, []string{"premium", "cost", "price", "installment"}},
	{domain.IntentDocumentRequirement, []string{"documents", "papers", "required for"}},
}

var incidentTimePattern = regexp.MustCompile(`(last month|[0-9]+\s+(days?|months?|years?)\s+ago)`)

// ClassifyIntent scans the raw query against the intent keyword table.
func ClassifyIntent(query string) domain.Intent {
	qlower := strings.ToLower(query)
	for _, rule := range intentRules {
		for _, kw := range rule.keywords {
			if strings.Contains(qlower, kw) {
				return rule.intent
			}
		}
	}
	return domain.IntentGeneralInquiry
}

// ExtractEntities runs three independent scans over the raw query:
// incident type, incident recency, and policy status. Each scan
// short-circuits on its first match.
func ExtractEntities(query string) map[string]string {
	qlower := strings.ToLower(query)
	entities := map[string]string{}

	if strings.Contains(qlower, "accident") {
		entities["incident"] = "accident"
	} else if strings.Contains(qlower, "surgery") {
		entities["incident"] = "surgery"
	}

	if m := incidentTimePattern.FindString(qlower); m != "" {
		entities["incident_time"] = m
	}

	if strings.Contains(qlower, "new policy") {
		entities["policy_status"] = "new"
	} else if strings.Contains(qlower, "old policy") || strings.Contains(qlower, "existing policy") {
		entities["policy_status"] = "existing"
	}

	return entities
}

// BuildStructuredQuery assembles the canonical query record. It is pure
// and deterministic given its inputs.
func BuildStructuredQuery(info domain.ExtractedInfo, rewritten, raw string) domain.StructuredQuery {
	return domain.StructuredQuery{
		OriginalQuery:  raw,
		RewrittenQuery: rewritten,
		Intent:         ClassifyIntent(raw),
		Subject:        info.Subject,
		Age:            info.Age,
		Gender:         info.Gender,
		Procedure:      info.Procedure,
		Location:       info.Location,
		PolicyDuration: info.PolicyDuration,
		Entities:       ExtractEntities(raw),
	}
}
