package usecase

import (
	"regexp"
	"strings"

	"github.com/ananyak/ndra/internal/core/domain"
)

// The table order is load-bearing: the first domain whose keyword list
// matches wins, with no scoring. Do not reorder.
var domainKeywordTable = []struct {
	domain   domain.CoverageDomain
	keywords []string
}{
	{domain.DomainHealth, []string{
		"health", "hospital", "surgery", "treatment", "medical", "doctor", "illness",
		"pre-existing", "bypass", "angioplasty", "diabetes", "critical illness", "procedure",
	}},
	{domain.DomainMotor, []string{
		"motor", "car", "bike", "vehicle", "accident", "third-party", "own damage",
		"garage", "repair", "engine", "theft", "four-wheeler", "two-wheeler",
	}},
	{domain.DomainTravel, []string{
		"travel", "trip", "visa", "flight", "journey", "international", "abroad", "foreign",
		"luggage", "delay", "passport", "missed flight",
	}},
	{domain.DomainLife, []string{
		"life insurance", "death", "term plan", "nominee", "sum assured", "life cover",
		"maturity", "premium waiver", "term policy",
	}},
	{domain.DomainProperty, []string{
		"property", "fire", "theft", "flood", "earthquake", "natural disaster", "building",
		"home", "house", "damage", "structure",
	}},
}

var domainKeywordPatterns = compileDomainPatterns()

func compileDomainPatterns() []struct {
	domain   domain.CoverageDomain
	patterns []*regexp.Regexp
} {
	out := make([]struct {
		domain   domain.CoverageDomain
		patterns []*regexp.Regexp
	}, 0, len(domainKeywordTable))
	for _, row := range domainKeywordTable {
		patterns := make([]*regexp.Regexp, 0, len(row.keywords))
		for _, kw := range row.keywords {
			patterns = append(patterns, regexp.MustCompile(`\b`+regexp.QuoteMeta(kw)+`\b`))
		}
		out = append(out, struct {
			domain   domain.CoverageDomain
			patterns []*regexp.Regexp
		}{row.domain, patterns})
	}
	return out
}

// ClassifyDomain maps an extraction result plus the raw query text to a
// coverage domain. Whole-word matches against the extracted subject
// take precedence over matches against the full query text; if neither
// matches any table row the query is classified as general. The full
// text includes the rendered extraction record, whose field names are
// always present, so "procedure" makes the full-text pass resolve to
// health whenever the subject pass found nothing.
func ClassifyDomain(info domain.ExtractedInfo, query string) domain.CoverageDomain {
	subjectText := strings.ToLower(info.Subject)
	fullText := strings.ToLower(query) + " " + subjectText + " " + info.Render()

	for _, row := range domainKeywordPatterns {
		if anyPatternMatches(row.patterns, subjectText) {
			return row.domain
		}
	}
	for _, row := range domainKeywordPatterns {
		if anyPatternMatches(row.patterns, fullText) {
			return row.domain
		}
	}
	return domain.DomainGeneral
}

func anyPatternMatches(patterns []*regexp.Regexp, text string) bool {
	if text == "" {
		return false
	}
	for _, p := range patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}
