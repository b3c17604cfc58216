package usecase

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/ananyak/ndra/internal/core/domain"
)

// Verdict matchers are tried in priority order against the raw model
// output; the first capture wins. When none match the verdict defaults
// to No, a conservative default rather than an inferred negative.
var verdictMatchers = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\*\*\s*1[.)]?\s*\*\*\s*:?\s*(yes|no)\b`),
	regexp.MustCompile(`(?im)^\s*1[.)]\s*(yes|no)\b`),
	regexp.MustCompile(`(?i)answer\s*[:\-]\s*(yes|no)\b`),
	regexp.MustCompile(`(?i)^\s*(yes|no)\b`),
}

// justificationPattern captures the markdown-numbered second section up
// to the next numbered section or end of text.
var justificationPattern = regexp.MustCompile(`(?is)\*\*\s*2[^*]*\*\*\s*:?\s*(.*?)(?:\n\s*(?:\*\*\s*)?3[.)]|\z)`)

// ParseAnswer extracts a verdict and justification from unstructured
// model output. It never fails: malformed output degrades to verdict No
// with the whole text as justification.
func ParseAnswer(raw string) domain.AnswerRecord {
	verdict := domain.VerdictNo
	for _, matcher := range verdictMatchers {
		if m := matcher.FindStringSubmatch(raw); m != nil {
			if strings.EqualFold(m[1], "yes") {
				verdict = domain.VerdictYes
			}
			break
		}
	}

	justification := raw
	if m := justificationPattern.FindStringSubmatch(raw); m != nil {
		if text := strings.TrimSpace(m[1]); text != "" {
			justification = text
		}
	}

	return domain.AnswerRecord{
		Verdict:       verdict,
		Justification: justification,
	}
}

// TraceClauses scores each passage against the justification text and
// returns the topK best supporters in similarity-descending order. The
// sort is stable, so ties keep the original index order, and the result
// is always a subsequence of the input passages.
func TraceClauses(justification string, passages []domain.RetrievedPassage, topK int) []domain.RetrievedPassage {
	if topK <= 0 {
		topK = 3
	}
	if len(passages) == 0 {
		return nil
	}

	type scored struct {
		passage domain.RetrievedPassage
		score   float64
	}
	candidates := make([]scored, 0, len(passages))
	justTokens := similarityTokens(justification)
	for _, p := range passages {
		candidates = append(candidates, scored{
			passage: p,
			score:   similarityRatio(justTokens, similarityTokens(p.Text)),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if topK > len(candidates) {
		topK = len(candidates)
	}
	out := make([]domain.RetrievedPassage, 0, topK)
	for _, c := range candidates[:topK] {
		out = append(out, c.passage)
	}
	return out
}

// similarityRatio is a normalized token-overlap ratio in [0,1]:
// 2*shared / (len(a)+len(b)) over lowercase alphanumeric token sets.
func similarityRatio(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	common := 0
	for token := range a {
		if _, ok := b[token]; ok {
			common++
		}
	}
	return 2 * float64(common) / float64(len(a)+len(b))
}

func similarityTokens(s string) map[string]struct{} {
	out := make(map[string]struct{})
	var b strings.Builder
	flush := func() {
		if b.Len() > 0 {
			out[b.String()] = struct{}{}
			b.Reset()
		}
	}
	for _, r := range s {
		r = unicode.ToLower(r)
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			continue
		}
		flush()
	}
	flush()
	return out
}
