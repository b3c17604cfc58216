package usecase

import (
	"fmt"
	"strings"

	"github.com/ananyak/ndra/internal/core/domain"
)

// BuildAnswerPrompt renders the single instructional prompt sent to the
// completion model. The indirect-implication rule deliberately relaxes
// lexical matching so a clause naming a procedural category counts for
// a specific named procedure.
func BuildAnswerPrompt(structured domain.StructuredQuery, passages []domain.RetrievedPassage) string {
	var clauses strings.Builder
	for _, p := range passages {
		clauses.WriteString("- ")
		clauses.WriteString(strings.TrimSpace(p.Text))
		clauses.WriteByte('\n')
	}

	prompt := fmt.Sprintf(`You are an Advanced Policy Document Assistant.

A user asked: "%s"

Rewritten query: "%s"

Structured query details:
- Intent: %s
- Subject: %s
- Age: %s
- Gender: %s
- Procedure: %s
- Location: %s
- Policy Duration: %s

Relevant clauses:
%s
Reasoning instructions:
- If a clause mentions a general category of procedures or situations, treat it as covering a specific named case unless the policy explicitly excludes it.
- Combine reasoning across multiple applicable clauses before deciding.
- If you are uncertain, state exactly what information is missing.
- Indirect category implication counts: a clause about "orthopedic procedures" is relevant to a specific named surgery even without an exact wording match.

Based on the above, you must provide:
1. A clear YES/NO answer (if applicable)
2. Explanation referencing the clause
3. Final decision

Return only the final answer with a short justification.`,
		structured.OriginalQuery,
		structured.RewrittenQuery,
		structured.Intent,
		orNull(structured.Subject),
		orNull(structured.Age),
		orNull(structured.Gender),
		orNull(structured.Procedure),
		orNull(structured.Location),
		orNull(structured.PolicyDuration),
		clauses.String(),
	)
	return strings.TrimSpace(prompt)
}

func orNull(s string) string {
	if s == "" {
		return "null"
	}
	return s
}
