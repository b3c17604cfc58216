package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ananyak/ndra/internal/core/domain"
	"github.com/ananyak/ndra/internal/core/ports"
)

const extractionFailedMarker = "Failed to extract JSON"

const extractPromptTemplate = `You are an intelligent query parser for insurance-related requests.

Given this user query:
"%s"

Extract and return a structured JSON object with the following fields if they appear:
- age
- gender
- procedure (surgery or treatment)
- location
- policy_duration (e.g., how old the policy is, like "3 months")
- subject (general topic of the query if not person-specific)

Return a valid JSON. If any field is missing or irrelevant, set it as null.`

// QueryExtractor pulls structured fields out of a free-text query via
// the primary model. Failures never surface as errors; they land in
// ExtractedInfo.Err and short-circuit the rewrite downstream.
type QueryExtractor struct {
	llm ports.CompletionClient
}

func NewQueryExtractor(llm ports.CompletionClient) *QueryExtractor {
	return &QueryExtractor{llm: llm}
}

func (e *QueryExtractor) Extract(ctx context.Context, query string) domain.ExtractedInfo {
	prompt := fmt.Sprintf(extractPromptTemplate, query)

	raw, err := e.llm.Complete(ctx, prompt)
	if err != nil {
		slog.Warn("query_extraction_call_failed", "provider", e.llm.Name(), "error", err)
		return domain.ExtractedInfo{Err: fmt.Sprintf("model call failed: %v", err)}
	}

	info, err := parseExtraction(raw)
	if err != nil {
		slog.Warn("query_extraction_parse_failed", "error", err)
		return domain.ExtractedInfo{Err: extractionFailedMarker}
	}
	return info
}

// parseExtraction parses the model's reply as JSON. If the reply is not
// itself a JSON object, the first balanced {...} span is tried instead.
// No further salvage is attempted.
func parseExtraction(raw string) (domain.ExtractedInfo, error) {
	fields, err := decodeJSONObject(raw)
	if err != nil {
		span, ok := balancedJSONSpan(raw)
		if !ok {
			return domain.ExtractedInfo{}, fmt.Errorf("no JSON object in model output")
		}
		fields, err = decodeJSONObject(span)
		if err != nil {
			return domain.ExtractedInfo{}, fmt.Errorf("parse salvaged JSON: %w", err)
		}
	}

	return domain.ExtractedInfo{
		Age:            stringField(fields, "age"),
		Gender:         stringField(fields, "gender"),
		Procedure:      stringField(fields, "procedure"),
		Location:       stringField(fields, "location"),
		PolicyDuration: stringField(fields, "policy_duration"),
		Subject:        stringField(fields, "subject"),
	}, nil
}

func decodeJSONObject(s string) (map[string]any, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// balancedJSONSpan finds the first brace-balanced {...} substring.
func balancedJSONSpan(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

func stringField(fields map[string]any, key string) string {
	v, ok := fields[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}
