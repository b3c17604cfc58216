package usecase

import (
	"testing"

	"github.com/ananyak/ndra/internal/core/domain"
)

func TestClassifyDomainFromSubject(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		want    domain.CoverageDomain
	}{
		{"health keyword", "knee surgery waiting period", domain.DomainHealth},
		{"motor keyword", "car accident claim", domain.DomainMotor},
		{"travel keyword", "missed flight refund", domain.DomainTravel},
		{"life keyword", "nominee for the sum assured", domain.DomainLife},
		{"property keyword", "flood in the house", domain.DomainProperty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := domain.ExtractedInfo{Subject: tt.subject}
			got := ClassifyDomain(info, "what does my policy say")
			if got != tt.want {
				t.Fatalf("ClassifyDomain(subject=%q) = %s, want %s", tt.subject, got, tt.want)
			}
		})
	}
}

func TestClassifyDomainSubjectTakesPrecedence(t *testing.T) {
	// The subject pass runs before the full-text pass, so a motor
	// subject wins even though the full text always carries the
	// rendered "procedure" field name.
	info := domain.ExtractedInfo{Subject: "car accident claim"}
	got := ClassifyDomain(info, "does the policy cover knee surgery")
	if got != domain.DomainMotor {
		t.Fatalf("expected subject match to win, got %s", got)
	}
}

func TestClassifyDomainFirstTableRowWins(t *testing.T) {
	// "theft" appears in both the motor and property rows; motor is
	// listed first and must win.
	got := ClassifyDomain(domain.ExtractedInfo{Subject: "reporting a theft"}, "reporting a theft")
	if got != domain.DomainMotor {
		t.Fatalf("expected motor for ambiguous keyword, got %s", got)
	}
}

func TestClassifyDomainWholeWordOnly(t *testing.T) {
	// "healthy" must not match the "health" keyword, so the motor
	// keyword in the same subject decides.
	got := ClassifyDomain(domain.ExtractedInfo{Subject: "healthy car owner"}, "am i a healthy car owner")
	if got != domain.DomainMotor {
		t.Fatalf("expected motor for substring-only health hit, got %s", got)
	}
}

func TestClassifyDomainFullTextDefaultsToHealth(t *testing.T) {
	// The rendered extraction record always contains the field name
	// "procedure", a health keyword, so any query without a subject
	// match resolves to health in the full-text pass, keyword or not.
	tests := []string{
		"is my claim approved",
		"my car was damaged in an accident",
		"tell me about my account",
	}
	for _, query := range tests {
		if got := ClassifyDomain(domain.ExtractedInfo{}, query); got != domain.DomainHealth {
			t.Fatalf("ClassifyDomain(%q) = %s, want %s", query, got, domain.DomainHealth)
		}
	}
}
