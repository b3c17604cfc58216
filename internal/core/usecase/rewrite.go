package usecase

import (
	"fmt"
	"strings"

	"github.com/ananyak/ndra/internal/core/domain"
)

// UnableToProcess is the fixed rewrite for a failed extraction.
const UnableToProcess = "Unable to process query."

var coverageHints = map[domain.CoverageDomain]string{
	domain.DomainHealth:   "Check hospitalization expenses, surgery costs, pre-existing condition clauses, and coverage exclusions.",
	domain.DomainMotor:    "Check coverage for accidents, third-party liability, own damage, and add-ons like zero depreciation.",
	domain.DomainTravel:   "Check coverage for trip cancellations, medical emergencies abroad, baggage loss, and visa support.",
	domain.DomainLife:     "Check policy sum assured, nominee details, term duration, and death benefit clauses.",
	domain.DomainProperty: "Check coverage for fire, theft, natural disasters, and exclusions related to unoccupied properties.",
	domain.DomainGeneral:  "Check overall coverage, exclusions, premium amounts, and terms & conditions.",
}

var eligibilityNotes = map[domain.CoverageDomain]string{
	domain.DomainHealth:   "Eligibility may depend on age, pre-existing conditions, waiting periods, and current health status.",
	domain.DomainMotor:    "Eligibility may depend on vehicle condition, registration location, and past claims history.",
	domain.DomainLife:     "Eligibility may depend on age, medical history, smoker status, and financial background.",
	domain.DomainTravel:   "Eligibility may depend on travel destination, age, trip purpose, and existing medical issues.",
	domain.DomainProperty: "Eligibility may depend on property type, location risk (e.g., flood-prone), and previous claims.",
	domain.DomainGeneral:  "Eligibility may vary depending on policy type, prior history, and specific terms and conditions.",
}

var vagueTriggerPhrases = []string{
	"can he", "can she", "can i", "is it possible", "am i allowed",
	"what if", "eligible", "eligibility", "allowed", "qualify",
}

func coverageHint(d domain.CoverageDomain) string {
	if hint, ok := coverageHints[d]; ok {
		return hint
	}
	return coverageHints[domain.DomainGeneral]
}

// resolvePerson picks the grammatical subject for eligibility phrasing.
// The checks are plain substring tests in a fixed order; first hit wins.
func resolvePerson(qlower string) string {
	switch {
	case strings.Contains(qlower, "dad"):
		return "your father"
	case strings.Contains(qlower, "mom"):
		return "your mother"
	case strings.Contains(qlower, "he"):
		return "he"
	case strings.Contains(qlower, "she"):
		return "she"
	case strings.Contains(qlower, "i"), strings.Contains(qlower, "me"):
		return "you"
	default:
		return "the individual"
	}
}

// RewriteQuery deterministically turns the user's question into a
// canonical, retrieval-friendly statement. No model call is made.
func RewriteQuery(info domain.ExtractedInfo, query string) string {
	if info.Failed() {
		return UnableToProcess
	}

	dom := ClassifyDomain(info, query)
	coverage := coverageHint(dom)

	subject := strings.ToLower(info.Subject)
	qlower := strings.ToLower(query)

	vague := strings.Contains(subject, "eligibility")
	if !vague {
		for _, phrase := range vagueTriggerPhrases {
			if strings.Contains(qlower, phrase) {
				vague = true
				break
			}
		}
	}

	person := resolvePerson(qlower)

	var phrases []string
	if info.Age != "" {
		phrases = append(phrases, fmt.Sprintf("%s years old", info.Age))
	}
	if info.Gender != "" {
		phrases = append(phrases, info.Gender)
	}
	if info.Location != "" {
		phrases = append(phrases, fmt.Sprintf("from %s", info.Location))
	}
	if info.Procedure != "" {
		phrases = append(phrases, fmt.Sprintf("had %s", info.Procedure))
	}
	if info.PolicyDuration != "" {
		phrases = append(phrases, fmt.Sprintf("with a %s old policy", info.PolicyDuration))
	}
	if info.Subject != "" && !vague {
		phrases = append(phrases, info.Subject)
	}

	joined := strings.Join(phrases, ", ")
	if joined == "" {
		joined = strings.TrimRight(strings.TrimSpace(query), "?. ")
	}

	if vague {
		var personPhrase string
		if dom == domain.DomainMotor || dom == domain.DomainProperty {
			switch person {
			case "you":
				personPhrase = "Can the vehicle be insured"
			case "the individual":
				personPhrase = "Can the item be insured"
			default:
				personPhrase = fmt.Sprintf("Can %s's vehicle be insured", person)
			}
		} else {
			personPhrase = fmt.Sprintf("Can %s be insured", person)
		}
		return fmt.Sprintf("%s? Based on the context: %s. %s %s",
			personPhrase, joined, eligibilityNotes[dom], coverage)
	}

	return fmt.Sprintf("Insurance policy coverage for %s. %s", joined, coverage)
}
