// Package review sends chat messages to a language model and parses its
// structured verdict.
package review

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Decision is the model's verdict on a message.
type Decision string

const (
	// DecisionIgnore means the message is out of scope (chit-chat etc.).
	DecisionIgnore Decision = "IGNORE"
	// DecisionNoIssues means the message is fine as written.
	DecisionNoIssues Decision = "NO_ISSUES"
	// DecisionCorrection means the model has a fix to offer.
	DecisionCorrection Decision = "CORRECTION"
)

// Correction carries the model's suggested fix.
type Correction struct {
	Message string `json:"message"`
}

// Evaluation is the parsed model response.
type Evaluation struct {
	Decision   Decision    `json:"decision"`
	Correction *Correction `json:"correction,omitempty"`
}

var fencedJSON = regexp.MustCompile("(?is)```(?:json)?\\s*(.*?)```")

// extractJSONPayload pulls the JSON object out of a raw model response,
// tolerating fenced code blocks and surrounding prose.
func extractJSONPayload(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	if m := fencedJSON.FindStringSubmatch(trimmed); len(m) == 2 && strings.TrimSpace(m[1]) != "" {
		return strings.TrimSpace(m[1])
	}

	first := strings.Index(trimmed, "{")
	last := strings.LastIndex(trimmed, "}")
	if first != -1 && last >= first {
		return trimmed[first : last+1]
	}
	return trimmed
}

// ParseEvaluation decodes a raw model response into an Evaluation. It
// fails on unknown decisions and on corrections without a non-empty
// message, so a malformed response is dropped instead of half-applied.
func ParseEvaluation(raw string) (*Evaluation, error) {
	candidate := extractJSONPayload(raw)
	if candidate == "" {
		return nil, fmt.Errorf("empty model response")
	}

	var ev Evaluation
	if err := json.Unmarshal([]byte(candidate), &ev); err != nil {
		return nil, fmt.Errorf("decode model response: %w", err)
	}

	switch ev.Decision {
	case DecisionIgnore, DecisionNoIssues:
		ev.Correction = nil
		return &ev, nil
	case DecisionCorrection:
		if ev.Correction == nil || strings.TrimSpace(ev.Correction.Message) == "" {
			return nil, fmt.Errorf("correction decision without a message")
		}
		ev.Correction.Message = strings.TrimSpace(ev.Correction.Message)
		return &ev, nil
	default:
		return nil, fmt.Errorf("unknown decision %q", ev.Decision)
	}
}
