// Package ner extracts medical entities from free-text queries. Extracted
// terms are matched against parsed test-result names so questions like
// "what is my BMI" can be answered from structured data even when vector
// retrieval comes back empty.
package ner

import (
	"context"
	"sort"
	"strings"

	"github.com/medbook/rag/internal/platform/completion"
)

// Extractor pulls canonical medical terms out of text.
type Extractor interface {
	Extract(ctx context.Context, text string) ([]string, error)
}

// ModeRules and ModeLLM select the extraction strategy.
const (
	ModeRules = "rules"
	ModeLLM   = "llm"
)

// New returns the extractor for the configured mode. The LLM extractor
// falls back to rules when the model call fails, so a bad upstream never
// breaks entity matching entirely.
func New(mode string, gen completion.Generator) Extractor {
	if mode == ModeLLM && gen != nil {
		return &LLMExtractor{gen: gen, fallback: &RuleExtractor{}}
	}
	return &RuleExtractor{}
}

// entityAliases maps each canonical term to the surface forms that should
// resolve to it. Canonical terms match the names produced by the
// test-result parser.
var entityAliases = map[string][]string{
	"cholesterol":    {"cholesterol", "total cholesterol"},
	"ldl":            {"ldl", "low density lipoprotein", "ldl cholesterol"},
	"hdl":            {"hdl", "high density lipoprotein", "hdl cholesterol"},
	"triglycerides":  {"triglycerides", "triglyceride"},
	"hba1c":          {"hba1c", "a1c", "glycated hemoglobin", "hemoglobin a1c"},
	"glucose":        {"glucose", "blood sugar", "blood glucose", "fasting glucose"},
	"insulin":        {"insulin"},
	"blood pressure": {"blood pressure", "bp", "systolic", "diastolic"},
	"bmi":            {"bmi", "body mass index"},
	"heart rate":     {"heart rate", "pulse"},
	"hemoglobin":     {"hemoglobin", "hgb"},
	"creatinine":     {"creatinine"},
	"weight":         {"weight"},
	"height":         {"height"},
	"medication":     {"medication", "medications", "medicine", "drug", "drugs", "prescription", "prescriptions"},
}

// RuleExtractor matches a fixed vocabulary of medical terms. It never
// fails and needs no network, which makes it the default mode.
type RuleExtractor struct{}

func (e *RuleExtractor) Extract(_ context.Context, text string) ([]string, error) {
	lower := strings.ToLower(text)
	seen := make(map[string]bool)
	for canonical, aliases := range entityAliases {
		for _, alias := range aliases {
			if containsWord(lower, alias) {
				seen[canonical] = true
				break
			}
		}
	}

	entities := make([]string, 0, len(seen))
	for term := range seen {
		entities = append(entities, term)
	}
	sort.Strings(entities)
	return entities, nil
}

// containsWord reports whether s contains sub on word boundaries, so "bp"
// does not match inside "bpm-like" tokens.
func containsWord(s, sub string) bool {
	for start := 0; ; {
		i := strings.Index(s[start:], sub)
		if i < 0 {
			return false
		}
		i += start
		before := i == 0 || !isWordChar(s[i-1])
		afterIdx := i + len(sub)
		after := afterIdx == len(s) || !isWordChar(s[afterIdx])
		if before && after {
			return true
		}
		start = i + 1
	}
}

func isWordChar(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}
