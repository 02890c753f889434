package ner

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"github.com/medbook/rag/internal/platform/completion"
)

const llmExtractSystem = "You extract medical entities from patient questions. " +
	"Respond with a JSON array of lowercase entity names and nothing else. " +
	"Entities are lab tests, vital signs, conditions, and medication references, " +
	`for example ["hba1c","glucose","medication"]. Respond with [] when there are none.`

// LLMExtractor asks the completion model for entities. Any model or parse
// failure degrades to the rule extractor instead of returning an error.
type LLMExtractor struct {
	gen      completion.Generator
	fallback *RuleExtractor
}

func (e *LLMExtractor) Extract(ctx context.Context, text string) ([]string, error) {
	raw, err := e.gen.Generate(ctx, llmExtractSystem, text)
	if err != nil {
		return e.fallback.Extract(ctx, text)
	}

	entities, ok := parseEntityJSON(raw)
	if !ok {
		return e.fallback.Extract(ctx, text)
	}
	return entities, nil
}

// parseEntityJSON parses a JSON string array, tolerating markdown fences
// and surrounding prose the model sometimes adds.
func parseEntityJSON(raw string) ([]string, bool) {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start < 0 || end <= start {
		return nil, false
	}

	var parsed []string
	if err := json.Unmarshal([]byte(raw[start:end+1]), &parsed); err != nil {
		return nil, false
	}

	seen := make(map[string]bool)
	entities := make([]string, 0, len(parsed))
	for _, term := range parsed {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" || seen[term] {
			continue
		}
		seen[term] = true
		entities = append(entities, term)
	}
	sort.Strings(entities)
	return entities, true
}
