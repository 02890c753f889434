package query

import (
	"fmt"
	"strings"

	doc "github.com/medbook/rag/internal/domain/documents"
)

func formatTestResult(tr doc.TestResult) string {
	return fmt.Sprintf("Patient's %s: %s %s (Normal range: %s, Status: %s)",
		tr.Name, tr.Value, tr.Unit, tr.NormalRange, tr.Status)
}

// matchTestResults returns formatted lines for test results whose name or
// value overlaps the query's significant terms (longer than 2 chars).
// Used when the document has no usable vectors.
func matchTestResults(query string, results []doc.TestResult) []string {
	var terms []string
	for _, t := range strings.Fields(strings.ToLower(query)) {
		t = strings.Trim(t, ".,!?:;()'\"")
		if len(t) > 2 {
			terms = append(terms, t)
		}
	}
	if len(terms) == 0 {
		return nil
	}

	var lines []string
	for _, tr := range results {
		name := strings.ToLower(tr.Name)
		value := strings.ToLower(tr.Value)
		for _, term := range terms {
			if strings.Contains(name, term) || strings.Contains(value, term) {
				lines = append(lines, formatTestResult(tr))
				break
			}
		}
	}
	return lines
}

// allTestResults formats every parsed result. Emergency path for when the
// query vector itself could not be produced.
func allTestResults(results []doc.TestResult) []string {
	var lines []string
	for _, tr := range results {
		lines = append(lines, formatTestResult(tr))
	}
	return lines
}
