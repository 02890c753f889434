package query

import (
	"strings"
	"testing"

	doc "github.com/medbook/rag/internal/domain/documents"
)

func sampleResults() []doc.TestResult {
	return []doc.TestResult{
		{Name: "BMI", Value: "31", Unit: "kg/m2", NormalRange: "18.5-24.9", Status: "High"},
		{Name: "Cholesterol", Value: "240", Unit: "mg/dL", NormalRange: "125-200", Status: "High"},
		{Name: "Glucose", Value: "95", Unit: "mg/dL", NormalRange: "70-100", Status: "Normal"},
	}
}

func TestMatchTestResults(t *testing.T) {
	lines := matchTestResults("What is my BMI?", sampleResults())
	if len(lines) != 1 {
		t.Fatalf("expected 1 matching line, got %d: %v", len(lines), lines)
	}
	want := "Patient's BMI: 31 kg/m2 (Normal range: 18.5-24.9, Status: High)"
	if lines[0] != want {
		t.Errorf("line = %q, want %q", lines[0], want)
	}
}

func TestMatchTestResults_ValueMatch(t *testing.T) {
	lines := matchTestResults("tell me about the 240 reading", sampleResults())
	if len(lines) != 1 || !strings.Contains(lines[0], "Cholesterol") {
		t.Errorf("expected cholesterol match by value, got %v", lines)
	}
}

func TestMatchTestResults_NoSignificantTerms(t *testing.T) {
	if lines := matchTestResults("is it ok", sampleResults()); len(lines) != 0 {
		t.Errorf("short terms should not match, got %v", lines)
	}
}

func TestAllTestResults(t *testing.T) {
	lines := allTestResults(sampleResults())
	if len(lines) != 3 {
		t.Fatalf("expected every result formatted, got %d", len(lines))
	}
	for _, line := range lines {
		if !strings.HasPrefix(line, "Patient's ") {
			t.Errorf("unexpected line format: %q", line)
		}
	}
}
