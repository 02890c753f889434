package query

import (
	"regexp"
	"strings"

	"github.com/medbook/rag/internal/platform/textproc"
)

var medicationQueryTerms = []string{"medication", "medicine", "drug", "prescription"}

func isMedicationQuery(query string) bool {
	q := strings.ToLower(query)
	for _, term := range medicationQueryTerms {
		if strings.Contains(q, term) {
			return true
		}
	}
	return false
}

var medicationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)medications?:?\s*([^.\n]+)`),
	regexp.MustCompile(`(?i)drugs?:?\s*([^.\n]+)`),
	regexp.MustCompile(`(?i)prescriptions?:?\s*([^.\n]+)`),
	regexp.MustCompile(`(?i)taking:?\s*([^.\n]+)`),
	regexp.MustCompile(`(?i)prescribed:?\s*([^.\n]+)`),
	regexp.MustCompile(`(?i)current medications?:?\s*([^.\n]+)`),
}

// noMedicationsLine is the explicit marker emitted when a medication
// query finds nothing in the document. Its presence keeps the completion
// step from borrowing medications out of the knowledge base.
const noMedicationsLine = "IMPORTANT: No medications are mentioned in this patient's document. The patient is not currently taking any prescribed medications according to their medical record."

// extractMedicationInfo reports only medications actually present in the
// document content. Inline "Medications: ..." labels are matched directly;
// a standalone medication section heading contributes each of its lines.
func extractMedicationInfo(content string) string {
	var found []string
	seen := make(map[string]bool)
	add := func(candidate string) {
		candidate = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(candidate), "-*• \t"))
		if candidate == "" {
			return
		}
		lower := strings.ToLower(candidate)
		if strings.Contains(lower, "none") || strings.Contains(lower, "no ") {
			return
		}
		if seen[lower] {
			return
		}
		seen[lower] = true
		found = append(found, candidate)
	}

	for _, pattern := range medicationPatterns {
		for _, m := range pattern.FindAllStringSubmatch(content, -1) {
			add(m[1])
		}
	}
	for _, sec := range textproc.ExtractSections(content) {
		if !strings.Contains(sec.Title, "medication") {
			continue
		}
		for _, line := range strings.Split(sec.Content, "\n") {
			add(line)
		}
	}

	if len(found) == 0 {
		return noMedicationsLine
	}
	return "MEDICATIONS FOUND IN PATIENT DOCUMENT: " + strings.Join(found, ", ")
}
