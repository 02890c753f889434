package documents

import (
	"regexp"
	"strconv"
	"strings"
)

// resultLine matches one "Name: value unit (annotations)" lab line. The
// value may be a plain number, a bounded value like ">0.04", or a paired
// reading like "120/80".
var resultLine = regexp.MustCompile(`(?m)^\s*([A-Za-z][A-Za-z0-9 /\-']{1,40}?)\s*[:=]\s*([<>]?\d+(?:\.\d+)?(?:/\d+(?:\.\d+)?)?)\s*([A-Za-zµ%][A-Za-z0-9µ%/.]*)?\s*(?:\(([^)]*)\))?\s*$`)

var (
	rangeAnnotation  = regexp.MustCompile(`(?i)(?:normal\s+range|reference\s+range|reference|range|normal)\s*[:=]?\s*([^,;)]+)`)
	statusAnnotation = regexp.MustCompile(`(?i)status\s*[:=]?\s*([A-Za-z ]+)`)
	numericRange     = regexp.MustCompile(`^\s*([<>]?\d+(?:\.\d+)?)\s*[-–]\s*(\d+(?:\.\d+)?)`)
)

// knownTests are lab names recognized even without a unit or annotation.
var knownTests = map[string]bool{
	"cholesterol": true, "total cholesterol": true, "ldl": true, "hdl": true,
	"triglycerides": true, "hba1c": true, "a1c": true, "glucose": true,
	"blood glucose": true, "fasting glucose": true, "insulin": true,
	"bmi": true, "blood pressure": true, "heart rate": true,
	"hemoglobin": true, "creatinine": true, "troponin i": true,
	"troponin t": true, "ck-mb": true, "weight": true, "height": true,
}

// skipNames are label-value lines that look like lab results but are
// document metadata.
var skipNames = map[string]bool{
	"date": true, "page": true, "phone": true, "fax": true, "id": true,
	"dob": true, "zip": true, "room": true, "mrn": true, "accession": true,
}

// ParseTestResults extracts structured lab values from cleaned document
// text. Parsed results back the structured fallback path: when vector
// retrieval returns nothing, queries are answered from these rows instead.
func ParseTestResults(text string) []TestResult {
	matches := resultLine.FindAllStringSubmatch(text, -1)
	results := make([]TestResult, 0, len(matches))
	seen := make(map[string]bool)

	for _, m := range matches {
		name := strings.TrimSpace(m[1])
		value := strings.TrimSpace(m[2])
		unit := strings.TrimSpace(m[3])
		annotation := strings.TrimSpace(m[4])

		lowerName := strings.ToLower(name)
		if skipNames[lowerName] {
			continue
		}
		// Without a unit or annotation, only recognized test names count;
		// anything else is likely prose or metadata.
		if unit == "" && annotation == "" && !knownTests[lowerName] {
			continue
		}
		if seen[lowerName] {
			continue
		}
		seen[lowerName] = true

		normalRange, status := parseAnnotation(annotation)
		if status == "" {
			status = inferStatus(value, normalRange)
		}

		results = append(results, TestResult{
			Name:        name,
			Value:       value,
			Unit:        unit,
			NormalRange: normalRange,
			Status:      status,
		})
	}
	return results
}

func parseAnnotation(annotation string) (normalRange, status string) {
	if annotation == "" {
		return "", ""
	}
	if m := rangeAnnotation.FindStringSubmatch(annotation); m != nil {
		normalRange = strings.TrimSpace(m[1])
	}
	if m := statusAnnotation.FindStringSubmatch(annotation); m != nil {
		status = canonicalStatus(strings.TrimSpace(m[1]))
	}
	// A bare "125-200" annotation is a range with no label.
	if normalRange == "" && status == "" && numericRange.MatchString(annotation) {
		normalRange = strings.TrimSpace(annotation)
	}
	return normalRange, status
}

func canonicalStatus(s string) string {
	switch strings.ToLower(s) {
	case "high", "elevated", "abnormal high", "h":
		return "High"
	case "low", "decreased", "abnormal low", "l":
		return "Low"
	case "normal", "within normal limits", "wnl", "n":
		return "Normal"
	case "abnormal":
		return "Abnormal"
	}
	lower := strings.ToLower(s)
	if lower == "" {
		return ""
	}
	return strings.ToUpper(lower[:1]) + lower[1:]
}

// inferStatus compares a numeric value against a "low-high" range.
func inferStatus(value, normalRange string) string {
	if normalRange == "" {
		return ""
	}
	m := numericRange.FindStringSubmatch(normalRange)
	if m == nil {
		return ""
	}
	low, err1 := strconv.ParseFloat(strings.TrimLeft(m[1], "<>"), 64)
	high, err2 := strconv.ParseFloat(m[2], 64)
	v, err3 := strconv.ParseFloat(strings.TrimLeft(value, "<>"), 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return ""
	}
	switch {
	case v < low:
		return "Low"
	case v > high:
		return "High"
	default:
		return "Normal"
	}
}
