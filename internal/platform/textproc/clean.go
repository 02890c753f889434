package textproc

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	spaceRun   = regexp.MustCompile(`[ \t]{2,}`)
	newlineRun = regexp.MustCompile(`\n{3,}`)
)

// CleanText normalizes raw extracted text: line endings become \n, control
// characters are dropped, horizontal whitespace runs collapse to a single
// space, and runs of blank lines collapse to one. PDF extraction tends to
// produce all three.
func CleanText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r == '\n' || r == '\t' || !unicode.IsControl(r) {
			b.WriteRune(r)
		}
	}
	text = b.String()

	text = spaceRun.ReplaceAllString(text, " ")
	text = newlineRun.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// Section is a named region of a medical document, split on recognized
// headings.
type Section struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

var sectionHeading = regexp.MustCompile(`(?im)^(patient information|demographics|medications?|current medications?|lab results?|test results?|laboratory|findings|impression|diagnosis|assessment|history|clinical history|plan|summary|recommendations?)\s*:?\s*$`)

// ExtractSections splits cleaned text on recognized medical headings. Text
// before the first heading (or all of it, when no heading matches) is
// returned as a single "document" section.
func ExtractSections(text string) []Section {
	locs := sectionHeading.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		if text == "" {
			return []Section{}
		}
		return []Section{{Title: "document", Content: text}}
	}

	var sections []Section
	if head := strings.TrimSpace(text[:locs[0][0]]); head != "" {
		sections = append(sections, Section{Title: "document", Content: head})
	}
	for i, loc := range locs {
		title := strings.ToLower(strings.TrimSpace(text[loc[2]:loc[3]]))
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		content := strings.TrimSpace(text[loc[1]:end])
		sections = append(sections, Section{Title: title, Content: content})
	}
	return sections
}
