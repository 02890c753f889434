package textproc

import (
	"strings"
	"testing"
)

// reassemble concatenates chunks with the shared overlap removed from every
// chunk after the first.
func reassemble(chunks []Chunk, overlap int) string {
	var b strings.Builder
	for i, c := range chunks {
		runes := []rune(c.Content)
		if i == 0 {
			b.WriteString(c.Content)
			continue
		}
		if len(runes) > overlap {
			b.WriteString(string(runes[overlap:]))
		}
	}
	return b.String()
}

func TestChunkText_Coverage(t *testing.T) {
	cases := []struct {
		name          string
		text          string
		size, overlap int
	}{
		{"exact multiple", strings.Repeat("abcdefghij", 10), 20, 5},
		{"ragged tail", strings.Repeat("x", 137), 50, 10},
		{"no overlap", strings.Repeat("word ", 40), 25, 0},
		{"large overlap", strings.Repeat("z", 300), 100, 99},
		{"unicode", strings.Repeat("héllo wörld ", 30), 40, 8},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			chunks := ChunkText(tc.text, tc.size, tc.overlap)
			if got := reassemble(chunks, tc.overlap); got != tc.text {
				t.Errorf("reassembled text differs from input (len %d vs %d)", len(got), len(tc.text))
			}
			for i, c := range chunks {
				if c.Index != i {
					t.Errorf("chunk %d has index %d", i, c.Index)
				}
				if n := len([]rune(c.Content)); n > tc.size {
					t.Errorf("chunk %d has %d runes, max %d", i, n, tc.size)
				}
			}
		})
	}
}

func TestChunkText_SingleChunk(t *testing.T) {
	text := "short report"
	chunks := ChunkText(text, 1000, 200)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Content != text {
		t.Errorf("chunk content %q != input", chunks[0].Content)
	}
	if chunks[0].Start != 0 || chunks[0].End != len([]rune(text)) {
		t.Errorf("unexpected offsets %d..%d", chunks[0].Start, chunks[0].End)
	}
}

func TestChunkText_Empty(t *testing.T) {
	chunks := ChunkText("", 1000, 200)
	if len(chunks) != 0 {
		t.Fatalf("expected no chunks for empty text, got %d", len(chunks))
	}
}

func TestChunkText_OverlapShared(t *testing.T) {
	text := strings.Repeat("0123456789", 5)
	chunks := ChunkText(text, 20, 5)
	for i := 1; i < len(chunks); i++ {
		prev := []rune(chunks[i-1].Content)
		cur := []rune(chunks[i].Content)
		tail := string(prev[len(prev)-5:])
		head := string(cur[:5])
		if tail != head {
			t.Errorf("chunks %d/%d do not share overlap: %q vs %q", i-1, i, tail, head)
		}
	}
}

func TestCleanText(t *testing.T) {
	in := "Line one\r\nLine  two\t\tmore\n\n\n\nLine three\x00"
	got := CleanText(in)
	if strings.Contains(got, "\r") {
		t.Error("carriage returns not normalized")
	}
	if strings.Contains(got, "\n\n\n") {
		t.Error("blank line runs not collapsed")
	}
	if strings.Contains(got, "\x00") {
		t.Error("control characters not removed")
	}
	if strings.Contains(got, "  ") {
		t.Error("space runs not collapsed")
	}
}

func TestExtractSections(t *testing.T) {
	text := "Intro text.\nMedications:\nAspirin 81 mg daily\nLab Results:\nHbA1c: 6.1 %\n"
	sections := ExtractSections(CleanText(text))
	if len(sections) != 3 {
		t.Fatalf("expected 3 sections, got %d: %+v", len(sections), sections)
	}
	if sections[0].Title != "document" {
		t.Errorf("expected leading document section, got %q", sections[0].Title)
	}
	if sections[1].Title != "medications" || !strings.Contains(sections[1].Content, "Aspirin") {
		t.Errorf("unexpected medications section: %+v", sections[1])
	}
	if sections[2].Title != "lab results" || !strings.Contains(sections[2].Content, "HbA1c") {
		t.Errorf("unexpected lab results section: %+v", sections[2])
	}
}

func TestExtractSections_NoHeadings(t *testing.T) {
	sections := ExtractSections("just a paragraph of prose")
	if len(sections) != 1 || sections[0].Title != "document" {
		t.Fatalf("expected single document section, got %+v", sections)
	}
}
