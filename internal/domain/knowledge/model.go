package knowledge

import (
	"time"

	"github.com/google/uuid"
)

// Entry is one embedded chunk of reference material. Entries are grouped
// by category so retrieval can narrow the search to the categories a
// query touches.
type Entry struct {
	ID         uuid.UUID `json:"id"`
	Content    string    `json:"content"`
	Embedding  []float32 `json:"-"`
	Source     string    `json:"source"`
	Category   string    `json:"category"`
	ChunkIndex int       `json:"chunk_index"`
	CreatedAt  time.Time `json:"created_at"`
}
