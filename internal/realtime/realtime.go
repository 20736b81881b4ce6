package realtime

import (
	"time"

	"github.com/google/uuid"
)

// ProgressEvent is published after each matching-engine stage so the
// organizer UI can track a run without polling.
type ProgressEvent struct {
	EventID   uuid.UUID      `json:"event_id"`
	Stage     string         `json:"stage"` // intents_computed | embeddings_generated | matches_generated
	Counts    map[string]int `json:"counts,omitempty"`
	EmittedAt time.Time      `json:"emitted_at"`
}

const (
	StageIntentsComputed     = "intents_computed"
	StageEmbeddingsGenerated = "embeddings_generated"
	StageMatchesGenerated    = "matches_generated"
)
