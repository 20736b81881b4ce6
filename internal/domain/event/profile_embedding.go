package event

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ProfileEmbedding caches the fixed-length embedding of a participant's
// profile text. TextHash is the SHA-256 of the embedded text; regeneration
// skips participants whose hash is unchanged. Rows are only written by the
// explicit generate-embeddings stage, never invalidated automatically.
type ProfileEmbedding struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	EventID       uuid.UUID `gorm:"type:uuid;not null;index" json:"event_id"`
	ParticipantID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex;column:participant_id" json:"participant_id"`

	Vector     datatypes.JSON `gorm:"type:jsonb;column:vector" json:"vector"`
	Dimensions int            `gorm:"not null;default:0;column:dimensions" json:"dimensions"`
	TextHash   string         `gorm:"column:text_hash" json:"text_hash"`

	GeneratedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;column:generated_at" json:"generated_at"`
	UpdatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (ProfileEmbedding) TableName() string { return "profile_embedding" }
