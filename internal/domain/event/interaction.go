package event

import (
	"time"

	"github.com/google/uuid"
)

const (
	InteractionKindMessage        = "message"
	InteractionKindMeetingRequest = "meeting_request"
	InteractionKindProfileView    = "profile_view"
	InteractionKindSessionAttend  = "session_attend"
)

// InteractionEvent is behavioral signal recorded by the messaging and
// meeting flows. The intent inference stage reads it when behavioral intent
// is enabled for the event; the engine never writes these rows.
type InteractionEvent struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	EventID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"event_id"`
	ParticipantID uuid.UUID  `gorm:"type:uuid;not null;index;column:participant_id" json:"participant_id"`
	TargetID      *uuid.UUID `gorm:"type:uuid;column:target_id" json:"target_id,omitempty"`
	Kind          string     `gorm:"not null;column:kind" json:"kind"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (InteractionEvent) TableName() string { return "interaction_event" }
