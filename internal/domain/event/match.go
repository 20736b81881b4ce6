package event

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	MatchStatusPending   = "pending"
	MatchStatusSaved     = "saved"
	MatchStatusDismissed = "dismissed"
	MatchStatusAccepted  = "accepted"
	// Soft-retired: the pair no longer qualifies under current rules. The row
	// is kept so a participant's prior decision is never discarded, and a
	// later qualifying run revives it to pending.
	MatchStatusStale = "stale"
)

// Match is a stored, scored recommendation between an unordered pair of
// participants, at most one row per pair per event. Sub-scores are [0,100];
// EmbeddingScore is nil when either side lacks an embedding. Status is owned
// by the participant (save/dismiss) and the meeting flow (accepted); the
// generator only ever sets pending and stale.
type Match struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	EventID uuid.UUID `gorm:"type:uuid;not null;index:idx_match_event_pair,unique" json:"event_id"`
	PairKey string    `gorm:"not null;index:idx_match_event_pair,unique;column:pair_key" json:"pair_key"`

	ParticipantAID uuid.UUID `gorm:"type:uuid;not null;index;column:participant_a_id" json:"participant_a_id"`
	ParticipantBID uuid.UUID `gorm:"type:uuid;not null;index;column:participant_b_id" json:"participant_b_id"`

	IntentScore          float64  `gorm:"not null;default:0;column:intent_score" json:"intent_score"`
	IndustryScore        float64  `gorm:"not null;default:0;column:industry_score" json:"industry_score"`
	InterestScore        float64  `gorm:"not null;default:0;column:interest_score" json:"interest_score"`
	ComplementarityScore float64  `gorm:"not null;default:0;column:complementarity_score" json:"complementarity_score"`
	EmbeddingScore       *float64 `gorm:"column:embedding_score" json:"embedding_score,omitempty"`

	Score   float64        `gorm:"not null;default:0;column:score;index" json:"score"`
	Reasons datatypes.JSON `gorm:"type:jsonb;column:reasons" json:"reasons"`

	Status string `gorm:"not null;default:'pending';column:status;index" json:"status"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Match) TableName() string { return "match" }

// PairKey builds the canonical unordered pair identity: the two participant
// ids sorted lexicographically and joined with ':'.
func PairKey(a, b uuid.UUID) string {
	as, bs := a.String(), b.String()
	if strings.Compare(as, bs) > 0 {
		as, bs = bs, as
	}
	return as + ":" + bs
}

// OrderPair returns the pair in canonical (a < b) order.
func OrderPair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if strings.Compare(a.String(), b.String()) > 0 {
		return b, a
	}
	return a, b
}

// ValidStatusTransition enforces the match lifecycle: the participant may
// save or dismiss a pending match, and pending|saved may become accepted via
// the meeting flow. Stale/revive moves are made by generation only.
func ValidStatusTransition(from, to string) bool {
	switch from {
	case MatchStatusPending:
		return to == MatchStatusSaved || to == MatchStatusDismissed || to == MatchStatusAccepted
	case MatchStatusSaved:
		return to == MatchStatusAccepted
	}
	return false
}
