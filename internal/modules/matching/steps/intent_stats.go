package steps

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forumhive/forumhive-backend/internal/data/repos"
	"github.com/forumhive/forumhive-backend/internal/platform/logger"
)

type IntentStatsDeps struct {
	DB  *gorm.DB
	Log *logger.Logger

	Participants repos.ParticipantRepo
	Rules        repos.MatchingRulesRepo
}

type IntentStatsInput struct {
	EventID uuid.UUID `json:"event_id"`
}

type IntentStatsOutput struct {
	EventID        uuid.UUID `json:"event_id"`
	Total          int       `json:"total"`
	WithVector     int       `json:"with_vector"`
	HighConfidence int       `json:"high_confidence"`
	WithAI         int       `json:"with_ai"`
}

// IntentStats reports how much intent signal an event's approved participants
// carry. The organizer configuration UI reads this before enabling
// behavioral blending or generating matches.
func IntentStats(ctx context.Context, deps IntentStatsDeps, in IntentStatsInput) (IntentStatsOutput, error) {
	out := IntentStatsOutput{EventID: in.EventID}
	if deps.DB == nil || deps.Log == nil || deps.Participants == nil || deps.Rules == nil {
		return out, fmt.Errorf("intent_stats: missing deps")
	}
	if in.EventID == uuid.Nil {
		return out, fmt.Errorf("intent_stats: missing event_id")
	}

	threshold := 40.0
	if rules, err := deps.Rules.GetByEventID(ctx, nil, in.EventID); err != nil {
		return out, fmt.Errorf("intent_stats: load rules: %w", err)
	} else if rules != nil {
		threshold = rules.IntentConfidenceThreshold
	}

	participants, err := deps.Participants.ListApprovedByEvent(ctx, nil, in.EventID)
	if err != nil {
		return out, fmt.Errorf("intent_stats: list participants: %w", err)
	}
	out.Total = len(participants)
	for _, p := range participants {
		if !DecodeIntentVector(p.IntentVector).Empty() {
			out.WithVector++
		}
		if p.IntentConfidence >= threshold {
			out.HighConfidence++
		}
		if len(p.AIIntentClassification) > 0 {
			out.WithAI++
		}
	}
	return out, nil
}
