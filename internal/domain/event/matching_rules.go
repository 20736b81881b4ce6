package event

import (
	"time"

	"github.com/google/uuid"
)

// MatchingRules is the per-event configuration for match generation. Weights
// need not sum to 1; the aggregator normalizes over whichever sub-scores are
// present for each pair. Edits take effect on the next generation run.
type MatchingRules struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	EventID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"event_id"`
	Event   *Event    `gorm:"constraint:OnDelete:CASCADE;foreignKey:EventID;references:ID" json:"event,omitempty"`

	IntentWeight          float64 `gorm:"not null;default:0.35;column:intent_weight" json:"intent_weight"`
	IndustryWeight        float64 `gorm:"not null;default:0.25;column:industry_weight" json:"industry_weight"`
	InterestWeight        float64 `gorm:"not null;default:0.25;column:interest_weight" json:"interest_weight"`
	ComplementarityWeight float64 `gorm:"not null;default:0.15;column:complementarity_weight" json:"complementarity_weight"`
	EmbeddingWeight       float64 `gorm:"not null;default:0;column:embedding_weight" json:"embedding_weight"`

	MinimumScore       float64 `gorm:"not null;default:50;column:minimum_score" json:"minimum_score"`
	MaxRecommendations int     `gorm:"not null;default:10;column:max_recommendations" json:"max_recommendations"`

	ExcludeSameCompany bool `gorm:"not null;default:false;column:exclude_same_company" json:"exclude_same_company"`
	ExcludeSameRole    bool `gorm:"not null;default:false;column:exclude_same_role" json:"exclude_same_role"`
	PrioritizeSponsors bool `gorm:"not null;default:false;column:prioritize_sponsors" json:"prioritize_sponsors"`
	PrioritizeVIP      bool `gorm:"not null;default:false;column:prioritize_vip" json:"prioritize_vip"`

	UseBehavioralIntent       bool    `gorm:"not null;default:false;column:use_behavioral_intent" json:"use_behavioral_intent"`
	IntentConfidenceThreshold float64 `gorm:"not null;default:40;column:intent_confidence_threshold" json:"intent_confidence_threshold"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (MatchingRules) TableName() string { return "matching_rules" }
