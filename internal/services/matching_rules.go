package services

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gopkg.in/yaml.v3"

	"github.com/forumhive/forumhive-backend/internal/data/repos"
	types "github.com/forumhive/forumhive-backend/internal/domain"
	"github.com/forumhive/forumhive-backend/internal/platform/apierr"
	"github.com/forumhive/forumhive-backend/internal/platform/envutil"
	"github.com/forumhive/forumhive-backend/internal/platform/logger"
)

// MatchingRulesService owns the per-event rules row: reading it, updating it
// from the organizer console, and seeding defaults at event creation so
// generation never runs against a missing configuration.
type MatchingRulesService interface {
	Get(ctx context.Context, eventID uuid.UUID) (*types.MatchingRules, error)
	Update(ctx context.Context, row *types.MatchingRules) (*types.MatchingRules, error)
	SeedDefaults(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) (*types.MatchingRules, error)
}

// rulesDefaults is the yaml shape of MATCHING_RULES_DEFAULTS_PATH. Absent
// keys keep the built-in value.
type rulesDefaults struct {
	IntentWeight          *float64 `yaml:"intent_weight"`
	IndustryWeight        *float64 `yaml:"industry_weight"`
	InterestWeight        *float64 `yaml:"interest_weight"`
	ComplementarityWeight *float64 `yaml:"complementarity_weight"`
	EmbeddingWeight       *float64 `yaml:"embedding_weight"`

	MinimumScore       *float64 `yaml:"minimum_score"`
	MaxRecommendations *int     `yaml:"max_recommendations"`

	ExcludeSameCompany *bool `yaml:"exclude_same_company"`
	ExcludeSameRole    *bool `yaml:"exclude_same_role"`
	PrioritizeSponsors *bool `yaml:"prioritize_sponsors"`
	PrioritizeVIP      *bool `yaml:"prioritize_vip"`

	UseBehavioralIntent       *bool    `yaml:"use_behavioral_intent"`
	IntentConfidenceThreshold *float64 `yaml:"intent_confidence_threshold"`
}

type matchingRulesService struct {
	db       *gorm.DB
	log      *logger.Logger
	rules    repos.MatchingRulesRepo
	defaults rulesDefaults
}

func NewMatchingRulesService(db *gorm.DB, log *logger.Logger, rules repos.MatchingRulesRepo) (MatchingRulesService, error) {
	svc := &matchingRulesService{
		db:    db,
		log:   log.With("service", "MatchingRulesService"),
		rules: rules,
	}
	if path := envutil.Str("MATCHING_RULES_DEFAULTS_PATH", ""); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read rules defaults %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &svc.defaults); err != nil {
			return nil, fmt.Errorf("parse rules defaults %s: %w", path, err)
		}
		svc.log.Info("loaded matching rules defaults", "path", path)
	}
	return svc, nil
}

func (s *matchingRulesService) Get(ctx context.Context, eventID uuid.UUID) (*types.MatchingRules, error) {
	return s.rules.GetByEventID(ctx, nil, eventID)
}

func (s *matchingRulesService) Update(ctx context.Context, row *types.MatchingRules) (*types.MatchingRules, error) {
	if row == nil || row.EventID == uuid.Nil {
		return nil, apierr.BadRequest("invalid_request", fmt.Errorf("event_id required"))
	}
	if row.MaxRecommendations <= 0 {
		return nil, apierr.Unprocessable("invalid_rules", fmt.Errorf("max_recommendations must be positive"))
	}
	if row.MinimumScore < 0 || row.MinimumScore > 100 {
		return nil, apierr.Unprocessable("invalid_rules", fmt.Errorf("minimum_score must be in [0,100]"))
	}
	existing, err := s.rules.GetByEventID(ctx, nil, row.EventID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		row.ID = existing.ID
		row.CreatedAt = existing.CreatedAt
	}
	if err := s.rules.Upsert(ctx, nil, row); err != nil {
		return nil, err
	}
	return s.rules.GetByEventID(ctx, nil, row.EventID)
}

// SeedDefaults writes the default rules row for a new event, honoring any
// yaml overrides. Idempotent: an existing row is returned untouched.
func (s *matchingRulesService) SeedDefaults(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) (*types.MatchingRules, error) {
	if eventID == uuid.Nil {
		return nil, fmt.Errorf("event_id required")
	}
	existing, err := s.rules.GetByEventID(ctx, tx, eventID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	row := &types.MatchingRules{
		ID:                        uuid.New(),
		EventID:                   eventID,
		IntentWeight:              0.35,
		IndustryWeight:            0.25,
		InterestWeight:            0.25,
		ComplementarityWeight:     0.15,
		EmbeddingWeight:           0,
		MinimumScore:              50,
		MaxRecommendations:        10,
		IntentConfidenceThreshold: 40,
	}
	applyDefaults(row, s.defaults)
	if err := s.rules.Upsert(ctx, tx, row); err != nil {
		return nil, err
	}
	return row, nil
}

func applyDefaults(row *types.MatchingRules, d rulesDefaults) {
	if d.IntentWeight != nil {
		row.IntentWeight = *d.IntentWeight
	}
	if d.IndustryWeight != nil {
		row.IndustryWeight = *d.IndustryWeight
	}
	if d.InterestWeight != nil {
		row.InterestWeight = *d.InterestWeight
	}
	if d.ComplementarityWeight != nil {
		row.ComplementarityWeight = *d.ComplementarityWeight
	}
	if d.EmbeddingWeight != nil {
		row.EmbeddingWeight = *d.EmbeddingWeight
	}
	if d.MinimumScore != nil {
		row.MinimumScore = *d.MinimumScore
	}
	if d.MaxRecommendations != nil {
		row.MaxRecommendations = *d.MaxRecommendations
	}
	if d.ExcludeSameCompany != nil {
		row.ExcludeSameCompany = *d.ExcludeSameCompany
	}
	if d.ExcludeSameRole != nil {
		row.ExcludeSameRole = *d.ExcludeSameRole
	}
	if d.PrioritizeSponsors != nil {
		row.PrioritizeSponsors = *d.PrioritizeSponsors
	}
	if d.PrioritizeVIP != nil {
		row.PrioritizeVIP = *d.PrioritizeVIP
	}
	if d.UseBehavioralIntent != nil {
		row.UseBehavioralIntent = *d.UseBehavioralIntent
	}
	if d.IntentConfidenceThreshold != nil {
		row.IntentConfidenceThreshold = *d.IntentConfidenceThreshold
	}
}
