package event

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/forumhive/forumhive-backend/internal/domain"
	"github.com/forumhive/forumhive-backend/internal/platform/logger"
)

type MatchingRulesRepo interface {
	GetByEventID(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) (*types.MatchingRules, error)
	Upsert(ctx context.Context, tx *gorm.DB, row *types.MatchingRules) error
}

type matchingRulesRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMatchingRulesRepo(db *gorm.DB, baseLog *logger.Logger) MatchingRulesRepo {
	return &matchingRulesRepo{db: db, log: baseLog.With("repo", "MatchingRulesRepo")}
}

func (r *matchingRulesRepo) GetByEventID(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) (*types.MatchingRules, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if eventID == uuid.Nil {
		return nil, nil
	}
	var row types.MatchingRules
	if err := t.WithContext(ctx).Where("event_id = ?", eventID).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *matchingRulesRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.MatchingRules) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil || row.EventID == uuid.Nil {
		return nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	row.UpdatedAt = time.Now().UTC()
	return t.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "event_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"intent_weight",
				"industry_weight",
				"interest_weight",
				"complementarity_weight",
				"embedding_weight",
				"minimum_score",
				"max_recommendations",
				"exclude_same_company",
				"exclude_same_role",
				"prioritize_sponsors",
				"prioritize_vip",
				"use_behavioral_intent",
				"intent_confidence_threshold",
				"updated_at",
			}),
		}).
		Create(row).Error
}
