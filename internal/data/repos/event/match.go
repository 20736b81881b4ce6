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

type MatchRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Match, error)
	ListByEvent(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) ([]*types.Match, error)
	ListByParticipant(ctx context.Context, tx *gorm.DB, eventID, participantID uuid.UUID) ([]*types.Match, error)
	// UpsertScores creates the row or refreshes its score columns in place.
	// Status is deliberately not in the update set: a participant's
	// save/dismiss decision survives regeneration.
	UpsertScores(ctx context.Context, tx *gorm.DB, row *types.Match) error
	SetStatusByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID, status string) error
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status string) error
}

type matchRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMatchRepo(db *gorm.DB, baseLog *logger.Logger) MatchRepo {
	return &matchRepo{db: db, log: baseLog.With("repo", "MatchRepo")}
}

func (r *matchRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Match, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.Match
	if err := t.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *matchRepo) ListByEvent(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) ([]*types.Match, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var rows []*types.Match
	if err := t.WithContext(ctx).Where("event_id = ?", eventID).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *matchRepo) ListByParticipant(ctx context.Context, tx *gorm.DB, eventID, participantID uuid.UUID) ([]*types.Match, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var rows []*types.Match
	if err := t.WithContext(ctx).
		Where("event_id = ? AND (participant_a_id = ? OR participant_b_id = ?)", eventID, participantID, participantID).
		Order("score desc, pair_key asc").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *matchRepo) UpsertScores(ctx context.Context, tx *gorm.DB, row *types.Match) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil || row.EventID == uuid.Nil || row.PairKey == "" {
		return nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	row.UpdatedAt = time.Now().UTC()
	return t.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "event_id"}, {Name: "pair_key"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"intent_score",
				"industry_score",
				"interest_score",
				"complementarity_score",
				"embedding_score",
				"score",
				"reasons",
				"updated_at",
			}),
		}).
		Create(row).Error
}

func (r *matchRepo) SetStatusByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID, status string) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return t.WithContext(ctx).
		Model(&types.Match{}).
		Where("id IN ?", ids).
		Updates(map[string]any{"status": status, "updated_at": time.Now().UTC()}).Error
}

func (r *matchRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status string) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil
	}
	return t.WithContext(ctx).
		Model(&types.Match{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": time.Now().UTC()}).Error
}
