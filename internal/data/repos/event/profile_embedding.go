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

type ProfileEmbeddingRepo interface {
	GetByParticipantID(ctx context.Context, tx *gorm.DB, participantID uuid.UUID) (*types.ProfileEmbedding, error)
	ListByEvent(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) ([]*types.ProfileEmbedding, error)
	Upsert(ctx context.Context, tx *gorm.DB, row *types.ProfileEmbedding) error
}

type profileEmbeddingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProfileEmbeddingRepo(db *gorm.DB, baseLog *logger.Logger) ProfileEmbeddingRepo {
	return &profileEmbeddingRepo{db: db, log: baseLog.With("repo", "ProfileEmbeddingRepo")}
}

func (r *profileEmbeddingRepo) GetByParticipantID(ctx context.Context, tx *gorm.DB, participantID uuid.UUID) (*types.ProfileEmbedding, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if participantID == uuid.Nil {
		return nil, nil
	}
	var row types.ProfileEmbedding
	if err := t.WithContext(ctx).Where("participant_id = ?", participantID).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *profileEmbeddingRepo) ListByEvent(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) ([]*types.ProfileEmbedding, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var rows []*types.ProfileEmbedding
	if err := t.WithContext(ctx).Where("event_id = ?", eventID).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *profileEmbeddingRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.ProfileEmbedding) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil || row.ParticipantID == uuid.Nil {
		return nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	row.UpdatedAt = time.Now().UTC()
	return t.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "participant_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"vector",
				"dimensions",
				"text_hash",
				"generated_at",
				"updated_at",
			}),
		}).
		Create(row).Error
}
