package event

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/forumhive/forumhive-backend/internal/domain"
	domev "github.com/forumhive/forumhive-backend/internal/domain/event"
	"github.com/forumhive/forumhive-backend/internal/platform/logger"
)

type ParticipantRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Participant, error)
	ListByEvent(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) ([]*types.Participant, error)
	ListApprovedByEvent(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) ([]*types.Participant, error)
	Create(ctx context.Context, tx *gorm.DB, rows []*types.Participant) ([]*types.Participant, error)
	// SaveIntent persists only the intent-inference output columns.
	SaveIntent(ctx context.Context, tx *gorm.DB, row *types.Participant) error
}

type participantRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewParticipantRepo(db *gorm.DB, baseLog *logger.Logger) ParticipantRepo {
	return &participantRepo{db: db, log: baseLog.With("repo", "ParticipantRepo")}
}

func (r *participantRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Participant, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.Participant
	if err := t.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *participantRepo) ListByEvent(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) ([]*types.Participant, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var rows []*types.Participant
	if err := t.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at asc").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *participantRepo) ListApprovedByEvent(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) ([]*types.Participant, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var rows []*types.Participant
	if err := t.WithContext(ctx).
		Where("event_id = ? AND status = ?", eventID, domev.ParticipantStatusApproved).
		Order("id asc").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *participantRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Participant) ([]*types.Participant, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return rows, nil
	}
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
	}
	if err := t.WithContext(ctx).Create(rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *participantRepo) SaveIntent(ctx context.Context, tx *gorm.DB, row *types.Participant) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil || row.ID == uuid.Nil {
		return nil
	}
	row.UpdatedAt = time.Now().UTC()
	return t.WithContext(ctx).
		Model(&types.Participant{}).
		Where("id = ?", row.ID).
		Updates(map[string]any{
			"intent_vector":            row.IntentVector,
			"intent_confidence":        row.IntentConfidence,
			"ai_intent_classification": row.AIIntentClassification,
			"ai_classified_at":         row.AIClassifiedAt,
			"intent_computed_at":       row.IntentComputedAt,
			"updated_at":               row.UpdatedAt,
		}).Error
}
