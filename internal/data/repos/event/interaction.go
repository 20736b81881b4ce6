package event

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/forumhive/forumhive-backend/internal/domain"
	"github.com/forumhive/forumhive-backend/internal/platform/logger"
)

type InteractionEventRepo interface {
	ListRecentByEvent(ctx context.Context, tx *gorm.DB, eventID uuid.UUID, limit int) ([]*types.InteractionEvent, error)
	Create(ctx context.Context, tx *gorm.DB, rows []*types.InteractionEvent) error
}

type interactionEventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInteractionEventRepo(db *gorm.DB, baseLog *logger.Logger) InteractionEventRepo {
	return &interactionEventRepo{db: db, log: baseLog.With("repo", "InteractionEventRepo")}
}

func (r *interactionEventRepo) ListRecentByEvent(ctx context.Context, tx *gorm.DB, eventID uuid.UUID, limit int) ([]*types.InteractionEvent, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if limit <= 0 {
		limit = 1000
	}
	var rows []*types.InteractionEvent
	if err := t.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at desc").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *interactionEventRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.InteractionEvent) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return nil
	}
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
	}
	return t.WithContext(ctx).Create(rows).Error
}
