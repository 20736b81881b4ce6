package repos

import (
	"gorm.io/gorm"

	"github.com/forumhive/forumhive-backend/internal/data/repos/event"
	"github.com/forumhive/forumhive-backend/internal/platform/logger"
)

type EventRepo = event.EventRepo
type ParticipantRepo = event.ParticipantRepo
type MatchingRulesRepo = event.MatchingRulesRepo
type MatchRepo = event.MatchRepo
type ProfileEmbeddingRepo = event.ProfileEmbeddingRepo
type InteractionEventRepo = event.InteractionEventRepo

func NewEventRepo(db *gorm.DB, log *logger.Logger) EventRepo { return event.NewEventRepo(db, log) }
func NewParticipantRepo(db *gorm.DB, log *logger.Logger) ParticipantRepo {
	return event.NewParticipantRepo(db, log)
}
func NewMatchingRulesRepo(db *gorm.DB, log *logger.Logger) MatchingRulesRepo {
	return event.NewMatchingRulesRepo(db, log)
}
func NewMatchRepo(db *gorm.DB, log *logger.Logger) MatchRepo { return event.NewMatchRepo(db, log) }
func NewProfileEmbeddingRepo(db *gorm.DB, log *logger.Logger) ProfileEmbeddingRepo {
	return event.NewProfileEmbeddingRepo(db, log)
}
func NewInteractionEventRepo(db *gorm.DB, log *logger.Logger) InteractionEventRepo {
	return event.NewInteractionEventRepo(db, log)
}
