package app

import (
	"gorm.io/gorm"

	"github.com/forumhive/forumhive-backend/internal/data/repos"
	"github.com/forumhive/forumhive-backend/internal/platform/logger"
)

type Repos struct {
	Events       repos.EventRepo
	Participants repos.ParticipantRepo
	Rules        repos.MatchingRulesRepo
	Matches      repos.MatchRepo
	Embeddings   repos.ProfileEmbeddingRepo
	Interactions repos.InteractionEventRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	return Repos{
		Events:       repos.NewEventRepo(db, log),
		Participants: repos.NewParticipantRepo(db, log),
		Rules:        repos.NewMatchingRulesRepo(db, log),
		Matches:      repos.NewMatchRepo(db, log),
		Embeddings:   repos.NewProfileEmbeddingRepo(db, log),
		Interactions: repos.NewInteractionEventRepo(db, log),
	}
}
