package db

import (
	"gorm.io/gorm"

	types "github.com/forumhive/forumhive-backend/internal/domain"
)

func AutoMigrateAll(g *gorm.DB) error {
	return g.AutoMigrate(
		&types.Event{},
		&types.Participant{},
		&types.MatchingRules{},
		&types.ProfileEmbedding{},
		&types.Match{},
		&types.InteractionEvent{},
	)
}

func (s *PostgresService) AutoMigrateAll() error {
	return AutoMigrateAll(s.db)
}
