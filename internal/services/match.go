package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forumhive/forumhive-backend/internal/data/repos"
	types "github.com/forumhive/forumhive-backend/internal/domain"
	domevent "github.com/forumhive/forumhive-backend/internal/domain/event"
	"github.com/forumhive/forumhive-backend/internal/platform/apierr"
	"github.com/forumhive/forumhive-backend/internal/platform/logger"
)

// MatchService is the participant-facing surface over stored matches:
// ranked listing and the save/dismiss/accept lifecycle. It never rescores.
type MatchService interface {
	ListForParticipant(ctx context.Context, eventID, participantID uuid.UUID) ([]*types.Match, error)
	UpdateStatus(ctx context.Context, matchID uuid.UUID, status string) (*types.Match, error)
}

type matchService struct {
	db      *gorm.DB
	log     *logger.Logger
	matches repos.MatchRepo
}

func NewMatchService(db *gorm.DB, log *logger.Logger, matches repos.MatchRepo) MatchService {
	return &matchService{
		db:      db,
		log:     log.With("service", "MatchService"),
		matches: matches,
	}
}

// ListForParticipant returns the participant's matches ranked by score,
// hiding soft-retired rows.
func (s *matchService) ListForParticipant(ctx context.Context, eventID, participantID uuid.UUID) ([]*types.Match, error) {
	if eventID == uuid.Nil || participantID == uuid.Nil {
		return nil, apierr.BadRequest("invalid_request", fmt.Errorf("event_id and participant_id required"))
	}
	rows, err := s.matches.ListByParticipant(ctx, nil, eventID, participantID)
	if err != nil {
		return nil, err
	}
	out := make([]*types.Match, 0, len(rows))
	for _, m := range rows {
		if m.Status == domevent.MatchStatusStale {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (s *matchService) UpdateStatus(ctx context.Context, matchID uuid.UUID, status string) (*types.Match, error) {
	row, err := s.matches.GetByID(ctx, nil, matchID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, apierr.NotFound("not_found", fmt.Errorf("match %s not found", matchID))
	}
	if !domevent.ValidStatusTransition(row.Status, status) {
		return nil, apierr.Conflict("invalid_transition", fmt.Errorf("cannot move match from %s to %s", row.Status, status))
	}
	if err := s.matches.UpdateStatus(ctx, nil, matchID, status); err != nil {
		return nil, err
	}
	return s.matches.GetByID(ctx, nil, matchID)
}
