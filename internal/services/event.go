package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forumhive/forumhive-backend/internal/data/repos"
	types "github.com/forumhive/forumhive-backend/internal/domain"
	domevent "github.com/forumhive/forumhive-backend/internal/domain/event"
	"github.com/forumhive/forumhive-backend/internal/normalization"
	"github.com/forumhive/forumhive-backend/internal/platform/apierr"
	"github.com/forumhive/forumhive-backend/internal/platform/logger"
)

type EventService interface {
	Get(ctx context.Context, id uuid.UUID) (*types.Event, error)
	// Create stores the event and seeds its default matching rules in one
	// transaction, so generation always finds a rules row.
	Create(ctx context.Context, ev *types.Event) (*types.Event, error)
	RegisterParticipant(ctx context.Context, p *types.Participant) (*types.Participant, error)
	ListParticipants(ctx context.Context, eventID uuid.UUID) ([]*types.Participant, error)
}

type eventService struct {
	db           *gorm.DB
	log          *logger.Logger
	events       repos.EventRepo
	participants repos.ParticipantRepo
	rulesSvc     MatchingRulesService
}

func NewEventService(db *gorm.DB, log *logger.Logger, events repos.EventRepo, participants repos.ParticipantRepo, rulesSvc MatchingRulesService) EventService {
	return &eventService{
		db:           db,
		log:          log.With("service", "EventService"),
		events:       events,
		participants: participants,
		rulesSvc:     rulesSvc,
	}
}

func (s *eventService) Get(ctx context.Context, id uuid.UUID) (*types.Event, error) {
	return s.events.GetByID(ctx, nil, id)
}

func (s *eventService) Create(ctx context.Context, ev *types.Event) (*types.Event, error) {
	if ev == nil || strings.TrimSpace(ev.Name) == "" {
		return nil, apierr.BadRequest("invalid_request", fmt.Errorf("event name required"))
	}
	if ev.ID == uuid.Nil {
		ev.ID = uuid.New()
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.events.Create(ctx, tx, ev); err != nil {
			return fmt.Errorf("create event: %w", err)
		}
		if _, err := s.rulesSvc.SeedDefaults(ctx, tx, ev.ID); err != nil {
			return fmt.Errorf("seed matching rules: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ev, nil
}

func (s *eventService) RegisterParticipant(ctx context.Context, p *types.Participant) (*types.Participant, error) {
	if p == nil || p.EventID == uuid.Nil {
		return nil, apierr.BadRequest("invalid_request", fmt.Errorf("event_id required"))
	}
	p.FullName = normalization.CleanDisplayString(p.FullName)
	p.Email = normalization.ParseInputString(p.Email)
	if p.FullName == "" || p.Email == "" {
		return nil, apierr.BadRequest("invalid_request", fmt.Errorf("full_name and email required"))
	}
	declared := DecodeDeclaredCount(p)
	if declared > domevent.MaxDeclaredIntents {
		return nil, apierr.Unprocessable("too_many_intents", fmt.Errorf("at most %d declared intents", domevent.MaxDeclaredIntents))
	}
	ev, err := s.events.GetByID(ctx, nil, p.EventID)
	if err != nil {
		return nil, err
	}
	if ev == nil {
		return nil, apierr.NotFound("not_found", fmt.Errorf("event %s not found", p.EventID))
	}
	if p.Status == "" {
		p.Status = domevent.ParticipantStatusPending
	}
	created, err := s.participants.Create(ctx, nil, []*types.Participant{p})
	if err != nil {
		return nil, err
	}
	return created[0], nil
}

func (s *eventService) ListParticipants(ctx context.Context, eventID uuid.UUID) ([]*types.Participant, error) {
	return s.participants.ListByEvent(ctx, nil, eventID)
}

// DecodeDeclaredCount counts the raw declared-intent entries without
// validating them; registration rejects oversized lists outright.
func DecodeDeclaredCount(p *types.Participant) int {
	if len(p.DeclaredIntents) == 0 {
		return 0
	}
	var out []string
	if err := json.Unmarshal(p.DeclaredIntents, &out); err != nil {
		return 0
	}
	return len(out)
}
