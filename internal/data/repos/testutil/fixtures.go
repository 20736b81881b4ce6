package testutil

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/forumhive/forumhive-backend/internal/domain"
	domevent "github.com/forumhive/forumhive-backend/internal/domain/event"
)

func SeedEvent(t *testing.T, tx *gorm.DB, name string) *types.Event {
	t.Helper()
	ev := &types.Event{
		ID:     uuid.New(),
		Name:   name,
		Slug:   name + "-" + uuid.NewString()[:8],
		Status: "live",
	}
	if err := tx.Create(ev).Error; err != nil {
		t.Fatalf("seed event: %v", err)
	}
	return ev
}

// ParticipantOpts carries the profile fields a test cares about; zero values
// are left at their model defaults.
type ParticipantOpts struct {
	FullName        string
	Status          string
	Role            string
	Company         string
	Industry        string
	Interests       []string
	Offering        string
	LookingFor      string
	DeclaredIntents []domevent.Intent
	Sponsor         bool
	VIP             bool
}

func SeedParticipant(t *testing.T, tx *gorm.DB, eventID uuid.UUID, opts ParticipantOpts) *types.Participant {
	t.Helper()
	if opts.FullName == "" {
		opts.FullName = "Test Participant"
	}
	if opts.Status == "" {
		opts.Status = domevent.ParticipantStatusApproved
	}
	if opts.Role == "" {
		opts.Role = "attendee"
	}
	p := &types.Participant{
		ID:         uuid.New(),
		EventID:    eventID,
		FullName:   opts.FullName,
		Email:      uuid.NewString()[:8] + "@example.com",
		Role:       opts.Role,
		Status:     opts.Status,
		Company:    opts.Company,
		Industry:   opts.Industry,
		Offering:   opts.Offering,
		LookingFor: opts.LookingFor,
		Sponsor:    opts.Sponsor,
		VIP:        opts.VIP,
	}
	if len(opts.Interests) > 0 {
		p.Interests = MustJSON(t, opts.Interests)
	}
	if len(opts.DeclaredIntents) > 0 {
		p.DeclaredIntents = MustJSON(t, opts.DeclaredIntents)
	}
	if err := tx.Create(p).Error; err != nil {
		t.Fatalf("seed participant: %v", err)
	}
	return p
}

func SeedRules(t *testing.T, tx *gorm.DB, eventID uuid.UUID, mutate func(r *types.MatchingRules)) *types.MatchingRules {
	t.Helper()
	r := &types.MatchingRules{
		ID:                        uuid.New(),
		EventID:                   eventID,
		IntentWeight:              0.35,
		IndustryWeight:            0.25,
		InterestWeight:            0.25,
		ComplementarityWeight:     0.15,
		MinimumScore:              50,
		MaxRecommendations:        10,
		IntentConfidenceThreshold: 40,
	}
	if mutate != nil {
		mutate(r)
	}
	if err := tx.Create(r).Error; err != nil {
		t.Fatalf("seed matching rules: %v", err)
	}
	return r
}

func MustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	return b
}
