package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	eventrepos "github.com/forumhive/forumhive-backend/internal/data/repos/event"
	"github.com/forumhive/forumhive-backend/internal/data/repos/testutil"
	types "github.com/forumhive/forumhive-backend/internal/domain"
	domevent "github.com/forumhive/forumhive-backend/internal/domain/event"
	"github.com/forumhive/forumhive-backend/internal/platform/apierr"
)

func seedMatch(t *testing.T, g *gorm.DB, eventID uuid.UUID, a, b uuid.UUID, status string, score float64) *types.Match {
	t.Helper()
	first, second := domevent.OrderPair(a, b)
	m := &types.Match{
		ID:             uuid.New(),
		EventID:        eventID,
		PairKey:        domevent.PairKey(a, b),
		ParticipantAID: first,
		ParticipantBID: second,
		Score:          score,
		Status:         status,
	}
	if err := g.Create(m).Error; err != nil {
		t.Fatalf("seed match: %v", err)
	}
	return m
}

func TestMatchServiceUpdateStatus(t *testing.T) {
	g := testutil.DB(t)
	log := testutil.Logger(t)
	svc := NewMatchService(g, log, eventrepos.NewMatchRepo(g, log))

	ev := testutil.SeedEvent(t, g, "match-service")
	a := testutil.SeedParticipant(t, g, ev.ID, testutil.ParticipantOpts{FullName: "A"})
	b := testutil.SeedParticipant(t, g, ev.ID, testutil.ParticipantOpts{FullName: "B"})

	// Unknown match surfaces as a 404, not a generic internal failure.
	var ae *apierr.Error
	_, err := svc.UpdateStatus(context.Background(), uuid.New(), domevent.MatchStatusSaved)
	if !errors.As(err, &ae) || ae.Status != http.StatusNotFound || ae.Code != "not_found" {
		t.Fatalf("unknown match error = %v, want 404 not_found", err)
	}

	// A disallowed lifecycle move is a conflict.
	saved := seedMatch(t, g, ev.ID, a.ID, b.ID, domevent.MatchStatusSaved, 80)
	_, err = svc.UpdateStatus(context.Background(), saved.ID, domevent.MatchStatusDismissed)
	if !errors.As(err, &ae) || ae.Status != http.StatusConflict || ae.Code != "invalid_transition" {
		t.Fatalf("saved->dismissed error = %v, want 409 invalid_transition", err)
	}

	// The allowed move goes through and persists.
	row, err := svc.UpdateStatus(context.Background(), saved.ID, domevent.MatchStatusAccepted)
	if err != nil {
		t.Fatalf("saved->accepted: %v", err)
	}
	if row.Status != domevent.MatchStatusAccepted {
		t.Fatalf("status = %s, want accepted", row.Status)
	}
}

func TestMatchServiceListForParticipant(t *testing.T) {
	g := testutil.DB(t)
	log := testutil.Logger(t)
	svc := NewMatchService(g, log, eventrepos.NewMatchRepo(g, log))

	ev := testutil.SeedEvent(t, g, "match-list")
	a := testutil.SeedParticipant(t, g, ev.ID, testutil.ParticipantOpts{FullName: "A"})
	b := testutil.SeedParticipant(t, g, ev.ID, testutil.ParticipantOpts{FullName: "B"})
	c := testutil.SeedParticipant(t, g, ev.ID, testutil.ParticipantOpts{FullName: "C"})
	seedMatch(t, g, ev.ID, a.ID, b.ID, domevent.MatchStatusPending, 80)
	seedMatch(t, g, ev.ID, a.ID, c.ID, domevent.MatchStatusStale, 90)

	rows, err := svc.ListForParticipant(context.Background(), ev.ID, a.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 || rows[0].PairKey != domevent.PairKey(a.ID, b.ID) {
		t.Fatalf("soft-retired rows must be hidden, got %d rows", len(rows))
	}

	var ae *apierr.Error
	if _, err := svc.ListForParticipant(context.Background(), uuid.Nil, a.ID); !errors.As(err, &ae) || ae.Status != http.StatusBadRequest {
		t.Fatalf("nil event id error = %v, want 400", err)
	}
}
