package steps

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	eventrepos "github.com/forumhive/forumhive-backend/internal/data/repos/event"
	"github.com/forumhive/forumhive-backend/internal/data/repos/testutil"
	types "github.com/forumhive/forumhive-backend/internal/domain"
	domevent "github.com/forumhive/forumhive-backend/internal/domain/event"
)

func generateDeps(t *testing.T, g *gorm.DB) GenerateMatchesDeps {
	t.Helper()
	log := testutil.Logger(t)
	return GenerateMatchesDeps{
		DB:           g,
		Log:          log,
		Participants: eventrepos.NewParticipantRepo(g, log),
		Rules:        eventrepos.NewMatchingRulesRepo(g, log),
		Matches:      eventrepos.NewMatchRepo(g, log),
		Embeddings:   eventrepos.NewProfileEmbeddingRepo(g, log),
	}
}

func seedPair(t *testing.T, g *gorm.DB, eventID uuid.UUID) (*types.Participant, *types.Participant) {
	t.Helper()
	a := testutil.SeedParticipant(t, g, eventID, testutil.ParticipantOpts{
		FullName:        "Seller",
		Industry:        "Fintech",
		Interests:       []string{"Sales"},
		DeclaredIntents: []domevent.Intent{domevent.IntentSelling},
	})
	b := testutil.SeedParticipant(t, g, eventID, testutil.ParticipantOpts{
		FullName:        "Buyer",
		Industry:        "Fintech",
		Interests:       []string{"Sales", "Marketing"},
		DeclaredIntents: []domevent.Intent{domevent.IntentBuying},
	})
	return a, b
}

func computeIntentsFor(t *testing.T, g *gorm.DB, eventID uuid.UUID) {
	t.Helper()
	log := testutil.Logger(t)
	_, err := ComputeIntents(context.Background(), ComputeIntentsDeps{
		DB:           g,
		Log:          log,
		Participants: eventrepos.NewParticipantRepo(g, log),
		Rules:        eventrepos.NewMatchingRulesRepo(g, log),
		Interactions: eventrepos.NewInteractionEventRepo(g, log),
	}, ComputeIntentsInput{EventID: eventID})
	if err != nil {
		t.Fatalf("compute intents: %v", err)
	}
}

func listMatches(t *testing.T, g *gorm.DB, deps GenerateMatchesDeps, eventID uuid.UUID) []*types.Match {
	t.Helper()
	rows, err := deps.Matches.ListByEvent(context.Background(), nil, eventID)
	if err != nil {
		t.Fatalf("list matches: %v", err)
	}
	return rows
}

func TestGenerateMatchesRequiresRules(t *testing.T) {
	g := testutil.DB(t)
	deps := generateDeps(t, g)
	ev := testutil.SeedEvent(t, g, "no-rules")

	_, err := GenerateMatches(context.Background(), deps, GenerateMatchesInput{EventID: ev.ID})
	if !errors.Is(err, ErrRulesMissing) {
		t.Fatalf("expected ErrRulesMissing, got %v", err)
	}
}

func TestGenerateMatchesDeterministicAndIdempotent(t *testing.T) {
	g := testutil.DB(t)
	deps := generateDeps(t, g)
	ev := testutil.SeedEvent(t, g, "deterministic")
	testutil.SeedRules(t, g, ev.ID, nil)
	seedPair(t, g, ev.ID)
	computeIntentsFor(t, g, ev.ID)

	first, err := GenerateMatches(context.Background(), deps, GenerateMatchesInput{EventID: ev.ID})
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.Created != 1 || first.Updated != 0 {
		t.Fatalf("first run created=%d updated=%d, want 1/0", first.Created, first.Updated)
	}
	rowsA := listMatches(t, g, deps, ev.ID)

	second, err := GenerateMatches(context.Background(), deps, GenerateMatchesInput{EventID: ev.ID})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.Created != 0 || second.Updated != 1 {
		t.Fatalf("second run created=%d updated=%d, want 0/1", second.Created, second.Updated)
	}
	rowsB := listMatches(t, g, deps, ev.ID)

	if len(rowsA) != 1 || len(rowsB) != 1 {
		t.Fatalf("expected exactly one row per unordered pair, got %d then %d", len(rowsA), len(rowsB))
	}
	if rowsA[0].Score != rowsB[0].Score {
		t.Fatalf("re-run changed score: %v -> %v", rowsA[0].Score, rowsB[0].Score)
	}
	if string(rowsA[0].Reasons) != string(rowsB[0].Reasons) {
		t.Fatalf("re-run changed reasons: %s -> %s", rowsA[0].Reasons, rowsB[0].Reasons)
	}
	if rowsB[0].PairKey != domevent.PairKey(rowsB[0].ParticipantAID, rowsB[0].ParticipantBID) {
		t.Fatalf("pair key %q does not match canonical ordering", rowsB[0].PairKey)
	}
}

func TestGenerateMatchesPreservesSavedStatus(t *testing.T) {
	g := testutil.DB(t)
	deps := generateDeps(t, g)
	ev := testutil.SeedEvent(t, g, "status-preserve")
	testutil.SeedRules(t, g, ev.ID, nil)
	seedPair(t, g, ev.ID)
	computeIntentsFor(t, g, ev.ID)

	if _, err := GenerateMatches(context.Background(), deps, GenerateMatchesInput{EventID: ev.ID}); err != nil {
		t.Fatalf("first run: %v", err)
	}
	rows := listMatches(t, g, deps, ev.ID)
	if len(rows) != 1 {
		t.Fatalf("expected one row, got %d", len(rows))
	}
	if err := deps.Matches.UpdateStatus(context.Background(), nil, rows[0].ID, domevent.MatchStatusSaved); err != nil {
		t.Fatalf("save match: %v", err)
	}

	if _, err := GenerateMatches(context.Background(), deps, GenerateMatchesInput{EventID: ev.ID}); err != nil {
		t.Fatalf("second run: %v", err)
	}
	rows = listMatches(t, g, deps, ev.ID)
	if rows[0].Status != domevent.MatchStatusSaved {
		t.Fatalf("regeneration reset status to %q", rows[0].Status)
	}
}

func TestGenerateMatchesExcludesSameCompany(t *testing.T) {
	g := testutil.DB(t)
	deps := generateDeps(t, g)
	ev := testutil.SeedEvent(t, g, "exclusion")
	testutil.SeedRules(t, g, ev.ID, func(r *types.MatchingRules) {
		r.ExcludeSameCompany = true
	})
	testutil.SeedParticipant(t, g, ev.ID, testutil.ParticipantOpts{
		FullName: "A", Company: "Acme", Industry: "Fintech",
		DeclaredIntents: []domevent.Intent{domevent.IntentSelling},
	})
	testutil.SeedParticipant(t, g, ev.ID, testutil.ParticipantOpts{
		FullName: "B", Company: "Acme", Industry: "Fintech",
		DeclaredIntents: []domevent.Intent{domevent.IntentBuying},
	})
	computeIntentsFor(t, g, ev.ID)

	if _, err := GenerateMatches(context.Background(), deps, GenerateMatchesInput{EventID: ev.ID}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if rows := listMatches(t, g, deps, ev.ID); len(rows) != 0 {
		t.Fatalf("same-company pair must not produce a row, got %d", len(rows))
	}
}

func TestGenerateMatchesSoftRetiresAndRevives(t *testing.T) {
	g := testutil.DB(t)
	deps := generateDeps(t, g)
	ev := testutil.SeedEvent(t, g, "stale-revive")
	rules := testutil.SeedRules(t, g, ev.ID, nil)
	a, b := seedPair(t, g, ev.ID)
	computeIntentsFor(t, g, ev.ID)

	if _, err := GenerateMatches(context.Background(), deps, GenerateMatchesInput{EventID: ev.ID}); err != nil {
		t.Fatalf("first run: %v", err)
	}
	rows := listMatches(t, g, deps, ev.ID)
	if len(rows) != 1 || rows[0].Status != domevent.MatchStatusPending {
		t.Fatalf("expected one pending row, got %+v", rows)
	}

	// Raise the threshold beyond reach: the pending row is soft-retired,
	// never deleted.
	rules.MinimumScore = 100
	if err := deps.Rules.Upsert(context.Background(), nil, rules); err != nil {
		t.Fatalf("update rules: %v", err)
	}
	out, err := GenerateMatches(context.Background(), deps, GenerateMatchesInput{EventID: ev.ID})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if out.Stale != 1 {
		t.Fatalf("expected one stale row, got %d", out.Stale)
	}
	rows = listMatches(t, g, deps, ev.ID)
	if len(rows) != 1 || rows[0].Status != domevent.MatchStatusStale {
		t.Fatalf("expected retired row, got %+v", rows[0])
	}

	// Lowering the threshold revives the same row.
	rules.MinimumScore = 50
	if err := deps.Rules.Upsert(context.Background(), nil, rules); err != nil {
		t.Fatalf("restore rules: %v", err)
	}
	out, err = GenerateMatches(context.Background(), deps, GenerateMatchesInput{EventID: ev.ID})
	if err != nil {
		t.Fatalf("third run: %v", err)
	}
	if out.Revived != 1 || out.Created != 0 {
		t.Fatalf("expected revival of the existing row, got %+v", out)
	}
	rows = listMatches(t, g, deps, ev.ID)
	if len(rows) != 1 || rows[0].Status != domevent.MatchStatusPending {
		t.Fatalf("expected revived pending row, got %+v", rows[0])
	}
	if rows[0].PairKey != domevent.PairKey(a.ID, b.ID) {
		t.Fatalf("revived row pair key mismatch")
	}
}

func TestGenerateMatchesCapEnforcement(t *testing.T) {
	g := testutil.DB(t)
	deps := generateDeps(t, g)
	ev := testutil.SeedEvent(t, g, "cap")
	testutil.SeedRules(t, g, ev.ID, func(r *types.MatchingRules) {
		r.MaxRecommendations = 1
	})
	for i := 0; i < 4; i++ {
		intent := domevent.IntentSelling
		if i%2 == 1 {
			intent = domevent.IntentBuying
		}
		testutil.SeedParticipant(t, g, ev.ID, testutil.ParticipantOpts{
			Industry:        "Fintech",
			Interests:       []string{"Sales"},
			DeclaredIntents: []domevent.Intent{intent},
		})
	}
	computeIntentsFor(t, g, ev.ID)

	if _, err := GenerateMatches(context.Background(), deps, GenerateMatchesInput{EventID: ev.ID}); err != nil {
		t.Fatalf("run: %v", err)
	}
	rows := listMatches(t, g, deps, ev.ID)
	// Six qualifying pairs exist; with k=1 each participant contributes at
	// most one, so the symmetric union can never exceed the participant count.
	if len(rows) == 0 || len(rows) > 4 {
		t.Fatalf("expected between 1 and 4 rows under k=1, got %d", len(rows))
	}
}

func TestScorePairThresholdBoundary(t *testing.T) {
	mk := func(industry string) *scoringProfile {
		return &scoringProfile{
			p:      &types.Participant{ID: uuid.New(), Industry: industry},
			intent: domevent.IntentVector{},
			tags:   map[string]struct{}{},
		}
	}
	// Interest-only weighting: both sides untagged scores the neutral 50.
	rules := &types.MatchingRules{InterestWeight: 1, MinimumScore: 50, MaxRecommendations: 10}
	pr := &scoredPair{a: mk("Fintech"), b: mk("Fintech"), pairKey: "a:b"}
	scoreOnePair(rules, pr)
	if !pr.ok || pr.score != 50 {
		t.Fatalf("aggregate exactly at minimum_score must be included, got ok=%v score=%v", pr.ok, pr.score)
	}

	rules.MinimumScore = 51
	pr = &scoredPair{a: mk("Fintech"), b: mk("Fintech"), pairKey: "a:b"}
	scoreOnePair(rules, pr)
	if pr.ok {
		t.Fatalf("aggregate one unit below minimum_score must be excluded")
	}
}

func TestGenerateMatchesEmbeddingEquivalence(t *testing.T) {
	g := testutil.DB(t)
	deps := generateDeps(t, g)

	run := func(embeddingWeight float64, withVectors bool) float64 {
		ev := testutil.SeedEvent(t, g, "equivalence")
		testutil.SeedRules(t, g, ev.ID, func(r *types.MatchingRules) {
			r.EmbeddingWeight = embeddingWeight
		})
		a, b := seedPair(t, g, ev.ID)
		computeIntentsFor(t, g, ev.ID)
		if withVectors {
			for _, p := range []*types.Participant{a, b} {
				row := &types.ProfileEmbedding{
					EventID:       ev.ID,
					ParticipantID: p.ID,
					Vector:        testutil.MustJSON(t, []float32{1, 0}),
					Dimensions:    2,
					TextHash:      "fixed",
				}
				if err := deps.Embeddings.Upsert(context.Background(), nil, row); err != nil {
					t.Fatalf("seed embedding: %v", err)
				}
			}
		}
		if _, err := GenerateMatches(context.Background(), deps, GenerateMatchesInput{EventID: ev.ID}); err != nil {
			t.Fatalf("run: %v", err)
		}
		rows := listMatches(t, g, deps, ev.ID)
		if len(rows) != 1 {
			t.Fatalf("expected one row, got %d", len(rows))
		}
		return rows[0].Score
	}

	// A pair missing only the embedding factor must score as if the
	// embedding weight were zero.
	missing := run(0.2, false)
	zeroWeight := run(0, false)
	if missing != zeroWeight {
		t.Fatalf("missing embedding scored %v but zero weight scored %v", missing, zeroWeight)
	}
}
