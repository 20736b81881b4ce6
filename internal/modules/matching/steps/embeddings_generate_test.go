package steps

import (
	"context"
	"fmt"
	"testing"

	"gorm.io/gorm"

	eventrepos "github.com/forumhive/forumhive-backend/internal/data/repos/event"
	"github.com/forumhive/forumhive-backend/internal/data/repos/testutil"
	domevent "github.com/forumhive/forumhive-backend/internal/domain/event"
)

type stubEmbedder struct {
	calls int
	fail  bool
}

func (s *stubEmbedder) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	s.calls++
	if s.fail {
		return nil, fmt.Errorf("embedding backend down")
	}
	out := make([][]float32, len(inputs))
	for i := range inputs {
		out[i] = []float32{float32(len(inputs[i])), 1, 0}
	}
	return out, nil
}

func (s *stubEmbedder) GenerateJSON(ctx context.Context, system, user, schemaName string, schema map[string]any) (map[string]any, error) {
	return nil, fmt.Errorf("not used")
}

func embeddingDeps(t *testing.T, g *gorm.DB, ai *stubEmbedder) GenerateEmbeddingsDeps {
	t.Helper()
	log := testutil.Logger(t)
	return GenerateEmbeddingsDeps{
		DB:           g,
		Log:          log,
		AI:           ai,
		Participants: eventrepos.NewParticipantRepo(g, log),
		Embeddings:   eventrepos.NewProfileEmbeddingRepo(g, log),
	}
}

func TestGenerateEmbeddingsSkipsUnchangedText(t *testing.T) {
	g := testutil.DB(t)
	ai := &stubEmbedder{}
	deps := embeddingDeps(t, g, ai)
	ev := testutil.SeedEvent(t, g, "embeddings")
	p := testutil.SeedParticipant(t, g, ev.ID, testutil.ParticipantOpts{
		FullName:  "Embedded",
		Industry:  "Fintech",
		Interests: []string{"Sales"},
	})
	testutil.SeedParticipant(t, g, ev.ID, testutil.ParticipantOpts{FullName: "Empty Profile"})

	out, err := GenerateEmbeddings(context.Background(), deps, GenerateEmbeddingsInput{EventID: ev.ID})
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if out.Generated != 1 {
		t.Fatalf("generated = %d, want 1", out.Generated)
	}
	if out.Skipped != 1 {
		t.Fatalf("textless participant should be skipped, got skipped=%d", out.Skipped)
	}
	if out.Dimensions != 3 {
		t.Fatalf("dimensions = %d, want 3", out.Dimensions)
	}

	// Unchanged text never re-embeds.
	out, err = GenerateEmbeddings(context.Background(), deps, GenerateEmbeddingsInput{EventID: ev.ID})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if out.Generated != 0 || out.Skipped != 2 {
		t.Fatalf("second run generated=%d skipped=%d, want 0/2", out.Generated, out.Skipped)
	}
	if ai.calls != 1 {
		t.Fatalf("embedding backend called %d times, want 1", ai.calls)
	}

	// A profile edit changes the hash and re-embeds just that participant.
	p.Bio = "Now with a bio"
	if err := g.Save(p).Error; err != nil {
		t.Fatalf("update participant: %v", err)
	}
	out, err = GenerateEmbeddings(context.Background(), deps, GenerateEmbeddingsInput{EventID: ev.ID})
	if err != nil {
		t.Fatalf("third run: %v", err)
	}
	if out.Generated != 1 {
		t.Fatalf("changed text should re-embed, generated=%d", out.Generated)
	}

	row, err := deps.Embeddings.GetByParticipantID(context.Background(), nil, p.ID)
	if err != nil {
		t.Fatalf("load embedding: %v", err)
	}
	if row == nil || len(DecodeEmbedding(row.Vector)) != 3 {
		t.Fatalf("expected cached 3-dim vector, got %+v", row)
	}
}

func TestGenerateEmbeddingsFailureIsCountedNotRaised(t *testing.T) {
	g := testutil.DB(t)
	ai := &stubEmbedder{fail: true}
	deps := embeddingDeps(t, g, ai)
	ev := testutil.SeedEvent(t, g, "embed-fail")
	testutil.SeedParticipant(t, g, ev.ID, testutil.ParticipantOpts{
		FullName: "Doomed",
		Industry: "Fintech",
	})

	out, err := GenerateEmbeddings(context.Background(), deps, GenerateEmbeddingsInput{EventID: ev.ID})
	if err != nil {
		t.Fatalf("backend failure must not fail the call: %v", err)
	}
	if out.Failed != 1 || out.Generated != 0 {
		t.Fatalf("failed=%d generated=%d, want 1/0", out.Failed, out.Generated)
	}
}

func TestProfileTextStableOrder(t *testing.T) {
	p := &domevent.Participant{
		Title:    "CTO",
		Company:  "Acme",
		Industry: "Fintech",
	}
	a := ProfileText(p)
	b := ProfileText(p)
	if a != b || a == "" {
		t.Fatalf("profile text must be non-empty and stable, got %q / %q", a, b)
	}
	if hashProfileText(a) != hashProfileText(b) {
		t.Fatalf("hash must be stable for identical text")
	}
}
