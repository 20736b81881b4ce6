package steps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/forumhive/forumhive-backend/internal/data/repos"
	types "github.com/forumhive/forumhive-backend/internal/domain"
	domevent "github.com/forumhive/forumhive-backend/internal/domain/event"
	"github.com/forumhive/forumhive-backend/internal/platform/logger"
	"github.com/forumhive/forumhive-backend/internal/realtime"
	"github.com/forumhive/forumhive-backend/internal/realtime/bus"
)

// ErrRulesMissing marks generation attempted for an event with no
// MatchingRules row. Weights and thresholds are mandatory inputs, so the
// whole call fails rather than guessing defaults.
var ErrRulesMissing = errors.New("matching rules not configured for event")

type GenerateMatchesDeps struct {
	DB  *gorm.DB
	Log *logger.Logger

	Participants repos.ParticipantRepo
	Rules        repos.MatchingRulesRepo
	Matches      repos.MatchRepo
	Embeddings   repos.ProfileEmbeddingRepo

	Bus bus.Bus
}

type GenerateMatchesInput struct {
	EventID uuid.UUID `json:"event_id"`
}

type GenerateMatchesOutput struct {
	EventID uuid.UUID `json:"event_id"`
	Created int       `json:"created"`
	Updated int       `json:"updated"`
	Revived int       `json:"revived"`
	Stale   int       `json:"stale"`
}

// Pair enumeration is quadratic; events beyond this many approved
// participants are refused rather than silently starting an unbounded job.
const maxCandidateUniverse = 2000

// scoringProfile is a participant with its jsonb columns decoded once, so the
// O(n²) pair loop never re-parses.
type scoringProfile struct {
	p         *types.Participant
	intent    domevent.IntentVector
	tags      map[string]struct{}
	embedding []float32
	company   string
	role      string
}

type scoredPair struct {
	a, b    *scoringProfile
	pairKey string

	intent   FactorScore
	industry FactorScore
	interest FactorScore
	comp     FactorScore
	embed    FactorScore

	score   float64
	reasons []string
	ok      bool
}

// GenerateMatches runs the full pipeline for one event: enumerate eligible
// pairs, score them against a rules snapshot captured once at the start,
// threshold, cap per participant, and upsert. Re-entrant: concurrent runs
// with the same inputs converge because rows are keyed by unordered pair and
// score writes never touch status.
func GenerateMatches(ctx context.Context, deps GenerateMatchesDeps, in GenerateMatchesInput) (GenerateMatchesOutput, error) {
	out := GenerateMatchesOutput{EventID: in.EventID}
	if deps.DB == nil || deps.Log == nil || deps.Participants == nil || deps.Rules == nil || deps.Matches == nil || deps.Embeddings == nil {
		return out, fmt.Errorf("generate_matches: missing deps")
	}
	if in.EventID == uuid.Nil {
		return out, fmt.Errorf("generate_matches: missing event_id")
	}
	log := deps.Log.With("step", "generate_matches", "event_id", in.EventID)

	rules, err := deps.Rules.GetByEventID(ctx, nil, in.EventID)
	if err != nil {
		return out, fmt.Errorf("generate_matches: load rules: %w", err)
	}
	if rules == nil {
		return out, fmt.Errorf("generate_matches: %w", ErrRulesMissing)
	}

	participants, err := deps.Participants.ListApprovedByEvent(ctx, nil, in.EventID)
	if err != nil {
		return out, fmt.Errorf("generate_matches: list participants: %w", err)
	}
	if len(participants) > maxCandidateUniverse {
		return out, fmt.Errorf("generate_matches: %d approved participants exceeds the %d candidate cap", len(participants), maxCandidateUniverse)
	}

	embeddings, err := deps.Embeddings.ListByEvent(ctx, nil, in.EventID)
	if err != nil {
		return out, fmt.Errorf("generate_matches: list embeddings: %w", err)
	}
	vectorsByParticipant := make(map[uuid.UUID][]float32, len(embeddings))
	for _, e := range embeddings {
		if v := DecodeEmbedding(e.Vector); len(v) > 0 {
			vectorsByParticipant[e.ParticipantID] = v
		}
	}

	profiles := make([]*scoringProfile, 0, len(participants))
	for _, p := range participants {
		profiles = append(profiles, &scoringProfile{
			p:         p,
			intent:    DecodeIntentVector(p.IntentVector),
			tags:      NormalizeTagSet(DecodeStringSet(p.ExpertiseAreas), DecodeStringSet(p.Interests)),
			embedding: vectorsByParticipant[p.ID],
			company:   strings.ToLower(strings.TrimSpace(p.Company)),
			role:      strings.ToLower(strings.TrimSpace(p.Role)),
		})
	}

	pairs := enumeratePairs(rules, profiles)
	scorePairs(ctx, rules, pairs)

	kept := selectTopK(rules, profiles, pairs)

	existing, err := deps.Matches.ListByEvent(ctx, nil, in.EventID)
	if err != nil {
		return out, fmt.Errorf("generate_matches: list existing: %w", err)
	}
	existingByKey := make(map[string]*types.Match, len(existing))
	for _, m := range existing {
		existingByKey[m.PairKey] = m
	}

	var reviveIDs []uuid.UUID
	for _, pr := range kept {
		reasonsRaw, mErr := json.Marshal(pr.reasons)
		if mErr != nil {
			reasonsRaw = []byte("[]")
		}
		aID, bID := domevent.OrderPair(pr.a.p.ID, pr.b.p.ID)
		row := &types.Match{
			EventID:              in.EventID,
			PairKey:              pr.pairKey,
			ParticipantAID:       aID,
			ParticipantBID:       bID,
			IntentScore:          pr.intent.Value,
			IndustryScore:        pr.industry.Value,
			InterestScore:        pr.interest.Value,
			ComplementarityScore: pr.comp.Value,
			Score:                pr.score,
			Reasons:              reasonsRaw,
			Status:               domevent.MatchStatusPending,
		}
		if pr.embed.Present {
			v := pr.embed.Value
			row.EmbeddingScore = &v
		}
		prev, exists := existingByKey[pr.pairKey]
		if exists {
			row.ID = prev.ID
			out.Updated++
			if prev.Status == domevent.MatchStatusStale {
				reviveIDs = append(reviveIDs, prev.ID)
			}
		} else {
			out.Created++
		}
		if err := deps.Matches.UpsertScores(ctx, nil, row); err != nil {
			return out, fmt.Errorf("generate_matches: upsert pair %s: %w", pr.pairKey, err)
		}
	}

	if len(reviveIDs) > 0 {
		if err := deps.Matches.SetStatusByIDs(ctx, nil, reviveIDs, domevent.MatchStatusPending); err != nil {
			return out, fmt.Errorf("generate_matches: revive stale: %w", err)
		}
		out.Revived = len(reviveIDs)
	}

	// Soft-retire pending rows that no longer qualify. Saved, dismissed, and
	// accepted rows keep the participant's decision untouched.
	keptKeys := make(map[string]bool, len(kept))
	for _, pr := range kept {
		keptKeys[pr.pairKey] = true
	}
	var staleIDs []uuid.UUID
	for _, m := range existing {
		if m.Status == domevent.MatchStatusPending && !keptKeys[m.PairKey] {
			staleIDs = append(staleIDs, m.ID)
		}
	}
	if len(staleIDs) > 0 {
		if err := deps.Matches.SetStatusByIDs(ctx, nil, staleIDs, domevent.MatchStatusStale); err != nil {
			return out, fmt.Errorf("generate_matches: retire stale: %w", err)
		}
		out.Stale = len(staleIDs)
	}

	publishProgress(ctx, deps.Bus, realtime.ProgressEvent{
		EventID: in.EventID,
		Stage:   realtime.StageMatchesGenerated,
		Counts: map[string]int{
			"created": out.Created,
			"updated": out.Updated,
			"stale":   out.Stale,
		},
	})
	log.Info("matches generated", "created", out.Created, "updated", out.Updated, "revived", out.Revived, "stale", out.Stale)
	return out, nil
}

// enumeratePairs lists the unordered candidate pairs surviving the exclusion
// rules. Self-pairs cannot occur by construction.
func enumeratePairs(rules *types.MatchingRules, profiles []*scoringProfile) []*scoredPair {
	var pairs []*scoredPair
	for i := 0; i < len(profiles); i++ {
		for j := i + 1; j < len(profiles); j++ {
			a, b := profiles[i], profiles[j]
			if rules.ExcludeSameCompany && a.company != "" && a.company == b.company {
				continue
			}
			if rules.ExcludeSameRole && a.role != "" && a.role == b.role {
				continue
			}
			pairs = append(pairs, &scoredPair{
				a:       a,
				b:       b,
				pairKey: domevent.PairKey(a.p.ID, b.p.ID),
			})
		}
	}
	return pairs
}

// scorePairs fills each pair in place. Scoring is pure, so the slice is split
// across workers with no shared state beyond the disjoint segments.
func scorePairs(ctx context.Context, rules *types.MatchingRules, pairs []*scoredPair) {
	workers := runtime.GOMAXPROCS(0)
	if workers > len(pairs) {
		workers = len(pairs)
	}
	if workers < 1 {
		return
	}
	g, _ := errgroup.WithContext(ctx)
	chunk := (len(pairs) + workers - 1) / workers
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > len(pairs) {
			end = len(pairs)
		}
		seg := pairs[start:end]
		g.Go(func() error {
			for _, pr := range seg {
				scoreOnePair(rules, pr)
			}
			return nil
		})
	}
	_ = g.Wait()
}

func scoreOnePair(rules *types.MatchingRules, pr *scoredPair) {
	a, b := pr.a, pr.b

	pr.intent = IntentScore(a.intent, b.intent)
	pr.industry = IndustryScore(a.p.Industry, b.p.Industry)
	pr.interest = InterestScore(a.tags, b.tags)
	pr.comp = ComplementarityScore(a.p, b.p, a.intent, b.intent)
	pr.embed = EmbeddingScore(a.embedding, b.embedding)

	aggregate, ok := AggregateScore(rules, pr.intent, pr.industry, pr.interest, pr.comp, pr.embed)
	if !ok {
		return
	}
	pr.score = ApplyPriorityBoost(rules, a.p, b.p, aggregate)
	if pr.score < rules.MinimumScore {
		return
	}
	shared := SharedTags(a.tags, b.tags)
	pr.reasons = BuildReasons(a.p, b.p, a.intent, b.intent, shared, pr.intent, pr.industry, pr.interest, pr.comp, pr.embed)
	pr.ok = true
}

// selectTopK keeps a pair when it ranks inside either side's top
// max_recommendations list. Ordering is score descending with the pair key as
// a deterministic tie-break.
func selectTopK(rules *types.MatchingRules, profiles []*scoringProfile, pairs []*scoredPair) []*scoredPair {
	perParticipant := make(map[uuid.UUID][]*scoredPair, len(profiles))
	for _, pr := range pairs {
		if !pr.ok {
			continue
		}
		perParticipant[pr.a.p.ID] = append(perParticipant[pr.a.p.ID], pr)
		perParticipant[pr.b.p.ID] = append(perParticipant[pr.b.p.ID], pr)
	}

	k := rules.MaxRecommendations
	if k <= 0 {
		k = 10
	}
	keep := map[string]*scoredPair{}
	for _, list := range perParticipant {
		sort.SliceStable(list, func(i, j int) bool {
			if list[i].score != list[j].score {
				return list[i].score > list[j].score
			}
			return list[i].pairKey < list[j].pairKey
		})
		limit := k
		if limit > len(list) {
			limit = len(list)
		}
		for _, pr := range list[:limit] {
			keep[pr.pairKey] = pr
		}
	}

	out := make([]*scoredPair, 0, len(keep))
	for _, pr := range keep {
		out = append(out, pr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].pairKey < out[j].pairKey })
	return out
}
