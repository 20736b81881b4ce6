package steps

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forumhive/forumhive-backend/internal/data/repos"
	types "github.com/forumhive/forumhive-backend/internal/domain"
	domevent "github.com/forumhive/forumhive-backend/internal/domain/event"
	"github.com/forumhive/forumhive-backend/internal/platform/logger"
	"github.com/forumhive/forumhive-backend/internal/platform/openai"
	"github.com/forumhive/forumhive-backend/internal/realtime"
	"github.com/forumhive/forumhive-backend/internal/realtime/bus"
)

type ComputeIntentsDeps struct {
	DB  *gorm.DB
	Log *logger.Logger

	// Optional: advisory free-text classification. When nil the pass is
	// skipped entirely.
	AI openai.Client

	Participants repos.ParticipantRepo
	Rules        repos.MatchingRulesRepo
	Interactions repos.InteractionEventRepo

	// Optional progress fan-out.
	Bus bus.Bus
}

type ComputeIntentsInput struct {
	EventID uuid.UUID `json:"event_id"`
}

type ComputeIntentsOutput struct {
	EventID    uuid.UUID `json:"event_id"`
	Total      int       `json:"total"`
	Classified int       `json:"classified"`
	WithAI     int       `json:"with_ai"`
	Failed     int       `json:"failed"`
}

// behavioralIntentHints maps recorded interaction kinds to the intents they
// weakly evidence.
var behavioralIntentHints = map[string]domevent.Intent{
	domevent.InteractionKindMessage:        domevent.IntentNetworking,
	domevent.InteractionKindMeetingRequest: domevent.IntentPartnering,
	domevent.InteractionKindProfileView:    domevent.IntentLearning,
	domevent.InteractionKindSessionAttend:  domevent.IntentLearning,
}

const behavioralSignalWindow = 5000

// ComputeIntents refreshes the intent vector and confidence for every
// approved participant of an event. A participant with no usable signal ends
// with an empty vector and confidence zero, which is a valid terminal state,
// not an error. Per-participant failures are counted and never abort the
// batch.
func ComputeIntents(ctx context.Context, deps ComputeIntentsDeps, in ComputeIntentsInput) (ComputeIntentsOutput, error) {
	out := ComputeIntentsOutput{EventID: in.EventID}
	if deps.DB == nil || deps.Log == nil || deps.Participants == nil || deps.Rules == nil {
		return out, fmt.Errorf("compute_intents: missing deps")
	}
	if in.EventID == uuid.Nil {
		return out, fmt.Errorf("compute_intents: missing event_id")
	}
	log := deps.Log.With("step", "compute_intents", "event_id", in.EventID)

	rules, err := deps.Rules.GetByEventID(ctx, nil, in.EventID)
	if err != nil {
		return out, fmt.Errorf("compute_intents: load rules: %w", err)
	}
	useBehavioral := rules != nil && rules.UseBehavioralIntent
	confidenceThreshold := 40.0
	if rules != nil {
		confidenceThreshold = rules.IntentConfidenceThreshold
	}

	participants, err := deps.Participants.ListApprovedByEvent(ctx, nil, in.EventID)
	if err != nil {
		return out, fmt.Errorf("compute_intents: list participants: %w", err)
	}
	out.Total = len(participants)

	var behavioral map[uuid.UUID]domevent.IntentVector
	if useBehavioral && deps.Interactions != nil {
		behavioral, err = behavioralVectors(ctx, deps, in.EventID)
		if err != nil {
			// Behavioral signal is an enrichment; fall back to declared-only.
			log.Warn("behavioral signal unavailable, continuing declared-only", "error", err)
			behavioral = nil
		}
	}

	now := time.Now().UTC()
	for _, p := range participants {
		vector, confidence := inferDeclaredIntent(p)

		if bv, ok := behavioral[p.ID]; ok && !bv.Empty() {
			vector = blendIntent(vector, bv, blendWeight(confidence, confidenceThreshold))
		}

		if deps.AI != nil {
			if dist, ok := classifyIntentAI(ctx, deps.AI, log, p); ok {
				raw, mErr := json.Marshal(dist)
				if mErr == nil {
					p.AIIntentClassification = raw
					t := now
					p.AIClassifiedAt = &t
					confidence = clampScore(confidence + 10)
					out.WithAI++
				}
			}
		}

		p.IntentConfidence = confidence
		p.IntentComputedAt = &now
		if !vector.Empty() {
			raw, mErr := json.Marshal(vector)
			if mErr != nil {
				out.Failed++
				continue
			}
			p.IntentVector = raw
			out.Classified++
		} else {
			p.IntentVector = nil
			p.IntentConfidence = 0
		}

		if err := deps.Participants.SaveIntent(ctx, nil, p); err != nil {
			log.Warn("persist intent failed", "participant_id", p.ID, "error", err)
			out.Failed++
		}
	}

	publishProgress(ctx, deps.Bus, realtime.ProgressEvent{
		EventID: in.EventID,
		Stage:   realtime.StageIntentsComputed,
		Counts: map[string]int{
			"total":      out.Total,
			"classified": out.Classified,
			"with_ai":    out.WithAI,
			"failed":     out.Failed,
		},
	})
	log.Info("intents computed", "total", out.Total, "classified", out.Classified, "with_ai", out.WithAI, "failed", out.Failed)
	return out, nil
}

// inferDeclaredIntent builds the explicit-signal vector: each declared intent
// takes an equal share, and confidence grows with declared count and how much
// of the profile is filled in.
func inferDeclaredIntent(p *types.Participant) (domevent.IntentVector, float64) {
	declared := DecodeDeclaredIntents(p.DeclaredIntents)
	vector := domevent.IntentVector{}
	if len(declared) > 0 {
		share := 1.0 / float64(len(declared))
		for _, in := range declared {
			vector[in] += share
		}
	}

	confidence := 0.0
	confidence += 20 * float64(len(declared))
	if confidence > 60 {
		confidence = 60
	}
	if strings.TrimSpace(p.Title) != "" && strings.TrimSpace(p.Company) != "" {
		confidence += 10
	}
	if strings.TrimSpace(p.Bio) != "" {
		confidence += 10
	}
	if strings.TrimSpace(p.LookingFor) != "" || strings.TrimSpace(p.Offering) != "" {
		confidence += 10
	}
	if len(DecodeStringSet(p.ExpertiseAreas)) > 0 || len(DecodeStringSet(p.Interests)) > 0 {
		confidence += 10
	}
	if len(declared) == 0 && confidence > 0 {
		// Profile text alone is weak signal; without a declared intent the
		// vector stays empty and confidence reflects only filled fields.
		confidence = clampScore(confidence - 20)
	}
	return vector, clampScore(confidence)
}

// blendWeight returns the explicit-signal share of the blend. Below the
// rules confidence threshold the shares are purely confidence-proportional;
// at or above it the declared signal is trusted and the behavioral share is
// halved.
func blendWeight(confidence, threshold float64) float64 {
	ce := clampScore(confidence) / 100
	if confidence >= threshold {
		ce += (1 - ce) / 2
	}
	return ce
}

// blendIntent mixes the behavioral distribution in proportionally to how
// little explicit confidence exists: final = ce*explicit + (1-ce)*behavioral.
func blendIntent(explicit, behavioral domevent.IntentVector, ce float64) domevent.IntentVector {
	if ce < 0 {
		ce = 0
	}
	if ce > 1 {
		ce = 1
	}
	if explicit.Empty() {
		ce = 0
	}
	out := domevent.IntentVector{}
	for _, in := range domevent.AllIntents() {
		v := ce*explicit[in] + (1-ce)*behavioral[in]
		if v > 0 {
			out[in] = v
		}
	}
	return out
}

// behavioralVectors turns recent interaction rows into per-participant intent
// distributions using the kind hints.
func behavioralVectors(ctx context.Context, deps ComputeIntentsDeps, eventID uuid.UUID) (map[uuid.UUID]domevent.IntentVector, error) {
	rows, err := deps.Interactions.ListRecentByEvent(ctx, nil, eventID, behavioralSignalWindow)
	if err != nil {
		return nil, err
	}
	counts := map[uuid.UUID]map[domevent.Intent]float64{}
	for _, row := range rows {
		hint, ok := behavioralIntentHints[row.Kind]
		if !ok {
			continue
		}
		if counts[row.ParticipantID] == nil {
			counts[row.ParticipantID] = map[domevent.Intent]float64{}
		}
		counts[row.ParticipantID][hint]++
	}
	out := make(map[uuid.UUID]domevent.IntentVector, len(counts))
	for pid, byIntent := range counts {
		var total float64
		for _, n := range byIntent {
			total += n
		}
		if total == 0 {
			continue
		}
		v := domevent.IntentVector{}
		for in, n := range byIntent {
			v[in] = n / total
		}
		out[pid] = v
	}
	return out, nil
}

var intentClassificationSchema = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"properties": map[string]any{
		"distribution": map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"properties": map[string]any{
				"buying":     map[string]any{"type": "number"},
				"selling":    map[string]any{"type": "number"},
				"investing":  map[string]any{"type": "number"},
				"partnering": map[string]any{"type": "number"},
				"learning":   map[string]any{"type": "number"},
				"networking": map[string]any{"type": "number"},
			},
			"required": []string{"buying", "selling", "investing", "partnering", "learning", "networking"},
		},
		"rationale": map[string]any{"type": "string"},
	},
	"required": []string{"distribution", "rationale"},
}

// classifyIntentAI asks the model for an advisory intent distribution from
// the participant's free text. The result is stored as diagnostics only and
// never blended into the vector matching uses. Any failure is isolated.
func classifyIntentAI(ctx context.Context, ai openai.Client, log *logger.Logger, p *types.Participant) (map[string]any, bool) {
	text := ProfileText(p)
	if strings.TrimSpace(text) == "" {
		return nil, false
	}
	system := "You classify B2B event attendees. Given a profile, estimate a probability distribution over the networking intents buying, selling, investing, partnering, learning, networking. Weights must sum to 1."
	res, err := ai.GenerateJSON(ctx, system, text, "intent_classification", intentClassificationSchema)
	if err != nil {
		log.Warn("ai intent classification failed", "participant_id", p.ID, "error", err)
		return nil, false
	}
	return res, true
}

// ProfileText assembles the text embedded and classified for a participant.
// Field order is fixed so the hash is stable.
func ProfileText(p *types.Participant) string {
	parts := []string{}
	add := func(label, v string) {
		v = strings.TrimSpace(v)
		if v != "" {
			parts = append(parts, label+": "+v)
		}
	}
	add("Title", p.Title)
	add("Company", p.Company)
	add("Industry", p.Industry)
	add("Bio", p.Bio)
	add("Looking for", p.LookingFor)
	add("Offering", p.Offering)
	if tags := DecodeStringSet(p.ExpertiseAreas); len(tags) > 0 {
		parts = append(parts, "Expertise: "+strings.Join(tags, ", "))
	}
	if tags := DecodeStringSet(p.Interests); len(tags) > 0 {
		parts = append(parts, "Interests: "+strings.Join(tags, ", "))
	}
	return strings.Join(parts, "\n")
}

// DecodeStringSet parses a jsonb string array, tolerating null or malformed
// columns as empty.
func DecodeStringSet(raw []byte) []string {
	if len(raw) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

// DecodeDeclaredIntents parses and validates the declared-intents column,
// dropping unknown values and capping at the registration limit.
func DecodeDeclaredIntents(raw []byte) []domevent.Intent {
	var out []domevent.Intent
	seen := map[domevent.Intent]bool{}
	for _, s := range DecodeStringSet(raw) {
		in, ok := domevent.ParseIntent(strings.ToLower(strings.TrimSpace(s)))
		if !ok || seen[in] {
			continue
		}
		seen[in] = true
		out = append(out, in)
		if len(out) == domevent.MaxDeclaredIntents {
			break
		}
	}
	return out
}

// DecodeIntentVector parses the stored intent-vector column.
func DecodeIntentVector(raw []byte) domevent.IntentVector {
	if len(raw) == 0 {
		return domevent.IntentVector{}
	}
	var out domevent.IntentVector
	if err := json.Unmarshal(raw, &out); err != nil {
		return domevent.IntentVector{}
	}
	return out
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func publishProgress(ctx context.Context, b bus.Bus, ev realtime.ProgressEvent) {
	if b == nil {
		return
	}
	ev.EmittedAt = time.Now().UTC()
	_ = b.Publish(ctx, ev)
}
