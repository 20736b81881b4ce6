package steps

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forumhive/forumhive-backend/internal/data/repos"
	types "github.com/forumhive/forumhive-backend/internal/domain"
	"github.com/forumhive/forumhive-backend/internal/platform/logger"
	"github.com/forumhive/forumhive-backend/internal/platform/openai"
	"github.com/forumhive/forumhive-backend/internal/platform/pinecone"
	"github.com/forumhive/forumhive-backend/internal/realtime"
	"github.com/forumhive/forumhive-backend/internal/realtime/bus"
)

type GenerateEmbeddingsDeps struct {
	DB  *gorm.DB
	Log *logger.Logger

	AI openai.Client

	Participants repos.ParticipantRepo
	Embeddings   repos.ProfileEmbeddingRepo

	// Optional: mirror vectors into Pinecone for ad-hoc similarity lookups.
	Vectors pinecone.VectorStore

	Bus bus.Bus
}

type GenerateEmbeddingsInput struct {
	EventID uuid.UUID `json:"event_id"`
	// Force re-embeds every participant even when the profile text hash is
	// unchanged.
	Force bool `json:"force,omitempty"`
}

type GenerateEmbeddingsOutput struct {
	EventID    uuid.UUID `json:"event_id"`
	Generated  int       `json:"generated"`
	Dimensions int       `json:"dimensions"`
	Skipped    int       `json:"skipped"`
	Failed     int       `json:"failed"`
}

const embedBatchSize = 64

// GenerateEmbeddings embeds the profile text of every approved participant
// whose text changed since the last run (or who has no cached vector).
// Batches are bounded; a failed batch is counted and the run continues. The
// relational cache is authoritative, the Pinecone mirror is best-effort.
func GenerateEmbeddings(ctx context.Context, deps GenerateEmbeddingsDeps, in GenerateEmbeddingsInput) (GenerateEmbeddingsOutput, error) {
	out := GenerateEmbeddingsOutput{EventID: in.EventID}
	if deps.DB == nil || deps.Log == nil || deps.AI == nil || deps.Participants == nil || deps.Embeddings == nil {
		return out, fmt.Errorf("generate_embeddings: missing deps")
	}
	if in.EventID == uuid.Nil {
		return out, fmt.Errorf("generate_embeddings: missing event_id")
	}
	log := deps.Log.With("step", "generate_embeddings", "event_id", in.EventID)

	participants, err := deps.Participants.ListApprovedByEvent(ctx, nil, in.EventID)
	if err != nil {
		return out, fmt.Errorf("generate_embeddings: list participants: %w", err)
	}
	existing, err := deps.Embeddings.ListByEvent(ctx, nil, in.EventID)
	if err != nil {
		return out, fmt.Errorf("generate_embeddings: list embeddings: %w", err)
	}
	byParticipant := make(map[uuid.UUID]*types.ProfileEmbedding, len(existing))
	for _, e := range existing {
		byParticipant[e.ParticipantID] = e
	}

	type candidate struct {
		p    *types.Participant
		text string
		hash string
	}
	var pending []candidate
	for _, p := range participants {
		text := ProfileText(p)
		if text == "" {
			out.Skipped++
			continue
		}
		hash := hashProfileText(text)
		if prev, ok := byParticipant[p.ID]; ok && prev.TextHash == hash && !in.Force {
			out.Skipped++
			if out.Dimensions == 0 {
				out.Dimensions = prev.Dimensions
			}
			continue
		}
		pending = append(pending, candidate{p: p, text: text, hash: hash})
	}

	for start := 0; start < len(pending); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(pending) {
			end = len(pending)
		}
		batch := pending[start:end]

		inputs := make([]string, len(batch))
		for i, c := range batch {
			inputs[i] = c.text
		}
		vectors, err := deps.AI.Embed(ctx, inputs)
		if err != nil || len(vectors) != len(batch) {
			log.Warn("embedding batch failed", "size", len(batch), "error", err)
			out.Failed += len(batch)
			continue
		}

		var mirror []pinecone.Vector
		now := time.Now().UTC()
		for i, c := range batch {
			vec := vectors[i]
			if len(vec) == 0 {
				out.Failed++
				continue
			}
			raw, mErr := json.Marshal(vec)
			if mErr != nil {
				out.Failed++
				continue
			}
			row := &types.ProfileEmbedding{
				EventID:       in.EventID,
				ParticipantID: c.p.ID,
				Vector:        raw,
				Dimensions:    len(vec),
				TextHash:      c.hash,
				GeneratedAt:   now,
			}
			if err := deps.Embeddings.Upsert(ctx, nil, row); err != nil {
				log.Warn("persist embedding failed", "participant_id", c.p.ID, "error", err)
				out.Failed++
				continue
			}
			out.Generated++
			out.Dimensions = len(vec)
			mirror = append(mirror, pinecone.Vector{
				ID:     c.p.ID.String(),
				Values: vec,
				Metadata: map[string]any{
					"event_id": in.EventID.String(),
					"industry": c.p.Industry,
				},
			})
		}

		if deps.Vectors != nil && len(mirror) > 0 {
			ns := pinecone.EventNamespace(in.EventID.String())
			if err := deps.Vectors.Upsert(ctx, ns, mirror); err != nil {
				log.Warn("pinecone mirror upsert failed", "namespace", ns, "error", err)
			}
		}
	}

	publishProgress(ctx, deps.Bus, realtime.ProgressEvent{
		EventID: in.EventID,
		Stage:   realtime.StageEmbeddingsGenerated,
		Counts: map[string]int{
			"generated": out.Generated,
			"skipped":   out.Skipped,
			"failed":    out.Failed,
		},
	})
	log.Info("embeddings generated", "generated", out.Generated, "skipped", out.Skipped, "failed", out.Failed, "dimensions", out.Dimensions)
	return out, nil
}

func hashProfileText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// DecodeEmbedding parses a cached vector column. Nil on any malformation so
// the pair simply scores without the embedding factor.
func DecodeEmbedding(raw []byte) []float32 {
	if len(raw) == 0 {
		return nil
	}
	var out []float32
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}
