package matching

import (
	"context"

	"gorm.io/gorm"

	"github.com/forumhive/forumhive-backend/internal/data/repos"
	"github.com/forumhive/forumhive-backend/internal/modules/matching/steps"
	"github.com/forumhive/forumhive-backend/internal/platform/logger"
	"github.com/forumhive/forumhive-backend/internal/platform/openai"
	"github.com/forumhive/forumhive-backend/internal/platform/pinecone"
	"github.com/forumhive/forumhive-backend/internal/realtime/bus"
)

type UsecasesDeps struct {
	DB  *gorm.DB
	Log *logger.Logger

	// Optional external capabilities. Intent classification is skipped when
	// AI is nil; embedding generation requires it.
	AI      openai.Client
	Vectors pinecone.VectorStore

	Participants repos.ParticipantRepo
	Rules        repos.MatchingRulesRepo
	Matches      repos.MatchRepo
	Embeddings   repos.ProfileEmbeddingRepo
	Interactions repos.InteractionEventRepo

	Bus bus.Bus
}

type Usecases struct {
	deps UsecasesDeps
}

func New(deps UsecasesDeps) Usecases { return Usecases{deps: deps} }

func (u Usecases) WithLog(log *logger.Logger) Usecases {
	u.deps.Log = log
	return u
}

type (
	ComputeIntentsInput  = steps.ComputeIntentsInput
	ComputeIntentsOutput = steps.ComputeIntentsOutput

	GenerateEmbeddingsInput  = steps.GenerateEmbeddingsInput
	GenerateEmbeddingsOutput = steps.GenerateEmbeddingsOutput

	GenerateMatchesInput  = steps.GenerateMatchesInput
	GenerateMatchesOutput = steps.GenerateMatchesOutput

	IntentStatsInput  = steps.IntentStatsInput
	IntentStatsOutput = steps.IntentStatsOutput
)

func (u Usecases) ComputeIntents(ctx context.Context, in ComputeIntentsInput) (ComputeIntentsOutput, error) {
	return steps.ComputeIntents(ctx, steps.ComputeIntentsDeps{
		DB:           u.deps.DB,
		Log:          u.deps.Log,
		AI:           u.deps.AI,
		Participants: u.deps.Participants,
		Rules:        u.deps.Rules,
		Interactions: u.deps.Interactions,
		Bus:          u.deps.Bus,
	}, in)
}

func (u Usecases) GenerateEmbeddings(ctx context.Context, in GenerateEmbeddingsInput) (GenerateEmbeddingsOutput, error) {
	return steps.GenerateEmbeddings(ctx, steps.GenerateEmbeddingsDeps{
		DB:           u.deps.DB,
		Log:          u.deps.Log,
		AI:           u.deps.AI,
		Participants: u.deps.Participants,
		Embeddings:   u.deps.Embeddings,
		Vectors:      u.deps.Vectors,
		Bus:          u.deps.Bus,
	}, in)
}

func (u Usecases) GenerateMatches(ctx context.Context, in GenerateMatchesInput) (GenerateMatchesOutput, error) {
	return steps.GenerateMatches(ctx, steps.GenerateMatchesDeps{
		DB:           u.deps.DB,
		Log:          u.deps.Log,
		Participants: u.deps.Participants,
		Rules:        u.deps.Rules,
		Matches:      u.deps.Matches,
		Embeddings:   u.deps.Embeddings,
		Bus:          u.deps.Bus,
	}, in)
}

func (u Usecases) IntentStats(ctx context.Context, in IntentStatsInput) (IntentStatsOutput, error) {
	return steps.IntentStats(ctx, steps.IntentStatsDeps{
		DB:           u.deps.DB,
		Log:          u.deps.Log,
		Participants: u.deps.Participants,
		Rules:        u.deps.Rules,
	}, in)
}
