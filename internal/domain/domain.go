package domain

import "github.com/forumhive/forumhive-backend/internal/domain/event"

type Event = event.Event
type Participant = event.Participant
type MatchingRules = event.MatchingRules
type Match = event.Match
type ProfileEmbedding = event.ProfileEmbedding
type InteractionEvent = event.InteractionEvent

type Intent = event.Intent
type IntentVector = event.IntentVector
