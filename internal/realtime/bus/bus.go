package bus

import (
	"context"

	"github.com/forumhive/forumhive-backend/internal/realtime"
)

type Bus interface {
	Publish(ctx context.Context, msg realtime.ProgressEvent) error
	StartForwarder(ctx context.Context, onMsg func(m realtime.ProgressEvent)) error
	Close() error
}

// Noop is used when REDIS_ADDR is not configured; progress events are dropped.
type Noop struct{}

func (Noop) Publish(context.Context, realtime.ProgressEvent) error { return nil }
func (Noop) StartForwarder(context.Context, func(m realtime.ProgressEvent)) error {
	return nil
}
func (Noop) Close() error { return nil }
