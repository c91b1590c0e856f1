package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Liveness marks which hosts have a live session. Best-effort: errors are
// ignored, the in-process registry stays the source of truth. A pub/sub
// projector could build on these keys for cross-instance visibility.
type Liveness struct {
	client *redis.Client
	ttl    time.Duration
}

func NewLiveness(client *redis.Client, ttl time.Duration) *Liveness {
	return &Liveness{client: client, ttl: ttl}
}

func (l *Liveness) MarkLive(ctx context.Context, hostID, sessionID string) {
	_ = l.client.Set(ctx, l.key(hostID), sessionID, l.ttl).Err()
}

func (l *Liveness) ClearLive(ctx context.Context, hostID string) {
	_ = l.client.Del(ctx, l.key(hostID)).Err()
}

func (l *Liveness) key(hostID string) string {
	return "game:session:" + hostID
}
