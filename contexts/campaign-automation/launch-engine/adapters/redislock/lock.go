package redislock

import (
	"context"
	"fmt"
	"time"

	domainerrors "lumora/contexts/campaign-automation/launch-engine/domain/errors"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only while it still holds our token.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Lock is the PlanLock shared by every API replica.
type Lock struct {
	client goredis.Cmdable
	prefix string
}

func New(client goredis.Cmdable, prefix string) *Lock {
	return &Lock{client: client, prefix: prefix}
}

func (l *Lock) TryLock(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error) {
	fullKey := l.prefix + key
	token := uuid.NewString()
	acquired, err := l.client.SetNX(ctx, fullKey, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire plan lock: %w", err)
	}
	if !acquired {
		return nil, domainerrors.ErrPlanOperationInProgress
	}
	return func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, l.client, []string{fullKey}, token).Err(); err != nil && err != goredis.Nil {
			return fmt.Errorf("release plan lock: %w", err)
		}
		return nil
	}, nil
}
