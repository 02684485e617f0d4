package gate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	leadmagnet "github.com/lvillar/leadmagnet"
)

// DefaultTTL is how long an idle session's usage is kept in redis.
const DefaultTTL = 30 * 24 * time.Hour

// consumeScript spends one use atomically. It returns the uses left after
// the call, -1 for a paid session or -2 when nothing is left.
var consumeScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[2]) == 1 then
  return -1
end
local used = tonumber(redis.call('GET', KEYS[1]) or '0')
local free = tonumber(ARGV[1])
if used >= free then
  return -2
end
used = redis.call('INCR', KEYS[1])
redis.call('EXPIRE', KEYS[1], ARGV[2])
return free - used
`)

// Redis is a Consumer backed by redis, shared by every server instance.
type Redis struct {
	rdb    redis.UniversalClient
	free   int
	ttl    time.Duration
	prefix string
}

// RedisOption configures a Redis store.
type RedisOption func(*Redis)

// WithTTL sets how long usage keys live.
func WithTTL(d time.Duration) RedisOption {
	return func(r *Redis) {
		r.ttl = d
	}
}

// WithKeyPrefix sets the key namespace. The default is "leadmagnet:".
func WithKeyPrefix(p string) RedisOption {
	return func(r *Redis) {
		r.prefix = p
	}
}

// NewRedis creates a store on an existing client.
func NewRedis(rdb redis.UniversalClient, free int, opts ...RedisOption) *Redis {
	r := &Redis{rdb: rdb, free: free, ttl: DefaultTTL, prefix: "leadmagnet:"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Dial connects to addr and checks the connection.
func Dial(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

func (r *Redis) usedKey(session string) string { return r.prefix + "uses:" + session }
func (r *Redis) paidKey(session string) string { return r.prefix + "paid:" + session }

func (r *Redis) Status(ctx context.Context, session string) (Status, error) {
	if err := checkSession(session); err != nil {
		return Status{}, err
	}
	var used *redis.StringCmd
	var paid *redis.IntCmd
	_, err := r.rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
		used = p.Get(ctx, r.usedKey(session))
		paid = p.Exists(ctx, r.paidKey(session))
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return Status{}, fmt.Errorf("gate: redis status: %w", err)
	}
	n, err := used.Int()
	if err != nil && !errors.Is(err, redis.Nil) {
		return Status{}, fmt.Errorf("gate: redis status: %w", err)
	}
	return Status{Remaining: max(r.free-n, 0), Paid: paid.Val() == 1}, nil
}

func (r *Redis) Consume(ctx context.Context, session string) (Status, error) {
	if err := checkSession(session); err != nil {
		return Status{}, err
	}
	keys := []string{r.usedKey(session), r.paidKey(session)}
	left, err := consumeScript.Run(ctx, r.rdb, keys, r.free, int(r.ttl.Seconds())).Int()
	if err != nil {
		return Status{}, fmt.Errorf("gate: redis consume: %w", err)
	}
	switch left {
	case -1:
		return Status{Paid: true}, nil
	case -2:
		return Status{}, leadmagnet.ErrNoUsesLeft
	}
	return Status{Remaining: left}, nil
}

func (r *Redis) MarkPaid(ctx context.Context, session string) error {
	if err := checkSession(session); err != nil {
		return err
	}
	if err := r.rdb.Set(ctx, r.paidKey(session), 1, r.ttl).Err(); err != nil {
		return fmt.Errorf("gate: redis mark paid: %w", err)
	}
	return nil
}
