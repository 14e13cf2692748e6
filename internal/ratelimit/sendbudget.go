package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrCooldownActive     = errors.New("send cooldown active")
	ErrDailyLimitExceeded = errors.New("daily send limit exceeded")
)

// Decrement without going negative, so refunds after a delivery failure
// cannot underflow the counter.
const refundLua = `
local v = redis.call("DECR", KEYS[1])
if v < 0 then
  v = redis.call("INCR", KEYS[1])
end
return v
`

// SendBudget enforces the per-email verification-send limits in Redis:
// a cooldown key (SETNX + TTL) between sends and a daily counter that
// expires at the next UTC midnight. Both are atomic server-side, so
// concurrent requests cannot overspend.
type SendBudget struct {
	rdb      *redis.Client
	cooldown time.Duration
	daily    int
	refund   *redis.Script
}

func NewSendBudget(rdb *redis.Client, cooldown time.Duration, dailyLimit int) *SendBudget {
	return &SendBudget{
		rdb:      rdb,
		cooldown: cooldown,
		daily:    dailyLimit,
		refund:   redis.NewScript(refundLua),
	}
}

func cooldownKey(email string) string {
	return "verify:cooldown:" + email
}

func dailyKey(email string, now time.Time) string {
	return fmt.Sprintf("verify:daily:%s:%s", email, now.UTC().Format("2006-01-02"))
}

// Charge reserves one send. It returns ErrCooldownActive or
// ErrDailyLimitExceeded without consuming budget when a limit is hit.
func (b *SendBudget) Charge(ctx context.Context, email string, now time.Time) error {
	ok, err := b.rdb.SetNX(ctx, cooldownKey(email), "1", b.cooldown).Result()
	if err != nil {
		return fmt.Errorf("sendbudget cooldown: %w", err)
	}
	if !ok {
		return ErrCooldownActive
	}

	key := dailyKey(email, now)
	count, err := b.rdb.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("sendbudget daily incr: %w", err)
	}
	if count == 1 {
		midnight := now.UTC().Truncate(24 * time.Hour).Add(24 * time.Hour)
		if err := b.rdb.ExpireAt(ctx, key, midnight).Err(); err != nil {
			return fmt.Errorf("sendbudget daily expire: %w", err)
		}
	}
	if count > int64(b.daily) {
		// Undo the increment; the cooldown stays charged so a limited
		// caller cannot hammer the counter.
		if _, err := b.refund.Run(ctx, b.rdb, []string{key}).Result(); err != nil {
			return fmt.Errorf("sendbudget daily refund: %w", err)
		}
		return ErrDailyLimitExceeded
	}
	return nil
}

// Refund returns a charged send after a delivery failure: the cooldown key
// is released and the daily counter decremented.
func (b *SendBudget) Refund(ctx context.Context, email string, now time.Time) error {
	if err := b.rdb.Del(ctx, cooldownKey(email)).Err(); err != nil {
		return fmt.Errorf("sendbudget cooldown release: %w", err)
	}
	if _, err := b.refund.Run(ctx, b.rdb, []string{dailyKey(email, now)}).Result(); err != nil {
		return fmt.Errorf("sendbudget daily refund: %w", err)
	}
	return nil
}
