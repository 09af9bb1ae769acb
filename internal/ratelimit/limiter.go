package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"

	"bizaudit-backend/internal/shared/config"
	"bizaudit-backend/internal/shared/util"
)

// Decision is the outcome of a rate limit check. When a submission is
// rejected, HoursRemaining is derived from the latest reset among the
// counters that tripped; callers never learn which counter it was.
type Decision struct {
	Allowed        bool
	HoursRemaining int
}

// Limiter bounds audit submissions per identity and per client IP within a
// fixed window. Identity matching is case sensitive on purpose: the limit
// guards abuse, not typos, and folding case would let unrelated users
// collide on a shared counter key.
type Limiter struct {
	store         Store
	identityLimit int
	ipLimit       int
	window        time.Duration
	now           func() time.Time
}

// New builds a Limiter over the given store.
func New(store Store, cfg config.RateLimitConfig) *Limiter {
	return &Limiter{
		store:         store,
		identityLimit: cfg.IdentityLimit,
		ipLimit:       cfg.IPLimit,
		window:        cfg.Window,
		now:           time.Now,
	}
}

type hitResult struct {
	tripped bool
	resetAt time.Time
	err     error
}

// Check runs both counters concurrently and combines the outcome. It must
// be called before any model work is started for the submission.
func (l *Limiter) Check(ctx context.Context, identity, clientIP string) (Decision, error) {
	var wg sync.WaitGroup
	results := make([]hitResult, 2)

	check := func(idx int, key string, limit int) {
		defer wg.Done()
		count, resetAt, err := l.store.Hit(ctx, key, l.window)
		results[idx] = hitResult{
			tripped: err == nil && count > int64(limit),
			resetAt: resetAt,
			err:     err,
		}
	}

	wg.Add(2)
	go check(0, "rl:identity:"+util.HashKey(identity), l.identityLimit)
	go check(1, "rl:ip:"+util.HashKey(clientIP), l.ipLimit)
	wg.Wait()

	for _, r := range results {
		if r.err != nil {
			return Decision{Allowed: true}, r.err
		}
	}

	var latest time.Time
	for _, r := range results {
		if r.tripped && r.resetAt.After(latest) {
			latest = r.resetAt
		}
	}
	if latest.IsZero() {
		return Decision{Allowed: true}, nil
	}

	hours := int(math.Ceil(latest.Sub(l.now()).Hours()))
	if hours < 1 {
		hours = 1
	}
	return Decision{Allowed: false, HoursRemaining: hours}, nil
}
