package cache

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Cooldown rate-limits an action per subject using set-if-absent semantics.
type Cooldown struct {
	store  Store
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

// NewCooldown builds a cooldown window of ttl per subject under prefix.
func NewCooldown(store Store, prefix string, ttl time.Duration, logger *zap.Logger) *Cooldown {
	return &Cooldown{store: store, prefix: prefix, ttl: ttl, logger: logger}
}

// Active reports whether subject's window is still running. A store outage
// fails open: the backend enforces its own limits.
func (c *Cooldown) Active(ctx context.Context, subject string) bool {
	_, ok, err := c.store.Get(ctx, c.prefix+subject)
	if err != nil {
		c.logger.Warn("cooldown check failed", zap.String("subject", subject), zap.Error(err))
		return false
	}
	return ok
}

// Begin opens the window for subject, reporting false when a previous window
// was already running.
func (c *Cooldown) Begin(ctx context.Context, subject string) bool {
	ok, err := c.store.Add(ctx, c.prefix+subject, []byte("1"), c.ttl)
	if err != nil {
		c.logger.Warn("cooldown begin failed", zap.String("subject", subject), zap.Error(err))
		return true
	}
	return ok
}
