package source

import (
	"context"

	"advisory_portal/internal/cache"
	"advisory_portal/internal/leads/domain"
	"advisory_portal/platform/logger"
)

// Snapshot keys.
const (
	KeyMetrics  = "metrics"
	KeyAdvisors = "advisors"
)

// Cached keeps metrics and advisor snapshots in redis. Lead queues are always
// read live. Cache failures fall through to the wrapped source.
type Cached struct {
	inner LeadSource
	store *cache.Store
	log   *logger.Logger
}

// NewCached wraps inner. A nil store disables caching.
func NewCached(inner LeadSource, store *cache.Store, log *logger.Logger) *Cached {
	return &Cached{inner: inner, store: store, log: log}
}

func (c *Cached) ListLeads(ctx context.Context, tab domain.Tab) ([]domain.Lead, error) {
	return c.inner.ListLeads(ctx, tab)
}

func (c *Cached) Metrics(ctx context.Context) (domain.Metrics, error) {
	var metrics domain.Metrics
	if c.lookup(ctx, KeyMetrics, &metrics) {
		return metrics, nil
	}
	metrics, err := c.inner.Metrics(ctx)
	if err != nil {
		return domain.Metrics{}, err
	}
	c.save(ctx, KeyMetrics, metrics)
	return metrics, nil
}

func (c *Cached) Advisors(ctx context.Context) ([]domain.Advisor, error) {
	var advisors []domain.Advisor
	if c.lookup(ctx, KeyAdvisors, &advisors) {
		return advisors, nil
	}
	advisors, err := c.inner.Advisors(ctx)
	if err != nil {
		return nil, err
	}
	c.save(ctx, KeyAdvisors, advisors)
	return advisors, nil
}

// Invalidate drops the metrics snapshot after a successful write.
func (c *Cached) Invalidate(ctx context.Context) {
	if err := c.store.Invalidate(ctx, KeyMetrics); err != nil {
		c.warn(ctx, "cache invalidate failed", err)
	}
}

func (c *Cached) lookup(ctx context.Context, key string, dst any) bool {
	hit, err := c.store.Get(ctx, key, dst)
	if err != nil {
		c.warn(ctx, "cache read failed", err)
		return false
	}
	return hit
}

func (c *Cached) save(ctx context.Context, key string, value any) {
	if err := c.store.Set(ctx, key, value); err != nil {
		c.warn(ctx, "cache write failed", err)
	}
}

func (c *Cached) warn(ctx context.Context, msg string, err error) {
	if c.log != nil {
		c.log.WithContext(ctx).Warn(msg, "error", err)
	}
}
