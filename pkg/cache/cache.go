// Package cache holds the normalized latest release per project and refreshes it once the TTL expired.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/roemer/releasegate/pkg/common"
)

const DefaultTTL = 5 * time.Minute

type Option func(*ReleaseCache)

// Sets the time an entry stays fresh after a refresh.
func WithTTL(ttl time.Duration) Option {
	return func(c *ReleaseCache) {
		c.ttl = ttl
	}
}

// Replaces the clock, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *ReleaseCache) {
		c.now = now
	}
}

type ReleaseCache struct {
	logger      *slog.Logger
	source      common.IReleaseSource
	transformer common.ITransformer
	ttl         time.Duration
	now         func() time.Time

	// Only guards the map, never held during a refresh
	entriesLock sync.Mutex
	entries     map[string]*cacheEntry
}

func NewReleaseCache(logger *slog.Logger, source common.IReleaseSource, transformer common.ITransformer, options ...Option) *ReleaseCache {
	cache := &ReleaseCache{
		logger:      logger.With(slog.String("component", "cache")),
		source:      source,
		transformer: transformer,
		ttl:         DefaultTTL,
		now:         time.Now,
		entries:     map[string]*cacheEntry{},
	}
	for _, option := range options {
		option(cache)
	}
	return cache
}

func (c *ReleaseCache) TTL() time.Duration {
	return c.ttl
}

// Gets the latest normalized release of the project. Returns nil if there is no usable data.
// Concurrent callers on a stale entry cause at most one refresh, the others wait and reuse its result.
func (c *ReleaseCache) Get(ctx context.Context, projectId string) *common.NormalizedRelease {
	entry := c.getEntry(projectId)

	entry.lock.RLock()
	if entry.isFresh(c.now()) {
		value := entry.value.Clone()
		entry.lock.RUnlock()
		return value
	}
	entry.lock.RUnlock()

	entry.lock.Lock()
	defer entry.lock.Unlock()
	// Someone else might have refreshed in the meantime
	if entry.isFresh(c.now()) {
		c.logger.Debug(fmt.Sprintf("Entry '%s' was refreshed concurrently", projectId))
		return entry.value.Clone()
	}
	entry.value = c.refresh(context.WithoutCancel(ctx), projectId)
	entry.expiresAt = c.now().Add(c.ttl)
	return entry.value.Clone()
}

func (c *ReleaseCache) getEntry(projectId string) *cacheEntry {
	c.entriesLock.Lock()
	defer c.entriesLock.Unlock()
	entry, ok := c.entries[projectId]
	if !ok {
		// A new entry is stale
		entry = &cacheEntry{}
		c.entries[projectId] = entry
	}
	return entry
}

func (c *ReleaseCache) refresh(ctx context.Context, projectId string) *common.NormalizedRelease {
	start := c.now()
	raw, err := c.source.FetchLatestRelease(ctx, projectId)
	if err != nil {
		if errors.Is(err, common.ErrRateLimited) {
			c.logger.Warn(fmt.Sprintf("Rate limited while refreshing '%s', keeping no data for %s", projectId, c.ttl), slog.Any("error", err))
		} else {
			c.logger.Warn(fmt.Sprintf("Failed refreshing '%s'", projectId), slog.Any("error", err))
		}
		return nil
	}
	release := c.transformer.Normalize(ctx, raw, c.source.FetchText)
	if release == nil {
		c.logger.Warn(fmt.Sprintf("Failed refreshing '%s'", projectId), slog.Any("error", common.ErrMalformedPayload))
		return nil
	}
	c.logger.Info(fmt.Sprintf("Refreshed '%s' to version '%s' with %d platform(s) in %s",
		projectId, release.Version, len(release.Platforms), c.now().Sub(start).Round(time.Millisecond)))
	return release
}
