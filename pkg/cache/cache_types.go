package cache

import (
	"sync"
	"time"

	"github.com/roemer/releasegate/pkg/common"
)

// A cached release of one project. The value is nil if no usable data is available.
type cacheEntry struct {
	lock      sync.RWMutex
	value     *common.NormalizedRelease
	expiresAt time.Time
}

// Must be called with at least the shared lock held.
func (e *cacheEntry) isFresh(now time.Time) bool {
	return now.Before(e.expiresAt)
}
