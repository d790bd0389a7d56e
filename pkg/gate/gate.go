// Package gate decides whether a client on a given version is offered the cached latest release.
package gate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roemer/releasegate/pkg/common"
	"github.com/roemer/releasegate/pkg/versioning"
)

type UpdateGate struct {
	logger     *slog.Logger
	cache      common.IReleaseCache
	comparator *versioning.Comparator
}

func NewUpdateGate(logger *slog.Logger, cache common.IReleaseCache, comparator *versioning.Comparator) *UpdateGate {
	return &UpdateGate{
		logger:     logger.With(slog.String("component", "gate")),
		cache:      cache,
		comparator: comparator,
	}
}

// Checks if there is a newer release than the current version of the client.
// Returns the release and true if so, nil and false otherwise.
// The platform is only logged, the full release is returned for every platform.
func (g *UpdateGate) CheckForUpdate(ctx context.Context, projectId string, platform string, currentVersion string) (*common.NormalizedRelease, bool) {
	release := g.cache.Get(ctx, projectId)
	if release == nil {
		g.logger.Debug(fmt.Sprintf("No release data for '%s' available", projectId))
		return nil, false
	}
	if !versioning.IsValid(currentVersion) || !versioning.IsValid(release.Version) {
		g.logger.Debug(fmt.Sprintf("Malformed version (current: '%s', latest: '%s')", currentVersion, release.Version))
		return nil, false
	}
	if !g.comparator.HasUpdate(currentVersion, release.Version) {
		g.logger.Debug(fmt.Sprintf("'%s' on %s is up to date with %s", projectId, platform, currentVersion))
		return nil, false
	}
	g.logger.Info(fmt.Sprintf("Offering '%s' %s to %s client on %s", projectId, release.Version, platform, currentVersion))
	return release, true
}
