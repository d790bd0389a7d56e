package upstreams

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/roemer/releasegate/pkg/common"
	"github.com/samber/lo"
)

// Resolves project ids to their upstream. Implements the release source of the cache.
type Registry struct {
	logger    *slog.Logger
	projects  map[string]*common.Project
	upstreams map[common.ProviderType]common.IUpstream
	text      *upstreamBase
}

func NewRegistry(settings *common.UpstreamSettings, projects []*common.Project) (*Registry, error) {
	registry := &Registry{
		logger:    settings.Logger,
		projects:  map[string]*common.Project{},
		upstreams: map[common.ProviderType]common.IUpstream{},
		text:      newUpstreamBase("text", settings),
	}
	for _, project := range projects {
		if _, exists := registry.projects[project.Id]; exists {
			return nil, fmt.Errorf("duplicate project id '%s'", project.Id)
		}
		if _, _, err := project.SplitRepository(); err != nil {
			return nil, fmt.Errorf("project '%s': %w", project.Id, err)
		}
		provider := lo.CoalesceOrEmpty(project.Provider, common.PROVIDER_TYPE_GITHUB)
		if _, exists := registry.upstreams[provider]; !exists {
			upstream, err := GetUpstream(provider, settings)
			if err != nil {
				return nil, fmt.Errorf("project '%s': %w", project.Id, err)
			}
			registry.upstreams[provider] = upstream
		}
		registry.projects[project.Id] = &common.Project{
			Id:         project.Id,
			Provider:   provider,
			Repository: project.Repository,
			Endpoint:   project.Endpoint,
		}
	}
	return registry, nil
}

func (r *Registry) FetchLatestRelease(ctx context.Context, projectId string) (common.RawRelease, error) {
	project, ok := r.projects[projectId]
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", common.ErrUnknownProject, projectId)
	}
	r.logger.Debug(fmt.Sprintf("Fetching latest release of '%s' from %s", project.Repository, project.Provider))
	return r.upstreams[project.Provider].FetchLatestRelease(ctx, project)
}

func (r *Registry) FetchText(ctx context.Context, url string) string {
	return r.text.FetchText(ctx, url)
}

func (r *Registry) HasProject(projectId string) bool {
	_, ok := r.projects[projectId]
	return ok
}

// Gets the ids of all tracked projects, sorted.
func (r *Registry) ProjectIds() []string {
	ids := lo.Keys(r.projects)
	slices.Sort(ids)
	return ids
}
