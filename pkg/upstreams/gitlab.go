package upstreams

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/roemer/releasegate/pkg/common"
	"github.com/samber/lo"
	gitlab "gitlab.com/gitlab-org/api/client-go"
)

const defaultGitlabEndpoint = "https://gitlab.com/api/v4"

type GitlabUpstream struct {
	*upstreamBase
}

func NewGitlabUpstream(settings *common.UpstreamSettings) common.IUpstream {
	return &GitlabUpstream{
		upstreamBase: newUpstreamBase(common.PROVIDER_TYPE_GITLAB, settings),
	}
}

// Gets the latest release via the "permalink/latest" endpoint.
// The release links are converted into the same raw shape as the assets of a GitHub release.
func (u *GitlabUpstream) FetchLatestRelease(ctx context.Context, project *common.Project) (common.RawRelease, error) {
	defer u.logDuration(project, time.Now())
	if _, _, err := project.SplitRepository(); err != nil {
		return nil, err
	}
	client, err := u.createClient(project)
	if err != nil {
		return nil, fmt.Errorf("%w: '%s': %w", common.ErrUpstreamUnavailable, project.Repository, err)
	}

	ctx, cancel := u.withTimeout(ctx)
	defer cancel()
	release, _, err := client.Releases.GetLatestRelease(project.Repository, gitlab.WithContext(ctx))
	if err != nil {
		return nil, classifyGitlabError(project, err)
	}
	if release == nil {
		return nil, fmt.Errorf("%w: '%s' has no release", common.ErrUpstreamUnavailable, project.Repository)
	}
	return gitlabReleaseToRaw(release), nil
}

func (u *GitlabUpstream) createClient(project *common.Project) (*gitlab.Client, error) {
	endpoint := defaultGitlabEndpoint
	if project.Endpoint != "" {
		endpoint = project.EndpointExpanded()
	}
	return gitlab.NewClient("",
		gitlab.WithBaseURL(endpoint),
		gitlab.WithHTTPClient(u.client),
		gitlab.WithoutRetries(),
	)
}

func classifyGitlabError(project *common.Project, err error) error {
	var responseErr *gitlab.ErrorResponse
	if errors.As(err, &responseErr) && responseErr.Response != nil && responseErr.Response.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: '%s': %w", common.ErrRateLimited, project.Repository, err)
	}
	return fmt.Errorf("%w: '%s': %w", common.ErrUpstreamUnavailable, project.Repository, err)
}

func gitlabReleaseToRaw(release *gitlab.Release) common.RawRelease {
	links := lo.Filter(release.Assets.Links, func(link *gitlab.ReleaseLink, _ int) bool { return link != nil })
	assets := lo.Map(links, func(link *gitlab.ReleaseLink, _ int) any {
		return map[string]any{
			"name":                 link.Name,
			"browser_download_url": lo.CoalesceOrEmpty(link.DirectAssetURL, link.URL),
		}
	})
	raw := common.RawRelease{
		"tag_name": release.TagName,
		"body":     release.Description,
		"assets":   assets,
	}
	if release.ReleasedAt != nil && !release.ReleasedAt.IsZero() {
		raw["published_at"] = release.ReleasedAt.UTC().Format(time.RFC3339)
	}
	return raw
}
