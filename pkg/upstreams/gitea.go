package upstreams

import (
	"context"
	"fmt"
	"time"

	"code.gitea.io/sdk/gitea"
	"github.com/roemer/releasegate/pkg/common"
	"github.com/samber/lo"
)

const defaultGiteaEndpoint = "https://gitea.com"

type GiteaUpstream struct {
	*upstreamBase
}

func NewGiteaUpstream(settings *common.UpstreamSettings) common.IUpstream {
	return &GiteaUpstream{
		upstreamBase: newUpstreamBase(common.PROVIDER_TYPE_GITEA, settings),
	}
}

// Gets the newest published release which is neither a draft nor a prerelease.
// The release is converted into the same raw shape as a GitHub release.
func (u *GiteaUpstream) FetchLatestRelease(ctx context.Context, project *common.Project) (common.RawRelease, error) {
	defer u.logDuration(project, time.Now())
	owner, repository, err := project.SplitRepository()
	if err != nil {
		return nil, err
	}
	ctx, cancel := u.withTimeout(ctx)
	defer cancel()
	client, err := u.createClient(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("%w: '%s': %w", common.ErrUpstreamUnavailable, project.Repository, err)
	}

	releases, _, err := client.ListReleases(owner, repository, gitea.ListReleasesOptions{
		ListOptions: gitea.ListOptions{Page: 1, PageSize: 20},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: '%s': %w", common.ErrUpstreamUnavailable, project.Repository, err)
	}
	latest, found := lo.Find(releases, func(release *gitea.Release) bool {
		return release != nil && !release.IsDraft && !release.IsPrerelease
	})
	if !found {
		return nil, fmt.Errorf("%w: '%s' has no published release", common.ErrUpstreamUnavailable, project.Repository)
	}
	return giteaReleaseToRaw(latest), nil
}

func (u *GiteaUpstream) createClient(ctx context.Context, project *common.Project) (*gitea.Client, error) {
	endpoint := defaultGiteaEndpoint
	if project.Endpoint != "" {
		endpoint = project.EndpointExpanded()
	}
	return gitea.NewClient(endpoint,
		gitea.SetHTTPClient(u.client),
		gitea.SetContext(ctx),
		gitea.SetGiteaVersion(""),
	)
}

func giteaReleaseToRaw(release *gitea.Release) common.RawRelease {
	attachments := lo.Filter(release.Attachments, func(attachment *gitea.Attachment, _ int) bool { return attachment != nil })
	assets := lo.Map(attachments, func(attachment *gitea.Attachment, _ int) any {
		return map[string]any{
			"name":                 attachment.Name,
			"browser_download_url": attachment.DownloadURL,
		}
	})
	raw := common.RawRelease{
		"tag_name": release.TagName,
		"body":     release.Note,
		"assets":   assets,
	}
	// An unset date stays missing so the release is rejected like any other incomplete one
	if !release.PublishedAt.IsZero() {
		raw["published_at"] = release.PublishedAt.UTC().Format(time.RFC3339)
	}
	return raw
}
