package upstreams

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v80/github"
	"github.com/roemer/releasegate/pkg/common"
)

type GitHubUpstream struct {
	*upstreamBase
}

func NewGitHubUpstream(settings *common.UpstreamSettings) common.IUpstream {
	return &GitHubUpstream{
		upstreamBase: newUpstreamBase(common.PROVIDER_TYPE_GITHUB, settings),
	}
}

// Gets the latest release via "GET /repos/{owner}/{repo}/releases/latest".
// The body is kept as loose json as it is validated in the transformer.
func (u *GitHubUpstream) FetchLatestRelease(ctx context.Context, project *common.Project) (common.RawRelease, error) {
	defer u.logDuration(project, time.Now())
	owner, repository, err := project.SplitRepository()
	if err != nil {
		return nil, err
	}
	client, err := u.createClient(project)
	if err != nil {
		return nil, err
	}

	request, err := client.NewRequest(http.MethodGet, fmt.Sprintf("repos/%s/%s/releases/latest", owner, repository), nil)
	if err != nil {
		return nil, fmt.Errorf("failed creating the request for '%s': %w", project.Repository, err)
	}
	ctx, cancel := u.withTimeout(ctx)
	defer cancel()
	raw := common.RawRelease{}
	if _, err := client.Do(ctx, request, &raw); err != nil {
		return nil, classifyGitHubError(project, err)
	}
	return raw, nil
}

func (u *GitHubUpstream) createClient(project *common.Project) (*github.Client, error) {
	client := github.NewClient(u.client)
	client.UserAgent = u.userAgent()
	if endpoint := project.EndpointExpanded(); endpoint != "" {
		// The base url must end with a slash
		baseUrl, err := url.Parse(strings.TrimSuffix(endpoint, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid endpoint '%s': %w", endpoint, err)
		}
		client.BaseURL = baseUrl
	}
	return client, nil
}

func classifyGitHubError(project *common.Project, err error) error {
	var rateLimitErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &rateLimitErr) || errors.As(err, &abuseErr) {
		return fmt.Errorf("%w: '%s': %w", common.ErrRateLimited, project.Repository, err)
	}
	return fmt.Errorf("%w: '%s': %w", common.ErrUpstreamUnavailable, project.Repository, err)
}
