// Package upstreams fetches releases from the release hosts of the tracked projects.
package upstreams

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/roemer/releasegate/pkg/common"
)

const DefaultUserAgent = "releasegate"

type upstreamBase struct {
	upstreamType common.ProviderType
	logger       *slog.Logger
	settings     *common.UpstreamSettings
	client       *http.Client
}

func newUpstreamBase(upstreamType common.ProviderType, settings *common.UpstreamSettings) *upstreamBase {
	return &upstreamBase{
		upstreamType: upstreamType,
		logger:       settings.Logger.With(slog.String("upstream", string(upstreamType))),
		settings:     settings,
		client:       settings.Client(),
	}
}

func GetUpstream(upstreamType common.ProviderType, settings *common.UpstreamSettings) (common.IUpstream, error) {
	switch upstreamType {
	case common.PROVIDER_TYPE_GITEA:
		return NewGiteaUpstream(settings), nil
	case common.PROVIDER_TYPE_GITHUB:
		return NewGitHubUpstream(settings), nil
	case common.PROVIDER_TYPE_GITLAB:
		return NewGitlabUpstream(settings), nil
	}
	return nil, fmt.Errorf("no upstream defined for '%s'", upstreamType)
}

func (u *upstreamBase) Type() common.ProviderType {
	return u.upstreamType
}

// Downloads the url as text. Any failure is logged and results in an empty string.
func (u *upstreamBase) FetchText(ctx context.Context, url string) string {
	ctx, cancel := u.withTimeout(ctx)
	defer cancel()
	text, err := common.HttpUtil.DownloadText(ctx, u.client, url, u.userAgent())
	if err != nil {
		u.logger.Debug(fmt.Sprintf("Failed fetching '%s': %v", url, err))
		return ""
	}
	return text
}

func (u *upstreamBase) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if u.settings.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, u.settings.RequestTimeout)
}

func (u *upstreamBase) userAgent() string {
	if u.settings.UserAgent != "" {
		return u.settings.UserAgent
	}
	return DefaultUserAgent
}

func (u *upstreamBase) logDuration(project *common.Project, start time.Time) {
	u.logger.Debug(fmt.Sprintf("Fetched latest release of '%s' in %s", project.Repository, time.Since(start).Round(time.Millisecond)))
}
