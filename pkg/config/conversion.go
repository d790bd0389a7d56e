package config

import (
	"log/slog"
	"slices"
	"time"

	"github.com/roemer/releasegate/pkg/common"
	"github.com/roemer/releasegate/pkg/releases"
	"github.com/samber/lo"
)

func (project *ProjectConfig) ToCommonProject() *common.Project {
	return &common.Project{
		Id:         project.Id,
		Provider:   project.Provider,
		Repository: project.Repository,
		Endpoint:   project.Endpoint,
	}
}

func (cfg *ReleaseGateConfig) ToCommonProjects() []*common.Project {
	return lo.Map(cfg.Projects, func(project *ProjectConfig, _ int) *common.Project {
		return project.ToCommonProject()
	})
}

func (cfg *ReleaseGateConfig) ToPlatformTable() releases.PlatformTable {
	return lo.Map(cfg.Platforms, func(mapping *PlatformMappingConfig, _ int) *releases.PlatformMapping {
		if mapping == nil {
			return nil
		}
		return &releases.PlatformMapping{
			Suffix:  mapping.Suffix,
			Targets: slices.Clone(mapping.Targets),
		}
	})
}

func (cfg *ReleaseGateConfig) ToCommonUpstreamSettings(logger *slog.Logger, userAgent string) *common.UpstreamSettings {
	return &common.UpstreamSettings{
		Logger:         logger,
		RequestTimeout: cfg.RequestTimeout(),
		UserAgent:      userAgent,
	}
}

func (cfg *ReleaseGateConfig) Ttl() time.Duration {
	return time.Duration(lo.FromPtrOr(cfg.TtlSeconds, DefaultTtlSeconds)) * time.Second
}

func (cfg *ReleaseGateConfig) RequestTimeout() time.Duration {
	return time.Duration(lo.FromPtrOr(cfg.RequestTimeoutSeconds, DefaultRequestTimeoutSeconds)) * time.Second
}
