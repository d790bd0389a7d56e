package config

import (
	"fmt"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/roemer/releasegate/pkg/common"
	"github.com/roemer/releasegate/pkg/releases"
	"github.com/samber/lo"
)

const (
	EnvTtl      = "RELEASEGATE_TTL"
	EnvProjects = "RELEASEGATE_PROJECTS"
	EnvListen   = "RELEASEGATE_LISTEN"
)

const (
	DefaultListen                = ":8000"
	DefaultTtlSeconds            = 300
	DefaultRequestTimeoutSeconds = 10
	DefaultRoutePrefix           = "/tauri-releases"
)

// Applies the overrides from the environment. The lookup is usually os.LookupEnv.
// A project list from the environment replaces the configured projects.
func (c *ReleaseGateConfig) ApplyEnvironment(lookup func(string) (string, bool)) error {
	if value, ok := lookup(EnvTtl); ok && value != "" {
		ttl, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("invalid %s '%s': %w", EnvTtl, value, err)
		}
		c.TtlSeconds = lo.ToPtr(ttl)
	}
	if value, ok := lookup(EnvListen); ok && value != "" {
		c.Listen = value
	}
	if value, ok := lookup(EnvProjects); ok && value != "" {
		projects, err := ParseProjectList(value)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvProjects, err)
		}
		c.Projects = projects
	}
	return nil
}

// Parses a comma separated list of projects in the form "id=owner/repository" or "owner/repository".
// Without id, the repository name is used.
func ParseProjectList(value string) ([]*ProjectConfig, error) {
	projects := []*ProjectConfig{}
	for _, entry := range strings.Split(value, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		project := &ProjectConfig{}
		if id, repository, found := strings.Cut(entry, "="); found {
			project.Id = strings.TrimSpace(id)
			project.Repository = strings.TrimSpace(repository)
		} else {
			project.Repository = entry
			project.Id = path.Base(entry)
		}
		if project.Id == "" || !strings.Contains(project.Repository, "/") {
			return nil, fmt.Errorf("invalid project '%s'", entry)
		}
		projects = append(projects, project)
	}
	return projects, nil
}

// Fills all unset values with the defaults and expands environment variables.
func (c *ReleaseGateConfig) ApplyDefaults() {
	c.Listen = os.ExpandEnv(lo.CoalesceOrEmpty(c.Listen, DefaultListen))
	if c.TtlSeconds == nil {
		c.TtlSeconds = lo.ToPtr(DefaultTtlSeconds)
	}
	if c.RequestTimeoutSeconds == nil {
		c.RequestTimeoutSeconds = lo.ToPtr(DefaultRequestTimeoutSeconds)
	}
	c.VersionCompare = lo.CoalesceOrEmpty(c.VersionCompare, common.COMPARE_MODE_LEXICOGRAPHIC)
	c.RoutePrefix = "/" + strings.Trim(os.ExpandEnv(lo.CoalesceOrEmpty(c.RoutePrefix, DefaultRoutePrefix)), "/")
	for _, project := range c.Projects {
		project.Repository = os.ExpandEnv(project.Repository)
		project.Provider = lo.CoalesceOrEmpty(project.Provider, common.PROVIDER_TYPE_GITHUB)
	}
	c.defaultProjectIds()
	if len(c.Platforms) == 0 {
		c.Platforms = lo.Map(releases.DefaultPlatformTable(), func(mapping *releases.PlatformMapping, _ int) *PlatformMappingConfig {
			return &PlatformMappingConfig{Suffix: mapping.Suffix, Targets: mapping.Targets}
		})
	}
}

// Projects without id use the name of the repository.
func (c *ReleaseGateConfig) defaultProjectIds() {
	for _, project := range c.Projects {
		if project != nil && project.Id == "" {
			project.Id = path.Base(os.ExpandEnv(project.Repository))
		}
	}
}

// Checks the config for values that can not work.
func (c *ReleaseGateConfig) Validate() error {
	if c.TtlSeconds == nil || *c.TtlSeconds <= 0 {
		return fmt.Errorf("ttlSeconds must be positive")
	}
	if c.RequestTimeoutSeconds == nil || *c.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("requestTimeoutSeconds must be positive")
	}
	if c.VersionCompare != common.COMPARE_MODE_LEXICOGRAPHIC && c.VersionCompare != common.COMPARE_MODE_NUMERIC {
		return fmt.Errorf("unknown versionCompare '%s'", c.VersionCompare)
	}
	if len(c.Projects) == 0 {
		return fmt.Errorf("no projects configured")
	}
	if duplicates := lo.FindDuplicates(lo.Map(c.Projects, func(p *ProjectConfig, _ int) string { return p.Id })); len(duplicates) > 0 {
		return fmt.Errorf("duplicate project ids: %s", strings.Join(duplicates, ", "))
	}
	for _, project := range c.Projects {
		if strings.Contains(project.Id, "/") {
			return fmt.Errorf("project id '%s' must not contain a slash", project.Id)
		}
		if !lo.Contains(common.ProviderTypes, project.Provider) {
			return fmt.Errorf("project '%s' has unknown provider '%s'", project.Id, project.Provider)
		}
		if _, _, err := project.ToCommonProject().SplitRepository(); err != nil {
			return fmt.Errorf("project '%s': %w", project.Id, err)
		}
	}
	if err := c.ToPlatformTable().Validate(); err != nil {
		return fmt.Errorf("invalid platforms: %w", err)
	}
	return nil
}
