package config

import (
	"slices"

	"github.com/samber/lo"
)

func (configA *ReleaseGateConfig) mergeWithAsCopy(configB *ReleaseGateConfig) *ReleaseGateConfig {
	merged := &ReleaseGateConfig{}
	merged.MergeWith(configA)
	merged.MergeWith(configB)
	return merged
}

func (configA *ReleaseGateConfig) MergeWith(configB *ReleaseGateConfig) {
	if configB == nil {
		return
	}
	// Extends
	configA.Extends = lo.Union(configA.Extends, configB.Extends)
	// Listen
	if configB.Listen != "" {
		configA.Listen = configB.Listen
	}
	// TtlSeconds
	if configB.TtlSeconds != nil {
		configA.TtlSeconds = lo.ToPtr(*configB.TtlSeconds)
	}
	// RequestTimeoutSeconds
	if configB.RequestTimeoutSeconds != nil {
		configA.RequestTimeoutSeconds = lo.ToPtr(*configB.RequestTimeoutSeconds)
	}
	// VersionCompare
	if configB.VersionCompare != "" {
		configA.VersionCompare = configB.VersionCompare
	}
	// RoutePrefix
	if configB.RoutePrefix != "" {
		configA.RoutePrefix = configB.RoutePrefix
	}
	// Projects
	for _, projectB := range configB.Projects {
		if projectB == nil {
			continue
		}
		// Search for an existing project with the same id
		projectAIndex := slices.IndexFunc(configA.Projects, func(p *ProjectConfig) bool { return p.Id == projectB.Id })
		if projectAIndex >= 0 {
			configA.Projects[projectAIndex].MergeWith(projectB)
		} else {
			newProject := &ProjectConfig{}
			newProject.MergeWith(projectB)
			configA.Projects = append(configA.Projects, newProject)
		}
	}
	// Platforms
	for _, mappingB := range configB.Platforms {
		if mappingB == nil {
			continue
		}
		newMapping := &PlatformMappingConfig{
			Suffix:  mappingB.Suffix,
			Targets: slices.Clone(mappingB.Targets),
		}
		// A mapping with the same suffix is replaced
		mappingAIndex := slices.IndexFunc(configA.Platforms, func(m *PlatformMappingConfig) bool { return m.Suffix == mappingB.Suffix })
		if mappingAIndex >= 0 {
			configA.Platforms[mappingAIndex] = newMapping
		} else {
			configA.Platforms = append(configA.Platforms, newMapping)
		}
	}
}

func (projectA *ProjectConfig) MergeWith(projectB *ProjectConfig) {
	if projectB == nil {
		return
	}
	// Id
	projectA.Id = projectB.Id
	// Provider
	if projectB.Provider != "" {
		projectA.Provider = projectB.Provider
	}
	// Repository
	if projectB.Repository != "" {
		projectA.Repository = projectB.Repository
	}
	// Endpoint
	if projectB.Endpoint != "" {
		projectA.Endpoint = projectB.Endpoint
	}
}
