package config

import (
	"github.com/roemer/releasegate/pkg/common"
)

// This type represents the releasegate config object.
type ReleaseGateConfig struct {
	// A list of presets to also load before loading this config. All configs are merged together.
	Extends []string `json:"extends" yaml:"extends"`
	// The address the server listens on, eg. ":8000".
	Listen string `json:"listen" yaml:"listen"`
	// The number of seconds a fetched release stays fresh.
	TtlSeconds *int `json:"ttlSeconds" yaml:"ttlSeconds"`
	// The number of seconds after which a request to upstream is aborted.
	RequestTimeoutSeconds *int `json:"requestTimeoutSeconds" yaml:"requestTimeoutSeconds"`
	// How versions are compared, "lexicographic" (default) or "numeric".
	VersionCompare common.CompareMode `json:"versionCompare" yaml:"versionCompare"`
	// The path under which the update route is served.
	RoutePrefix string `json:"routePrefix" yaml:"routePrefix"`
	// The tracked projects.
	Projects []*ProjectConfig `json:"projects" yaml:"projects"`
	// The mapping from asset name suffixes to platforms.
	Platforms []*PlatformMappingConfig `json:"platforms" yaml:"platforms"`
}

type ProjectConfig struct {
	// The identifier used in the route. Defaults to the repository name.
	Id string `json:"id" yaml:"id"`
	// The release host, "github" (default), "gitea" or "gitlab".
	Provider common.ProviderType `json:"provider" yaml:"provider"`
	// The repository in the form "owner/repository".
	Repository string `json:"repository" yaml:"repository"`
	// An optional API base url of the release host.
	Endpoint string `json:"endpoint" yaml:"endpoint"`
}

type PlatformMappingConfig struct {
	Suffix  string   `json:"suffix" yaml:"suffix"`
	Targets []string `json:"targets" yaml:"targets"`
}
