package common

import (
	"fmt"
	"os"
	"strings"
)

// A project whose releases are tracked.
type Project struct {
	// The identifier used in routes and as cache key.
	Id string
	// The release host of the project.
	Provider ProviderType
	// The path of the repository in the form "owner/repository".
	Repository string
	// An optional API base url of the provider. Is expanded from environment variables.
	Endpoint string
}

// Splits the repository into "owner" and "repository"
func (p *Project) SplitRepository() (string, string, error) {
	parts := strings.SplitN(p.Repository, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository '%s', expected 'owner/repository'", p.Repository)
	}
	return parts[0], parts[1], nil
}

func (p *Project) EndpointExpanded() string {
	return os.ExpandEnv(p.Endpoint)
}
