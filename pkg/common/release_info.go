package common

// The loosely typed release object as returned by the upstream API.
// Fields are only trusted after a type check.
type RawRelease map[string]any

// This type contains the normalized information about the latest release of a project.
type NormalizedRelease struct {
	// The version as published, can contain a leading "v".
	Version string `json:"version"`
	// The release notes without the trailing boilerplate.
	Notes string `json:"notes"`
	// The publication timestamp, passed through as delivered by upstream.
	PubDate string `json:"pub_date"`
	// The artifacts per platform identifier (eg. "windows-x86_64").
	Platforms map[string]*PlatformArtifact `json:"platforms"`
}

// The downloadable artifact for one platform.
type PlatformArtifact struct {
	// The download url of the installer/bundle.
	URL *string `json:"url,omitempty"`
	// The content of the detached signature. Empty if the signature could not be fetched.
	Signature *string `json:"signature,omitempty"`
}

// Creates a deep copy of the release so callers can never mutate cached data.
func (r *NormalizedRelease) Clone() *NormalizedRelease {
	if r == nil {
		return nil
	}
	clone := *r
	clone.Platforms = make(map[string]*PlatformArtifact, len(r.Platforms))
	for platform, artifact := range r.Platforms {
		clone.Platforms[platform] = artifact.Clone()
	}
	return &clone
}

func (a *PlatformArtifact) Clone() *PlatformArtifact {
	if a == nil {
		return nil
	}
	clone := &PlatformArtifact{}
	if a.URL != nil {
		url := *a.URL
		clone.URL = &url
	}
	if a.Signature != nil {
		signature := *a.Signature
		clone.Signature = &signature
	}
	return clone
}
