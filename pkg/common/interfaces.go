package common

import (
	"context"
)

// Fetches an arbitrary url as text. Returns an empty string on any failure.
type TextFetcher func(ctx context.Context, url string) string

// This is the interface that needs to be implemented by all release hosts.
type IUpstream interface {
	// Gets the type of the upstream.
	Type() ProviderType
	// Gets the raw latest release of the project.
	FetchLatestRelease(ctx context.Context, project *Project) (RawRelease, error)
	// Gets the body of the given url as text, empty on failure.
	FetchText(ctx context.Context, url string) string
}

// This is the interface the release cache uses to (re)load the data of a tracked project.
type IReleaseSource interface {
	// Gets the raw latest release of the project with the given id.
	FetchLatestRelease(ctx context.Context, projectId string) (RawRelease, error)
	// Gets the body of the given url as text, empty on failure.
	FetchText(ctx context.Context, url string) string
}

// This is the interface of the transformation from raw to normalized releases.
type ITransformer interface {
	// Normalizes the raw release, returns nil if required fields are missing.
	Normalize(ctx context.Context, raw RawRelease, fetchText TextFetcher) *NormalizedRelease
}

// This is the interface of the cache for normalized releases.
type IReleaseCache interface {
	// Gets the normalized release for the project, nil if none is available.
	Get(ctx context.Context, projectId string) *NormalizedRelease
}
