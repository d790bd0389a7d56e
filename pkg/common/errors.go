package common

import "errors"

var (
	// The upstream could not be reached, answered with a non-success status or with an undecodable body.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// The upstream refused the request because of its rate limit.
	ErrRateLimited = errors.New("rate limited by upstream")
	// The project id is not configured.
	ErrUnknownProject = errors.New("unknown project")
	// The upstream answered, but the release lacks required fields.
	ErrMalformedPayload = errors.New("malformed upstream payload")
)
