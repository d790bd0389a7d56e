package common

import (
	"log/slog"
	"net/http"
	"time"
)

type UpstreamSettings struct {
	// The logger to use for the upstream.
	Logger *slog.Logger
	// The http client used for all requests. A client with the request timeout is created if nil.
	HttpClient *http.Client
	// The timeout for a single upstream request.
	RequestTimeout time.Duration
	// A value for the User-Agent header.
	UserAgent string
}

// Gets the configured http client or creates one bound to the request timeout.
func (s *UpstreamSettings) Client() *http.Client {
	if s.HttpClient != nil {
		return s.HttpClient
	}
	return &http.Client{Timeout: s.RequestTimeout}
}
