package common

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

const ContentTypeJSON = "application/json"

var ErrUnexpectedStatus = errors.New("unexpected status code")

// Unexported type
type httpUtil struct{}

// exported global variable
var HttpUtil httpUtil

// Downloads the given url with the client and returns the body.
// Fails for every status code other than 200.
func (h httpUtil) DownloadToMemory(ctx context.Context, client *http.Client, url string, userAgent string) ([]byte, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for '%s': %w", url, err)
	}
	h.AddUserAgent(request, userAgent)
	resp, err := client.Do(request)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download file '%s': %w: %d", url, ErrUnexpectedStatus, resp.StatusCode)
	}
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	return bodyBytes, nil
}

// Downloads the given url and returns the body as text.
func (h httpUtil) DownloadText(ctx context.Context, client *http.Client, url string, userAgent string) (string, error) {
	bodyBytes, err := h.DownloadToMemory(ctx, client, url, userAgent)
	if err != nil {
		return "", err
	}
	return string(bodyBytes), nil
}

func (h httpUtil) AddUserAgent(request *http.Request, userAgent string) {
	if len(userAgent) > 0 {
		request.Header.Set("User-Agent", userAgent)
	}
}
