// Package source retrieves the static GeoJSON documents from the local
// filesystem or over HTTP.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// ErrUnsupportedScheme is returned for locations that are neither file paths
// nor http(s) URLs.
var ErrUnsupportedScheme = errors.New("unsupported location scheme")

// maxDocumentBytes caps a single document read.
const maxDocumentBytes = 256 << 20

// Fetcher retrieves a document by location. Implementations do not retry.
type Fetcher struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// NewFetcher creates a Fetcher whose HTTP requests time out after timeout.
func NewFetcher(timeout time.Duration, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Fetch reads the document at location: an http:// or https:// URL, a
// file:// URL, or a plain filesystem path.
func (f *Fetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	u, err := url.Parse(location)
	if err != nil || u.Scheme == "" || isWindowsDrive(u.Scheme) {
		return f.readFile(location)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return f.get(ctx, location)
	case "file":
		return f.readFile(u.Path)
	default:
		return nil, fmt.Errorf("fetch %s: %w: %s", location, ErrUnsupportedScheme, u.Scheme)
	}
}

func (f *Fetcher) readFile(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxDocumentBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	f.logger.Debug("document read", "path", path, "bytes", len(data))
	return data, nil
}

func (f *Fetcher) get(ctx context.Context, location string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/geo+json, application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", location, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch %s: status %d: %s", location, resp.StatusCode, body)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", location, err)
	}
	f.logger.Debug("document fetched", "url", location, "bytes", len(data))
	return data, nil
}

// isWindowsDrive reports whether a parsed scheme is really a drive letter,
// as in C:\data\bikes.geojson.
func isWindowsDrive(scheme string) bool {
	return len(scheme) == 1
}
