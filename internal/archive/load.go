package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
)

// maxDocumentSize caps how much of a remote data resource is read.
const maxDocumentSize = 10 << 20

// Decode parses and validates a catalog document. The document must be a
// single JSON value; anything after it is an error.
func Decode(r io.Reader) (*Catalog, error) {
	var c Catalog
	dec := json.NewDecoder(r)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("decode catalog: trailing data after catalog")
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate catalog: %w", err)
	}
	if c.Citations == nil {
		c.Citations = map[int]Citation{}
	}
	return &c, nil
}

// Loader obtains catalogs from the built-in sample, a local file or an
// http(s) URL.
type Loader struct {
	client *http.Client
	logger *zap.Logger
}

// NewLoader creates a Loader. A zero timeout leaves requests bounded only
// by the caller's context.
func NewLoader(logger *zap.Logger, timeout time.Duration) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Load returns the catalog for source, or nil when it cannot be obtained.
// An empty source selects the built-in sample. Failures are logged, never
// returned.
func (l *Loader) Load(ctx context.Context, source string) *Catalog {
	c, err := l.LoadErr(ctx, source)
	if err != nil {
		l.logger.Error("archive data unavailable", zap.String("source", source), zap.Error(err))
		return nil
	}
	return c
}

// Fetch retrieves a catalog over HTTP, or nil on any transport, status or
// parse failure.
func (l *Loader) Fetch(ctx context.Context, url string) *Catalog {
	c, err := l.fetch(ctx, url)
	if err != nil {
		l.logger.Error("archive fetch failed", zap.String("url", url), zap.Error(err))
		return nil
	}
	return c
}

// LoadErr is Load with the failure reported as a *DataFetchError.
func (l *Loader) LoadErr(ctx context.Context, source string) (*Catalog, error) {
	switch {
	case source == "":
		return Sample(), nil
	case isRemote(source):
		return l.fetch(ctx, source)
	default:
		return l.readFile(source)
	}
}

func isRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

func (l *Loader) readFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DataFetchError{Source: path, Op: "read", Err: err}
	}
	defer f.Close()

	c, err := Decode(f)
	if err != nil {
		return nil, &DataFetchError{Source: path, Op: "decode", Err: err}
	}
	l.logger.Debug("archive loaded", zap.String("path", path), zap.Int("entries", c.TotalEntries()))
	return c, nil
}

func (l *Loader) fetch(ctx context.Context, url string) (*Catalog, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &DataFetchError{Source: url, Op: "fetch", Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, &DataFetchError{Source: url, Op: "fetch", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &DataFetchError{Source: url, Op: "fetch", Err: fmt.Errorf("HTTP status %d", resp.StatusCode)}
	}

	c, err := Decode(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, &DataFetchError{Source: url, Op: "decode", Err: err}
	}
	l.logger.Debug("archive fetched", zap.String("url", url), zap.Int("entries", c.TotalEntries()))
	return c, nil
}
