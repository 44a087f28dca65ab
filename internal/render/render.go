// Package render turns archive markup into display text. Citation strings
// carry inline HTML emphasis; terminals get markdown or plain text.
package render

import (
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/microcosm-cc/bluemonday"

	"github.com/runnerr0/badman-archive/internal/archive"
)

// NoCitation is shown for a citation key the table does not hold.
const NoCitation = "no citation"

// Format selects how markup is rendered.
type Format string

const (
	Markdown Format = "markdown"
	Plain    Format = "plain"
	HTML     Format = "html"
)

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case Markdown, Plain, HTML:
		return f, nil
	case "md":
		return Markdown, nil
	default:
		return "", fmt.Errorf("unknown format %q (use markdown, plain or html)", name)
	}
}

type cacheKey struct {
	format Format
	markup string
}

// Renderer converts markup and caches the results. Safe for concurrent use.
type Renderer struct {
	mu     sync.Mutex // guards md
	md     *converter.Converter
	strict *bluemonday.Policy
	cache  *lru.Cache[cacheKey, string]
}

// New creates a Renderer holding up to cacheSize rendered strings.
func New(cacheSize int) (*Renderer, error) {
	if cacheSize <= 0 {
		cacheSize = 128
	}
	cache, err := lru.New[cacheKey, string](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create render cache: %w", err)
	}
	return &Renderer{
		md: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
			),
		),
		strict: bluemonday.StrictPolicy(),
		cache:  cache,
	}, nil
}

// Markup renders an inline-HTML string in the given format. HTML returns
// the input unchanged. A failed markdown conversion falls back to plain text.
func (r *Renderer) Markup(markup string, f Format) string {
	if f == HTML || markup == "" {
		return markup
	}

	key := cacheKey{format: f, markup: markup}
	if out, ok := r.cache.Get(key); ok {
		return out
	}

	var out string
	switch f {
	case Markdown:
		out = r.markdown(markup)
	default:
		out = r.plain(markup)
	}
	r.cache.Add(key, out)
	return out
}

func (r *Renderer) markdown(markup string) string {
	r.mu.Lock()
	out, err := r.md.ConvertString(markup)
	r.mu.Unlock()
	if err != nil || strings.TrimSpace(out) == "" {
		return r.plain(markup)
	}
	return strings.TrimSpace(out)
}

func (r *Renderer) plain(markup string) string {
	return strings.TrimSpace(html.UnescapeString(r.strict.Sanitize(markup)))
}

// Citation renders the short or full form of a looked-up citation, or
// NoCitation when ok is false.
func (r *Renderer) Citation(c archive.Citation, ok bool, f Format, full bool) string {
	if !ok {
		return NoCitation
	}
	if full {
		return r.Markup(c.Full, f)
	}
	return r.Markup(c.Short, f)
}

// CacheLen reports how many rendered strings are cached.
func (r *Renderer) CacheLen() int {
	return r.cache.Len()
}
