// Package fetcher retrieves note pages over HTTP and reduces them to
// plain text for the extraction strategies.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
)

// Fetch errors.
var (
	// ErrPageUnavailable indicates the page could not be retrieved.
	ErrPageUnavailable = errors.New("note page is unavailable")
)

// maxBodyBytes bounds how much of a page is read. Notes are short; a
// page bigger than this is not one.
const maxBodyBytes = 2 << 20

// defaultUserAgent is sent with page fetches. Some note platforms
// refuse requests without a browser-looking agent.
const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

// HTTPDoer is an interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Source retrieves the plain text of a note page.
type Source interface {
	FetchText(ctx context.Context, url string) (string, error)
}

// HTTPSourceConfig holds configuration for the HTTP source.
type HTTPSourceConfig struct {
	// HTTPClient executes the requests (optional, defaults to a
	// resilient client).
	HTTPClient HTTPDoer

	// UserAgent overrides the request user agent (optional).
	UserAgent string

	// Store receives fetched text keyed by URL (optional).
	Store *TextStore

	// Logger for fetch operations.
	Logger zerolog.Logger
}

// HTTPSource fetches note pages over HTTP, strips markup, and caches
// the resulting text.
type HTTPSource struct {
	httpClient HTTPDoer
	userAgent  string
	store      *TextStore
	logger     zerolog.Logger
}

// NewHTTPSource creates an HTTP source from config, applying defaults.
func NewHTTPSource(cfg HTTPSourceConfig) *HTTPSource {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = NewClient(ClientConfig{Name: "fetcher"})
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return &HTTPSource{
		httpClient: httpClient,
		userAgent:  userAgent,
		store:      cfg.Store,
		logger:     cfg.Logger,
	}
}

// FetchText retrieves the page and returns its visible text. The text
// is also recorded in the store, when one is configured, so later
// URL-only parse requests can reuse it.
func (s *HTTPSource) FetchText(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.logger.Warn().
			Str("url", url).
			Int("status", resp.StatusCode).
			Msg("note page fetch failed")
		return "", fmt.Errorf("%w: status %d", ErrPageUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("reading page body: %w", err)
	}

	text := StripHTML(string(body))

	if s.store != nil {
		s.store.Put(url, text)
	}

	s.logger.Debug().
		Str("url", url).
		Int("page_bytes", len(body)).
		Int("text_len", len(text)).
		Msg("fetched note page")

	return text, nil
}

var (
	scriptRe = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleRe  = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	breakRe  = regexp.MustCompile(`(?i)<(?:br\s*/?|/p|/div|/li|/h[1-6])>`)
	tagRe    = regexp.MustCompile(`<[^>]+>`)
	blankRe  = regexp.MustCompile(`\n{3,}`)
	spaceRe  = regexp.MustCompile(`[ \t]+`)
)

// StripHTML reduces an HTML page to its visible text. Block-level
// closings become line breaks so the extraction strategies still see
// the note line by line.
func StripHTML(page string) string {
	text := scriptRe.ReplaceAllString(page, "")
	text = styleRe.ReplaceAllString(text, "")
	text = breakRe.ReplaceAllString(text, "\n")
	text = tagRe.ReplaceAllString(text, "")
	text = html.UnescapeString(text)

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(spaceRe.ReplaceAllString(line, " "))
	}
	text = strings.Join(lines, "\n")
	text = blankRe.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}
