package knowledge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// DefaultTimeout bounds fetching a remote knowledge base.
const DefaultTimeout = 15 * time.Second

// DefaultMaxBytes caps how much of a remote knowledge base is read.
const DefaultMaxBytes = 2 << 20

// blockSelectors are the HTML elements whose text becomes one corpus line each.
const blockSelectors = "h1, h2, h3, h4, h5, h6, p, li, dt, dd, td, th, blockquote, pre"

// Loader reads a knowledge base from a local file or an http(s) URL.
type Loader struct {
	client   *http.Client
	logger   *zap.Logger
	maxBytes int64
}

// NewLoader creates a loader. A nil logger disables logging.
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		client:   &http.Client{Timeout: DefaultTimeout},
		logger:   logger.Named("knowledge"),
		maxBytes: DefaultMaxBytes,
	}
}

// Load returns the corpus text for source. A missing file or empty source yields an
// empty corpus rather than an error, since the knowledge base is optional.
// HTML content is reduced to one line per block element.
func (l *Loader) Load(ctx context.Context, source string) (string, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return "", nil
	}

	var (
		raw    string
		isHTML bool
		err    error
	)
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		raw, isHTML, err = l.fetch(ctx, source)
	} else {
		raw, isHTML, err = l.readFile(source)
	}
	if err != nil {
		return "", err
	}

	if isHTML {
		raw, err = HTMLToText(raw)
		if err != nil {
			return "", &LoadError{Source: source, Message: "failed to parse HTML", Cause: err}
		}
	}

	l.logger.Info("knowledge base loaded", zap.String("source", source), zap.Int("chars", len([]rune(raw))))
	return raw, nil
}

func (l *Loader) readFile(path string) (string, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.logger.Info("no knowledge base found", zap.String("path", path))
			return "", false, nil
		}
		return "", false, &LoadError{Source: path, Message: "failed to read file", Cause: err}
	}

	ext := strings.ToLower(filepath.Ext(path))
	return string(data), ext == ".html" || ext == ".htm", nil
}

func (l *Loader) fetch(ctx context.Context, url string) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", false, &LoadError{Source: url, Message: "failed to create request", Cause: err}
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return "", false, &LoadError{Source: url, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", false, &LoadError{Source: url, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, l.maxBytes+1))
	if err != nil {
		return "", false, &LoadError{Source: url, Message: "failed to read response body", Cause: err}
	}
	if int64(len(body)) > l.maxBytes {
		l.logger.Warn("knowledge base truncated", zap.String("source", url), zap.Int64("max_bytes", l.maxBytes))
		body = body[:l.maxBytes]
	}

	return string(body), strings.Contains(resp.Header.Get("Content-Type"), "html"), nil
}

// HTMLToText extracts readable text from an HTML document, one line per block element.
func HTMLToText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}

	doc.Find("nav, footer, script, style, noscript").Remove()

	var lines []string
	doc.Find(blockSelectors).Each(func(_ int, s *goquery.Selection) {
		// Nested blocks are emitted by their innermost element.
		if s.Find(blockSelectors).Length() > 0 {
			return
		}
		if line := strings.Join(strings.Fields(s.Text()), " "); line != "" {
			lines = append(lines, line)
		}
	})

	if len(lines) == 0 {
		return strings.Join(strings.Fields(doc.Find("body").Text()), " "), nil
	}
	return strings.Join(lines, "\n"), nil
}
