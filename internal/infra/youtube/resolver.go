// Package youtube resolves video display titles from video ids.
package youtube

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/net/html"
)

// ErrTitleNotFound indicates the video page carried no usable title.
var ErrTitleNotFound = errors.New("video title not found")

// Config represents resolver configuration.
type Config struct {
	BaseURL string        // Defaults to https://youtu.be/
	Timeout time.Duration // HTTP timeout, defaults to 10s
}

// Resolver fetches a video's page and extracts its title, caching results.
type Resolver struct {
	baseURL    string
	httpClient *http.Client

	cacheMu sync.RWMutex
	cache   map[string]string
}

// New creates a title resolver.
func New(cfg Config) *Resolver {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://youtu.be/"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Resolver{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		cache:      make(map[string]string),
	}
}

// ResolveTitle returns the display title for a video id.
func (r *Resolver) ResolveTitle(ctx context.Context, videoID string) (string, error) {
	r.cacheMu.RLock()
	if title, ok := r.cache[videoID]; ok {
		r.cacheMu.RUnlock()
		zlog.Debug().Str("video", videoID).Msg("youtube: using cached title")
		return title, nil
	}
	r.cacheMu.RUnlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+videoID, nil)
	if err != nil {
		return "", errors.Wrap(err, "failed to create request")
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "failed to fetch video page")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.Newf("unexpected status %d fetching video %s", resp.StatusCode, videoID)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "failed to parse video page")
	}

	title := findTitle(doc)
	if title == "" {
		return "", errors.Wrapf(ErrTitleNotFound, "video %s", videoID)
	}
	title = strings.TrimSuffix(title, " - YouTube")

	r.cacheMu.Lock()
	r.cache[videoID] = title
	r.cacheMu.Unlock()

	return title, nil
}

// findTitle walks the document for the first <title> element.
func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" && n.FirstChild != nil {
		return n.FirstChild.Data
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if title := findTitle(c); title != "" {
			return title
		}
	}
	return ""
}
