// Package fetcher retrieves per-user text artifacts from the backing GitHub
// repository via the contents API.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/kunori-kiku/textholder/config"
)

const DefaultBaseURL = "https://api.github.com"

const userAgent = "textholder/1.0"

// Fetcher is the seam the request handlers depend on.
type Fetcher interface {
	Fetch(ctx context.Context, username string) ([]byte, error)
}

// UpstreamError is any non-2xx answer from the content store. NotFound tells
// a genuinely missing file apart from an upstream failure for logging; the
// wire response treats both the same.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("fetcher: upstream returned %d: %s", e.StatusCode, e.Body)
}

func (e *UpstreamError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

type GitHub struct {
	client *http.Client

	baseURL   string
	token     string
	owner     string
	repo      string
	directory string
	branch    string

	cache *ttlcache.Cache[string, []byte]
}

var _ Fetcher = (*GitHub)(nil)

func NewGitHubFromConfig() *GitHub {
	cacheTime := viper.GetDuration(config.KeyCacheTime)

	var cache *ttlcache.Cache[string, []byte]
	if cacheTime > 0 {
		log.Info().Dur("cache_time", cacheTime).Msg("content caching enabled")
		cache = ttlcache.New[string, []byte](
			ttlcache.WithTTL[string, []byte](cacheTime),
		)
		go cache.Start()
	}

	return &GitHub{
		client: &http.Client{Timeout: 30 * time.Second},

		baseURL:   DefaultBaseURL,
		token:     viper.GetString(config.KeyGitHubToken),
		owner:     viper.GetString(config.KeyGitHubUsername),
		repo:      viper.GetString(config.KeyGitHubRepo),
		directory: viper.GetString(config.KeyGitHubDirectory),
		branch:    viper.GetString(config.KeyGitHubBranch),

		cache: cache,
	}
}

// Fetch returns the raw bytes of <directory>/<username>.txt at the
// configured branch. Any non-2xx answer comes back as an *UpstreamError
// carrying the upstream body verbatim.
func (g *GitHub) Fetch(ctx context.Context, username string) ([]byte, error) {
	if g.cache != nil {
		if item := g.cache.Get(username); item != nil {
			log.Debug().Str("username", username).Msg("content cache hit")
			return item.Value(), nil
		}
	}

	fileURL := fmt.Sprintf("%s/repos/%s/%s/contents/%s/%s.txt?ref=%s",
		g.baseURL, g.owner, g.repo, g.directory, username, g.branch)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("fetcher: Fetch: could not build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.token)
	req.Header.Set("Accept", "application/vnd.github.raw")
	req.Header.Set("User-Agent", userAgent)

	res, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetcher: Fetch: could not reach content store: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("fetcher: Fetch: could not read response: %w", err)
	}

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		upstreamErr := &UpstreamError{StatusCode: res.StatusCode, Body: string(body)}
		if upstreamErr.NotFound() {
			log.Warn().Str("username", username).Msg("no artifact for user")
		} else {
			log.Error().Str("username", username).Int("status", res.StatusCode).Msg("content store error")
		}
		return nil, upstreamErr
	}

	if g.cache != nil {
		g.cache.Set(username, body, ttlcache.DefaultTTL)
	}

	return body, nil
}
