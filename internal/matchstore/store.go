package matchstore

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/whiteref/soccer-guardian-v10/internal/config"
	"github.com/whiteref/soccer-guardian-v10/internal/metrics"
	"github.com/whiteref/soccer-guardian-v10/internal/models"
	"github.com/whiteref/soccer-guardian-v10/internal/objectstore"
	"github.com/whiteref/soccer-guardian-v10/internal/store"
)

// Store fetches and caches historical results for a configured set of
// leagues and seasons, exposing them as one strictly date-ordered
// sequence.
type Store struct {
	cfg    *config.Config
	client *http.Client
	mirror *objectstore.Mirror
}

// New constructs a Store from configuration and an optional remote
// mirror (nil disables mirroring).
func New(cfg *config.Config, mirror *objectstore.Mirror) *Store {
	return &Store{
		cfg:    cfg,
		mirror: mirror,
		client: &http.Client{
			Timeout: cfg.HTTPConnectTimeout + cfg.HTTPReadTimeout,
		},
	}
}

// Load fetches every configured (league, season) pair, falling back to
// the local cache on transient failure, and returns the union sorted
// in strictly increasing date order. It fails only when every source —
// network and cache — produced nothing at all (spec: Fatal).
func (s *Store) Load(ctx context.Context) ([]models.Match, error) {
	var all []models.Match
	anySource := false

	for _, league := range s.cfg.Leagues {
		for _, season := range s.cfg.Seasons {
			matches, fromCache, err := s.loadOne(ctx, league, season)
			if err != nil {
				log.Warn().Err(err).Str("league", league).Str("season", season).
					Msg("matchstore: league/season unavailable, skipping")
				metrics.RecordError("matchstore", "TransientIO")
				continue
			}
			if len(matches) > 0 || fromCache {
				anySource = true
			}
			all = append(all, matches...)
		}
	}

	if !anySource {
		metrics.RecordError("matchstore", "Fatal")
		return nil, fmt.Errorf("matchstore: no league/season produced data from network or cache")
	}

	sort.Slice(all, func(i, j int) bool { return all[i].Date.Before(all[j].Date) })
	return all, nil
}

// loadOne fetches a single league/season, caching on success and
// falling back to the cache on failure. fromCache reports whether the
// cache (rather than a live fetch) produced the returned matches.
func (s *Store) loadOne(ctx context.Context, league, season string) (matches []models.Match, fromCache bool, err error) {
	cacheFile, cerr := store.New(s.cachePath(league, season))
	if cerr != nil {
		return nil, false, cerr
	}
	if s.mirror != nil {
		cacheFile = cacheFile.WithMirror(s.mirror, s.mirrorKey(league, season))
	}

	url := fmt.Sprintf("https://%s/mmz4281/%s/%s.csv", s.cfg.CSVBaseHost, season, league)

	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.HTTPConnectTimeout+s.cfg.HTTPReadTimeout)
	defer cancel()

	body, ferr := s.fetchWithRetry(fetchCtx, url)
	if ferr == nil {
		parsed, _ := ParseCSV(league, body)
		metrics.CSVFetchTotal.WithLabelValues(league, season, "success").Inc()
		if serr := cacheFile.Save(parsed); serr != nil {
			log.Warn().Err(serr).Msg("matchstore: cache write failed")
		}
		return parsed, false, nil
	}

	metrics.CSVFetchTotal.WithLabelValues(league, season, "failure").Inc()
	var cached []models.Match
	if lerr := cacheFile.Load(&cached); lerr != nil {
		return nil, false, fmt.Errorf("fetch failed (%v) and cache unreadable: %w", ferr, lerr)
	}
	if len(cached) == 0 {
		return nil, false, fmt.Errorf("fetch failed and no cache available: %w", ferr)
	}
	return cached, true, nil
}

func (s *Store) fetchWithRetry(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= s.cfg.HTTPMaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Second):
			}
		}
		body, err := fetchCSV(ctx, s.client, url)
		if err == nil {
			return body, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

func (s *Store) cachePath(league, season string) string {
	return filepath.Join(s.cfg.CacheDir, fmt.Sprintf("%s_%s.json", league, season))
}

func (s *Store) mirrorKey(league, season string) string {
	return fmt.Sprintf("matchstore/%s_%s.json", league, season)
}
