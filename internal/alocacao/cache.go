package alocacao

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/quixabot/quixabot/internal/docparse"
	"github.com/quixabot/quixabot/internal/fetch"
)

// DefaultTTL is how long a loaded allocation snapshot stays fresh.
const DefaultTTL = 30 * time.Minute

// Snapshot is one load of the allocation document, successful or not.
// A failed load is cached too, so a broken source does not get hammered
// on every chat message.
type Snapshot struct {
	Rows      []docparse.Row
	DocURL    string
	Err       error
	Timestamp time.Time
}

// Store caches the parsed allocation document and reloads it after the TTL.
// Concurrent refreshes collapse into a single fetch.
type Store struct {
	client  *fetch.Client
	url     string
	ttl     time.Duration
	timeout time.Duration
	log     *slog.Logger

	mu    sync.RWMutex
	snap  *Snapshot
	group singleflight.Group
}

// NewStore builds a Store over the allocation document at url.
func NewStore(client *fetch.Client, url string, ttl time.Duration, log *slog.Logger) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		client:  client,
		url:     url,
		ttl:     ttl,
		timeout: 20 * time.Second,
		log:     log.With("component", "alocacao"),
	}
}

// Load returns the current snapshot, refreshing it when stale.
func (s *Store) Load(ctx context.Context) *Snapshot {
	s.mu.RLock()
	snap := s.snap
	s.mu.RUnlock()
	if snap != nil && time.Since(snap.Timestamp) < s.ttl {
		return snap
	}

	v, _, _ := s.group.Do("load", func() (interface{}, error) {
		s.mu.RLock()
		cur := s.snap
		s.mu.RUnlock()
		if cur != nil && time.Since(cur.Timestamp) < s.ttl {
			return cur, nil
		}
		fresh := s.refresh(ctx)
		s.mu.Lock()
		s.snap = fresh
		s.mu.Unlock()
		return fresh, nil
	})
	return v.(*Snapshot)
}

// Invalidate drops the cached snapshot so the next Load refetches.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.snap = nil
	s.mu.Unlock()
}

// refresh walks the candidate URL variants of the configured document and
// commits to the first one that contains at least one table element. Only
// the accepted variant gets the plain-text fallback; a table-less variant
// never short-circuits a later one that has tables.
func (s *Store) refresh(ctx context.Context) *Snapshot {
	snap := &Snapshot{Timestamp: time.Now()}
	var lastErr error

	for _, candidate := range fetch.DocCandidates(s.url) {
		res, err := s.client.Get(ctx, candidate, s.timeout)
		if err != nil {
			lastErr = err
			s.log.Warn("allocation fetch failed", "url", candidate, "error", err)
			continue
		}
		if fetch.RequiresAuth(res.FinalURL) {
			lastErr = fmt.Errorf("document variant %s redirected to a login page", candidate)
			s.log.Warn("allocation variant requires auth", "url", candidate)
			continue
		}
		if res.Doc.Find("table").Length() == 0 {
			lastErr = fmt.Errorf("no table found in variant %s", candidate)
			s.log.Warn("allocation variant has no tables, trying next", "url", candidate)
			continue
		}

		rows := docparse.ParseDocument(res.Doc)
		if len(rows) == 0 {
			s.log.Debug("table parse yielded no rows, trying plain text", "url", candidate)
			rows = docparse.ParsePlainText(res.Doc)
		}
		if len(rows) == 0 {
			s.log.Warn("allocation document has no recognizable rows", "url", candidate)
		}
		snap.Rows = rows
		snap.DocURL = candidate
		s.log.Info("allocation document loaded", "url", candidate, "rows", len(rows))
		return snap
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no usable variant for %s", s.url)
	}
	snap.Err = lastErr
	s.log.Error("allocation load failed", "url", s.url, "error", lastErr)
	return snap
}
