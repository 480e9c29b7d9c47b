// Package dedup remembers which job URLs were already brought to review so later
// apply runs skip them.
package dedup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"go-easyapply-automation/internal/logger"
	"go-easyapply-automation/internal/models"

	"go.uber.org/zap"
)

const (
	fileName   = "reviewed_jobs.json"
	DefaultTTL = 30 * 24 * time.Hour
)

type seenEntry struct {
	URL        string    `json:"url"`
	ReviewedAt time.Time `json:"reviewed_at"`
}

type JobCache struct {
	mu       sync.Mutex
	filePath string
	ttl      time.Duration
	seen     map[string]time.Time
	now      func() time.Time
	log      *zap.Logger
}

// NewJobCache loads the cache stored in cacheDir, dropping entries older than the TTL.
func NewJobCache(cacheDir string, log *zap.Logger) *JobCache {
	log = logger.OrNop(log).Named("dedup")
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		log.Warn("⚠️ Failed to create cache directory", zap.Error(err))
	}
	cache := &JobCache{
		filePath: filepath.Join(cacheDir, fileName),
		ttl:      DefaultTTL,
		seen:     make(map[string]time.Time),
		now:      time.Now,
		log:      log,
	}
	cache.load()
	return cache
}

func (jc *JobCache) IsSeen(url string) bool {
	jc.mu.Lock()
	defer jc.mu.Unlock()
	_, exists := jc.seen[url]
	return exists
}

func (jc *JobCache) Len() int {
	jc.mu.Lock()
	defer jc.mu.Unlock()
	return len(jc.seen)
}

// Add marks urls as reviewed and persists the cache when anything changed.
func (jc *JobCache) Add(urls ...string) error {
	jc.mu.Lock()
	defer jc.mu.Unlock()

	now := jc.now()
	changed := false
	for _, url := range urls {
		if _, exists := jc.seen[url]; !exists {
			jc.seen[url] = now
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return jc.save()
}

func (jc *JobCache) load() {
	data, err := os.ReadFile(jc.filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			jc.log.Warn("⚠️ Failed to read seen jobs", zap.String("path", jc.filePath), zap.Error(err))
		}
		return
	}

	var entries []seenEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		jc.log.Warn("⚠️ Failed to parse seen jobs", zap.String("path", jc.filePath), zap.Error(err))
		return
	}

	cutoff := jc.now().Add(-jc.ttl)
	for _, e := range entries {
		if e.ReviewedAt.After(cutoff) {
			jc.seen[e.URL] = e.ReviewedAt
		}
	}
	jc.log.Info("📋 Loaded previously reviewed jobs",
		zap.Int("loaded", len(jc.seen)),
		zap.Int("expired", len(entries)-len(jc.seen)))
}

// save must be called with mu held.
func (jc *JobCache) save() error {
	entries := make([]seenEntry, 0, len(jc.seen))
	for url, ts := range jc.seen {
		entries = append(entries, seenEntry{URL: url, ReviewedAt: ts})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].URL < entries[j].URL })

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal seen jobs: %v", models.ErrPersistence, err)
	}
	if err := os.WriteFile(jc.filePath, data, 0644); err != nil {
		return fmt.Errorf("%w: write seen jobs: %v", models.ErrPersistence, err)
	}
	jc.log.Debug("💾 Saved reviewed jobs", zap.Int("count", len(entries)))
	return nil
}
