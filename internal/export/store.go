// Package export writes crawl results as timestamped JSON batches and reads back the newest one.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"go-easyapply-automation/internal/models"
	"go-easyapply-automation/internal/scraper"
)

const (
	prefix          = "urls_"
	ext             = ".json"
	timestampLayout = "20060102_150405"
)

var ErrNoExports = fmt.Errorf("%w: no exported batches", models.ErrPersistence)

// ErrEmptyBatch is returned by Write when there is nothing to store. No file is written, so the
// previous batch stays the latest.
var ErrEmptyBatch = errors.New("no URLs to export")

// URLBatch is the content of one export file.
type URLBatch struct {
	URLs      []scraper.JobURL
	CreatedAt time.Time
	Path      string
}

type Store struct {
	dir string
	now func() time.Time
}

func NewStore(dir string) *Store {
	return &Store{dir: dir, now: time.Now}
}

func (s *Store) Dir() string {
	return s.dir
}

// Write stores urls as a new batch. An existing file with the same timestamp is never overwritten.
func (s *Store) Write(urls []scraper.JobURL) (URLBatch, error) {
	if len(urls) == 0 {
		return URLBatch{}, ErrEmptyBatch
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return URLBatch{}, fmt.Errorf("%w: create export dir: %v", models.ErrPersistence, err)
	}

	createdAt := s.now()
	stamp := createdAt.Format(timestampLayout)
	path := filepath.Join(s.dir, prefix+stamp+ext)
	for n := 1; fileExists(path); n++ {
		path = filepath.Join(s.dir, fmt.Sprintf("%s%s_%d%s", prefix, stamp, n, ext))
	}

	data, err := json.MarshalIndent(scraper.URLs(urls), "", "  ")
	if err != nil {
		return URLBatch{}, fmt.Errorf("%w: marshal batch: %v", models.ErrPersistence, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return URLBatch{}, fmt.Errorf("%w: write batch: %v", models.ErrPersistence, err)
	}

	return URLBatch{URLs: urls, CreatedAt: createdAt.Truncate(time.Second), Path: path}, nil
}

type batchName struct {
	path  string
	stamp string
	seq   int
}

// ReadLatest returns the newest batch in the directory.
func (s *Store) ReadLatest() (URLBatch, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, prefix+"*"+ext))
	if err != nil {
		return URLBatch{}, fmt.Errorf("%w: list exports: %v", models.ErrPersistence, err)
	}

	var names []batchName
	for _, m := range matches {
		if name, ok := parseName(m); ok {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return URLBatch{}, ErrNoExports
	}
	sort.Slice(names, func(i, j int) bool {
		if names[i].stamp != names[j].stamp {
			return names[i].stamp < names[j].stamp
		}
		return names[i].seq < names[j].seq
	})
	latest := names[len(names)-1]

	return readBatch(latest)
}

func readBatch(name batchName) (URLBatch, error) {
	data, err := os.ReadFile(name.path)
	if err != nil {
		return URLBatch{}, fmt.Errorf("%w: read %s: %v", models.ErrPersistence, name.path, err)
	}
	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		return URLBatch{}, fmt.Errorf("%w: parse %s: %v", models.ErrPersistence, name.path, err)
	}

	urls := make([]scraper.JobURL, 0, len(raw))
	for _, u := range raw {
		urls = append(urls, scraper.NewJobURL(u))
	}
	createdAt, _ := time.ParseInLocation(timestampLayout, name.stamp, time.Local)
	return URLBatch{URLs: urls, CreatedAt: createdAt, Path: name.path}, nil
}

// parseName splits "urls_<stamp>[_<n>].json".
func parseName(path string) (batchName, bool) {
	base := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(path), prefix), ext)
	if len(base) < len(timestampLayout) {
		return batchName{}, false
	}
	stamp, rest := base[:len(timestampLayout)], base[len(timestampLayout):]
	if _, err := time.Parse(timestampLayout, stamp); err != nil {
		return batchName{}, false
	}
	name := batchName{path: path, stamp: stamp}
	if rest != "" {
		n, err := strconv.Atoi(strings.TrimPrefix(rest, "_"))
		if err != nil || !strings.HasPrefix(rest, "_") {
			return batchName{}, false
		}
		name.seq = n
	}
	return name, true
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, os.ErrNotExist)
}
