package export

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go-easyapply-automation/internal/models"
	"go-easyapply-automation/internal/scraper"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestStore_RoundTrip(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "exports"))
	created := time.Date(2023, time.July, 6, 14, 30, 5, 0, time.Local)
	store.now = fixedClock(created)

	urls := []scraper.JobURL{
		scraper.NewJobURL("https://www.glassdoor.com/job?jobListingId=2"),
		scraper.NewJobURL("https://www.glassdoor.com/job?jobListingId=1"),
		scraper.NewJobURL("https://jobs.lever.co/acme/123"),
	}

	written, err := store.Write(urls)
	require.NoError(t, err)
	assert.Equal(t, "urls_20230706_143005.json", filepath.Base(written.Path))

	latest, err := store.ReadLatest()
	require.NoError(t, err)
	assert.ElementsMatch(t, urls, latest.URLs)
	assert.True(t, created.Equal(latest.CreatedAt))
	assert.Equal(t, written.Path, latest.Path)
}

func TestStore_LatestWins(t *testing.T) {
	store := NewStore(t.TempDir())

	store.now = fixedClock(time.Date(2023, 7, 6, 10, 0, 0, 0, time.Local))
	_, err := store.Write([]scraper.JobURL{scraper.NewJobURL("https://g/old")})
	require.NoError(t, err)

	store.now = fixedClock(time.Date(2023, 7, 7, 10, 0, 0, 0, time.Local))
	_, err = store.Write([]scraper.JobURL{scraper.NewJobURL("https://g/new")})
	require.NoError(t, err)

	latest, err := store.ReadLatest()
	require.NoError(t, err)
	assert.Equal(t, []scraper.JobURL{{URL: "https://g/new"}}, latest.URLs)
}

func TestStore_SameSecondDoesNotOverwrite(t *testing.T) {
	store := NewStore(t.TempDir())
	store.now = fixedClock(time.Date(2023, 7, 6, 10, 0, 0, 0, time.Local))

	var last URLBatch
	for i := 0; i < 12; i++ {
		b, err := store.Write([]scraper.JobURL{scraper.NewJobURL("https://g/" + string(rune('a'+i)))})
		require.NoError(t, err)
		last = b
	}

	files, err := filepath.Glob(filepath.Join(store.Dir(), "urls_*.json"))
	require.NoError(t, err)
	assert.Len(t, files, 12)

	latest, err := store.ReadLatest()
	require.NoError(t, err)
	assert.Equal(t, last.Path, latest.Path)
	assert.Equal(t, "urls_20230706_100000_11.json", filepath.Base(latest.Path))
}

func TestStore_EmptyBatchKeepsPreviousLatest(t *testing.T) {
	store := NewStore(t.TempDir())

	store.now = fixedClock(time.Date(2024, 1, 1, 10, 0, 0, 0, time.Local))
	_, err := store.Write([]scraper.JobURL{scraper.NewJobURL("https://g/job?jobListingId=7")})
	require.NoError(t, err)

	store.now = fixedClock(time.Date(2024, 1, 2, 10, 0, 0, 0, time.Local))
	_, err = store.Write(nil)
	assert.ErrorIs(t, err, ErrEmptyBatch)
	assert.NotErrorIs(t, err, models.ErrPersistence)

	files, err := filepath.Glob(filepath.Join(store.Dir(), "urls_*.json"))
	require.NoError(t, err)
	assert.Len(t, files, 1)

	latest, err := store.ReadLatest()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://g/job?jobListingId=7"}, scraper.URLs(latest.URLs))
	assert.Contains(t, latest.Path, "urls_20240101_100000.json")
}

func TestStore_NoExports(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "urls_notes.json"), []byte("[]"), 0644))

	_, err := NewStore(dir).ReadLatest()
	assert.ErrorIs(t, err, ErrNoExports)
	assert.ErrorIs(t, err, models.ErrPersistence)
}

func TestStore_WriteFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "exports")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	_, err := NewStore(blocker).Write(nil)
	assert.ErrorIs(t, err, models.ErrPersistence)
}
