package reporter

import (
	"bytes"
	"errors"
	"testing"

	"go-easyapply-automation/internal/scraper"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsole_JobSkippedHyperlink(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	c.JobSkipped(scraper.NewJobURL("https://g/job?jobListingId=42"), "missing keyword")

	assert.Equal(t,
		"\x1b]8;;https://g/job?jobListingId=42\aSkipping job #42 ...\x1b]8;;\a (missing keyword)\n",
		buf.String())
}

func TestConsole_Summary(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	require.NoError(t, c.BatchSummary(Summary{
		Title: "Crawl",
		Stats: []Stat{{"found", 10}, {"kept", 3}},
		Path:  "exports/urls_20230706_100000.json",
	}))
	assert.Contains(t, buf.String(), "Crawl: found=10 kept=3")
	assert.Contains(t, buf.String(), "exports/urls_20230706_100000.json")
}

type fakeSender struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, f.err
}

func TestTelegram_AwaitingReview(t *testing.T) {
	fs := &fakeSender{}
	tg := &Telegram{bot: fs, chatID: 7}

	require.NoError(t, tg.AwaitingReview(Review{
		Job:      scraper.NewJobURL("https://g/job?jobListingId=42&a=<b>"),
		Provider: "greenhouse",
		Done:     4, Skipped: 1,
	}))

	require.Len(t, fs.sent, 1)
	msg := fs.sent[0]
	assert.Equal(t, int64(7), msg.ChatID)
	assert.Equal(t, tgbotapi.ModeHTML, msg.ParseMode)
	assert.Contains(t, msg.Text, "greenhouse")
	assert.Contains(t, msg.Text, "&amp;a=&lt;b&gt;")
	assert.NotNil(t, msg.ReplyMarkup)
}

// failingReporter is a reporter whose transport is down.
type failingReporter struct{}

func (*failingReporter) JobSkipped(scraper.JobURL, string) {}
func (*failingReporter) BatchSummary(Summary) error      { return errors.New("down") }
func (*failingReporter) AwaitingReview(Review) error     { return errors.New("down") }

func TestMulti_FanOut(t *testing.T) {
	var buf bytes.Buffer
	fs := &fakeSender{}
	m := NewMulti(nil, NewConsole(&buf), &Telegram{bot: fs}, &failingReporter{})

	m.JobSkipped(scraper.NewJobURL("https://g/a"), "fetch failed")
	assert.Contains(t, buf.String(), "Skipping job ...")
	assert.Empty(t, fs.sent)

	err := m.BatchSummary(Summary{Title: "Apply"})
	assert.Error(t, err)
	assert.Len(t, fs.sent, 1)
	assert.Contains(t, buf.String(), "Apply:")
}
