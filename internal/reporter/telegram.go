package reporter

import (
	"fmt"
	"html"
	"strings"

	"go-easyapply-automation/internal/scraper"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram pushes summaries and review notices to a chat. Skips are not sent.
type Telegram struct {
	bot    sender
	chatID int64
}

func NewTelegram(token string, chatID int64) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}
	return &Telegram{bot: bot, chatID: chatID}, nil
}

func (t *Telegram) SendMessage(text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	_, err := t.bot.Send(msg)
	return err
}

func (t *Telegram) JobSkipped(job scraper.JobURL, reason string) {}

func (t *Telegram) BatchSummary(s Summary) error {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 <b>%s</b>\n", html.EscapeString(s.Title))
	for _, st := range s.Stats {
		fmt.Fprintf(&b, "• %s: %d\n", html.EscapeString(st.Name), st.Value)
	}
	if s.Path != "" {
		fmt.Fprintf(&b, "📁 <code>%s</code>\n", html.EscapeString(s.Path))
	}
	return t.SendMessage(b.String())
}

func (t *Telegram) AwaitingReview(r Review) error {
	var b strings.Builder
	fmt.Fprintf(&b, "👀 <b>Ready for review</b> (%s)\n", html.EscapeString(r.Provider))
	fmt.Fprintf(&b, "✅ %d filled, ⏭ %d skipped, ❌ %d failed\n", r.Done, r.Skipped, r.Failed)
	if r.Err != "" {
		fmt.Fprintf(&b, "⚠️ %s\n", html.EscapeString(r.Err))
	}
	fmt.Fprintf(&b, "🔗 <a href=\"%s\">Open application</a>", html.EscapeString(r.Job.URL))

	msg := tgbotapi.NewMessage(t.chatID, b.String())
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonURL("🔗 View Job", r.Job.URL)),
	)
	_, err := t.bot.Send(msg)
	return err
}
