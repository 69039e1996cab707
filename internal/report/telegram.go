package report

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"iisempleos/internal/dates"
	"iisempleos/internal/scraper"
)

// Telegram notifies a chat about each new posting.
type Telegram struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegram(token string, chatID int64) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("init telegram bot: %w", err)
	}
	return &Telegram{api: api, chatID: chatID}, nil
}

func (t *Telegram) SendPosting(p scraper.Posting) error {
	text := fmt.Sprintf("💼 <b>%s</b>\n🏥 %s\n", p.Title, p.Site)
	if p.Deadline != nil {
		text += fmt.Sprintf("📅 Plazo: %s\n", dates.Display(*p.Deadline))
	}
	if p.Link != "" {
		text += fmt.Sprintf("🔗 <a href=\"%s\">Ver convocatoria</a>", p.Link)
	}

	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = "HTML"
	msg.DisableWebPagePreview = true
	_, err := t.api.Send(msg)
	return err
}

func (t *Telegram) SendStatus(message string) error {
	msg := tgbotapi.NewMessage(t.chatID, "ℹ️ "+message)
	_, err := t.api.Send(msg)
	return err
}
