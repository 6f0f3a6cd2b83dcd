// internal/infra/telegram/notifier.go
package telegram

import (
	"context"
	"strings"

	"vinjerock_watcher/internal/domain/notify"
	domainTelegram "vinjerock_watcher/internal/domain/telegram"

	"gopkg.in/telebot.v3"
)

const openButtonText = "Åpne Ticketmaster"

// Notifier forwards notifications to a single Telegram chat.
type Notifier struct {
	client domainTelegram.Client
	chatID int64
}

func NewNotifier(client domainTelegram.Client, chatID int64) *Notifier {
	return &Notifier{client: client, chatID: chatID}
}

// Notify sends the title and message as one text, with an inline button when a link is set.
func (n *Notifier) Notify(ctx context.Context, msg notify.Notification) error {
	if err := ctx.Err(); err != nil {
		return &notify.NotifyError{Channel: "telegram", Err: err}
	}

	text := strings.TrimSpace(msg.Title + "\n" + msg.Message)
	options := &telebot.SendOptions{DisableWebPagePreview: true}
	if msg.OpenURL != "" {
		replyMarkup := &telebot.ReplyMarkup{}
		replyMarkup.Inline(replyMarkup.Row(replyMarkup.URL(openButtonText, msg.OpenURL)))
		options.ReplyMarkup = replyMarkup
	}

	if err := n.client.SendMessage(n.chatID, text, options); err != nil {
		return &notify.NotifyError{Channel: "telegram", Err: err}
	}
	return nil
}
