package telegram

import "gopkg.in/telebot.v3"

// Client defines an interface for sending messages to a Telegram chat.
// This keeps the notifier independent of the bot library's connection handling.
type Client interface {
	SendMessage(chatID int64, text string, options *telebot.SendOptions) error
}
