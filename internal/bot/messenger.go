package bot

import (
	"strconv"

	tghelpers "github.com/m3rciful/gymbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// Messenger performs the outbound Telegram calls of the handlers.
type Messenger interface {
	// Send posts html to the current chat and returns the message id.
	Send(c tele.Context, html string, markup *tele.ReplyMarkup) (int, error)
	// Reply posts html to the current chat without waiting for the result.
	Reply(c tele.Context, html string) error
	// Text posts plain text to the current chat.
	Text(c tele.Context, text string) error
	// Edit replaces a message sent earlier.
	Edit(c tele.Context, chatID int64, messageID int, html string, markup *tele.ReplyMarkup) error
	// ClearMarkup removes the inline keyboard of a message.
	ClearMarkup(c tele.Context, chatID int64, messageID int) error
	// SendTo posts html to another chat.
	SendTo(c tele.Context, chatID int64, html string) error
}

type telegramMessenger struct{}

func (telegramMessenger) Send(c tele.Context, html string, markup *tele.ReplyMarkup) (int, error) {
	msg, err := tghelpers.SendHTMLNow(c, html, markup)
	if err != nil {
		return 0, err
	}
	return msg.ID, nil
}

func (telegramMessenger) Reply(c tele.Context, html string) error {
	return tghelpers.SendHTML(c, html)
}

func (telegramMessenger) Text(c tele.Context, text string) error {
	return tghelpers.SendText(c, text)
}

func (telegramMessenger) Edit(c tele.Context, chatID int64, messageID int, html string, markup *tele.ReplyMarkup) error {
	return tghelpers.EditHTML(c, chatID, messageID, html, markup)
}

func (telegramMessenger) ClearMarkup(c tele.Context, chatID int64, messageID int) error {
	msg := tele.StoredMessage{MessageID: strconv.Itoa(messageID), ChatID: chatID}
	_, err := c.Bot().EditReplyMarkup(msg, nil)
	return err
}

func (telegramMessenger) SendTo(c tele.Context, chatID int64, html string) error {
	return tghelpers.SendHTMLTo(c, chatID, html)
}
