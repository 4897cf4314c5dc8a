package helpers

import (
	"errors"
	"log/slog"
	"strconv"
	"sync/atomic"

	"github.com/m3rciful/gymbot/core/logger"
	"github.com/m3rciful/gymbot/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

var globalDispatcher atomic.Pointer[sender.Dispatcher]

// SetDispatcher wires the asynchronous sender used by helper functions.
func SetDispatcher(d *sender.Dispatcher) {
	globalDispatcher.Store(d)
}

func sendAsync(c tele.Context, action, endpoint string, run func() error) error {
	disp := globalDispatcher.Load()
	if disp == nil {
		return run()
	}

	ctx := BuildContext(c)
	if err := disp.Enqueue(ctx, action, endpoint, run); err != nil {
		if errors.Is(err, sender.ErrQueueFull) || errors.Is(err, sender.ErrQueueClosed) {
			logger.Warn(ctx, "tg.sender", "queue.fallback",
				slog.String("action", action),
				slog.String("endpoint", endpoint),
				slog.String("err", err.Error()),
			)
			return run()
		}
		return err
	}
	return nil
}

func htmlOptions(markup []*tele.ReplyMarkup) *tele.SendOptions {
	opts := &tele.SendOptions{ParseMode: tele.ModeHTML, DisableWebPagePreview: true}
	if len(markup) > 0 {
		opts.ReplyMarkup = markup[0]
	}
	return opts
}

// SendText sends plain text to the current chat through the dispatcher.
func SendText(c tele.Context, text string, opts ...*tele.SendOptions) error {
	var sendOpts *tele.SendOptions
	if len(opts) > 0 {
		sendOpts = opts[0]
	}
	return sendAsync(c, "send.text", "sendMessage", func() error {
		if sendOpts != nil {
			return c.Send(text, sendOpts)
		}
		return c.Send(text)
	})
}

// SendHTML sends an HTML message to the current chat through the dispatcher.
func SendHTML(c tele.Context, text string, markup ...*tele.ReplyMarkup) error {
	return SendText(c, text, htmlOptions(markup))
}

// SendHTMLNow sends an HTML message synchronously and returns it, for
// callers that need the message id.
func SendHTMLNow(c tele.Context, text string, markup ...*tele.ReplyMarkup) (*tele.Message, error) {
	return c.Bot().Send(c.Recipient(), text, htmlOptions(markup))
}

// SendHTMLTo sends an HTML message to another chat through the dispatcher.
func SendHTMLTo(c tele.Context, chatID int64, text string) error {
	return sendAsync(c, "send.forward", "sendMessage", func() error {
		_, err := c.Bot().Send(tele.ChatID(chatID), text, htmlOptions(nil))
		return err
	})
}

// EditHTML replaces text and markup of a message sent earlier to chatID.
func EditHTML(c tele.Context, chatID int64, messageID int, text string, markup ...*tele.ReplyMarkup) error {
	msg := tele.StoredMessage{MessageID: strconv.Itoa(messageID), ChatID: chatID}
	_, err := c.Bot().Edit(msg, text, htmlOptions(markup))
	return err
}
