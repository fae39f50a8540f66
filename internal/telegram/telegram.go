// Package telegram pushes bot lifecycle and order fill notifications to a
// configured chat. The whole package is optional: a nil *Notifier is safe
// to call.
package telegram

import (
	"net/http"
	"time"

	"github.com/spf13/cast"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"github.com/treansai/traidano/internal/config"
)

const httpTimeout = 10 * time.Second

type Notifier struct {
	logger *zap.Logger
	chatID int64
	client *tele.Bot
}

func NewNotifier(logger *zap.Logger, conf config.TelegramConf) (*Notifier, error) {
	client, err := tele.NewBot(tele.Settings{
		ParseMode: tele.ModeMarkdown,
		Token:     conf.Token,
		Client:    &http.Client{Timeout: httpTimeout},
	})
	if err != nil {
		return nil, err
	}

	return &Notifier{
		logger: logger,
		chatID: cast.ToInt64(conf.ChatID),
		client: client,
	}, nil
}

// Notify sends a markdown message to the configured chat. Errors are
// logged, not returned; notifications are best effort.
func (n *Notifier) Notify(msg string) {
	if n == nil || n.chatID == 0 {
		return
	}
	_, err := n.client.Send(tele.ChatID(n.chatID), msg, &tele.SendOptions{ParseMode: tele.ModeMarkdown})
	if err != nil {
		n.logger.Warn("telegram notify failed", zap.Error(err))
	}
}
