// Package notify delivers sell alerts to the configured channels. Delivery is
// best-effort: transport failures are logged, never returned to the caller.
package notify

import (
	"context"

	"options-monitor/config"
	"options-monitor/pkg/logger"

	"gopkg.in/telebot.v3"
)

type Channel string

const (
	ChannelSlack    Channel = "slack"
	ChannelEmail    Channel = "email"
	ChannelTelegram Channel = "telegram"
)

// Sender delivers one message to a single channel.
type Sender interface {
	Name() Channel
	Send(ctx context.Context, title, body string) error
}

// Dispatcher fans a message out to the requested channels.
type Dispatcher struct {
	log     *logger.Logger
	senders map[Channel]Sender
}

// NewDispatcher registers a sender per channel that has usable configuration.
// bot may be nil when no Telegram token is configured.
func NewDispatcher(cfg *config.Config, log *logger.Logger, bot *telebot.Bot) *Dispatcher {
	senders := make(map[Channel]Sender)

	if cfg.Notify.Slack.WebhookURL != "" {
		senders[ChannelSlack] = newSlackSender(cfg.Notify.Slack)
	}
	if cfg.Notify.Email.Host != "" && cfg.Notify.Email.To != "" {
		senders[ChannelEmail] = newEmailSender(cfg.Notify.Email)
	}
	if bot != nil && cfg.Notify.Telegram.ChatID != 0 {
		senders[ChannelTelegram] = newTelegramSender(cfg.Notify.Telegram, bot)
	}

	return &Dispatcher{log: log, senders: senders}
}

// Dispatch sends title/body to each requested channel. Unconfigured channels
// and transport failures are logged and swallowed.
func (d *Dispatcher) Dispatch(ctx context.Context, channels []Channel, title, body string) {
	for _, channel := range channels {
		sender, ok := d.senders[channel]
		if !ok {
			d.log.WarnContext(ctx, "Notification channel not configured",
				logger.StringField("channel", string(channel)))
			continue
		}
		if err := sender.Send(ctx, title, body); err != nil {
			d.log.ErrorContext(ctx, "Failed to send notification",
				logger.StringField("channel", string(channel)),
				logger.ErrorField(err))
		}
	}
}
