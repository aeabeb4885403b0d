package notify

import (
	"context"
	"fmt"

	"options-monitor/config"

	"gopkg.in/telebot.v3"
)

type telegramSender struct {
	cfg config.TelegramConfig
	bot *telebot.Bot
}

func newTelegramSender(cfg config.TelegramConfig, bot *telebot.Bot) Sender {
	return &telegramSender{cfg: cfg, bot: bot}
}

func (s *telegramSender) Name() Channel {
	return ChannelTelegram
}

func (s *telegramSender) Send(ctx context.Context, title, body string) error {
	text := fmt.Sprintf("%s\n%s", title, body)
	if _, err := s.bot.Send(telebot.ChatID(s.cfg.ChatID), text); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}
