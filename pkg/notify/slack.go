package notify

import (
	"context"
	"fmt"
	"net/http"

	"options-monitor/config"

	"github.com/go-resty/resty/v2"
)

type slackSender struct {
	cfg    config.SlackConfig
	client *resty.Client
}

func newSlackSender(cfg config.SlackConfig) Sender {
	return &slackSender{
		cfg:    cfg,
		client: resty.New().SetTimeout(cfg.Timeout),
	}
}

func (s *slackSender) Name() Channel {
	return ChannelSlack
}

func (s *slackSender) Send(ctx context.Context, title, body string) error {
	payload := map[string]string{
		"text": fmt.Sprintf("*%s*\n```%s```", title, body),
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(payload).
		Post(s.cfg.WebhookURL)
	if err != nil {
		return fmt.Errorf("slack webhook: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("slack webhook returned status %d", resp.StatusCode())
	}
	return nil
}
