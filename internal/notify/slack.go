package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/slack-go/slack"
)

// SlackNotifier posts notifications to a Slack channel.
type SlackNotifier struct {
	client  *slack.Client
	channel string
}

// SlackConfig holds configuration for Slack notifications.
type SlackConfig struct {
	BotToken string
	Channel  string // Channel ID or user ID for a DM
	APIURL   string // Override for tests, must end in "/"
}

// NewSlackNotifier creates a new Slack notifier.
func NewSlackNotifier(cfg SlackConfig) *SlackNotifier {
	var opts []slack.Option
	if cfg.APIURL != "" {
		opts = append(opts, slack.OptionAPIURL(cfg.APIURL))
	}

	return &SlackNotifier{
		client:  slack.New(cfg.BotToken, opts...),
		channel: cfg.Channel,
	}
}

// Send posts the notification with the subject in bold above the body.
func (s *SlackNotifier) Send(ctx context.Context, notification Notification) error {
	text := fmt.Sprintf("*%s*\n%s", notification.Subject, notification.Body)

	channel, ts, err := s.client.PostMessageContext(ctx, s.channel,
		slack.MsgOptionText(text, false),
		slack.MsgOptionPostMessageParameters(slack.PostMessageParameters{
			UnfurlLinks: false,
			UnfurlMedia: false,
		}),
	)
	if err != nil {
		return fmt.Errorf("post slack message: %w", err)
	}

	slog.Debug("sent slack notification", "channel", channel, "ts", ts)
	return nil
}
