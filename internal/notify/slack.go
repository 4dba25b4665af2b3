// Package notify sends the scan summary to Slack. The notification is an
// optional side channel; failures surface as warnings, never as pipeline
// errors.
package notify

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/slack-go/slack"

	"scangate/pkg/shared/config"
)

// Token environment variables, probed in order.
var slackTokenVars = []string{"SCANGATE_SLACK_TOKEN", "SLACK_TOKEN"}

// SlackNotifier posts the summary rendering as a single Slack message.
type SlackNotifier struct {
	client  *slack.Client
	channel string
	logger  hclog.Logger
}

// NewSlackNotifier builds a notifier from the slack config section. It
// returns nil without error when no channel is configured or no token is
// present; the pipeline treats a nil notifier as "disabled".
func NewSlackNotifier(cfg *config.Config, logger hclog.Logger) *SlackNotifier {
	if cfg.Slack.Channel == "" {
		return nil
	}

	var token string
	for _, name := range slackTokenVars {
		if token = os.Getenv(name); token != "" {
			break
		}
	}
	if token == "" {
		logger.Warn("slack channel configured but no token found in environment; notification disabled",
			"channel", cfg.Slack.Channel)
		return nil
	}

	return &SlackNotifier{
		client:  slack.New(token),
		channel: cfg.Slack.Channel,
		logger:  logger,
	}
}

// Notify posts header and summary blocks to the configured channel.
func (n *SlackNotifier) Notify(imageRef, summary string) error {
	header := slack.NewSectionBlock(
		slack.NewTextBlockObject(slack.MarkdownType,
			fmt.Sprintf("Container image scan results for `%s`", imageRef), false, false),
		nil, nil)
	body := slack.NewSectionBlock(
		slack.NewTextBlockObject(slack.MarkdownType,
			fmt.Sprintf("```%s```", summary), false, false),
		nil, nil)

	channelID, timestamp, err := n.client.PostMessage(n.channel,
		slack.MsgOptionBlocks(header, body, slack.NewDividerBlock()))
	if err != nil {
		return fmt.Errorf("failed to post slack message to %q: %w", n.channel, err)
	}
	n.logger.Info("slack notification sent", "channel", channelID, "timestamp", timestamp)

	return nil
}
