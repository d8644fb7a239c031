package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/padel-ladder/internal/metrics"
	"github.com/mauv0809/padel-ladder/internal/notifier"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier posts rating events to a Slack channel.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	return NewNotifierWithAPI(slack.New(token), channelID, metrics)
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(ctx context.Context, message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)
	if err != nil {
		s.metrics.IncNotificationFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncNotificationSent()
	log.Debug("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

// SendDivisionChange announces a promotion or relegation in the club channel.
func (s *Notifier) SendDivisionChange(ctx context.Context, n notifier.Notification, dryRun bool) error {
	_, _, err := s.sendMessage(ctx, formatDivisionChange(n), dryRun)
	return err
}

// SendMatchSummary posts the rating outcome of a match.
func (s *Notifier) SendMatchSummary(ctx context.Context, summary notifier.MatchSummary, dryRun bool) error {
	_, _, err := s.sendMessage(ctx, formatMatchSummary(summary), dryRun)
	return err
}

func formatDivisionChange(n notifier.Notification) slack.Message {
	blocks := make([]slack.Block, 0, 2)
	blocks = append(blocks, slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", n.Title, true, false)))

	who := n.PlayerName
	if n.SlackUserID != "" {
		who = fmt.Sprintf("<@%s>", n.SlackUserID)
	}
	if who == "" {
		who = n.PlayerID
	}
	text := fmt.Sprintf("*%s*: %s", who, n.Body)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil))

	return slack.NewBlockMessage(blocks...)
}

func formatMatchSummary(m notifier.MatchSummary) slack.Message {
	blocks := make([]slack.Block, 0, 3)
	blocks = append(blocks, slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", "🎾 Match rated! 🎾", true, false)))

	result := fmt.Sprintf("%s beat %s", strings.Join(m.Winners, " & "), strings.Join(m.Losers, " & "))
	if m.Score != "" {
		result += fmt.Sprintf("\nScore: %s", m.Score)
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", result, true, false), nil, nil))

	points := fmt.Sprintf("Winners %+d | Losers %+d", m.WinnerGain, m.LoserLoss)
	blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", points, true, false)))

	return slack.NewBlockMessage(blocks...)
}
