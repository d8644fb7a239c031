package notifier

import (
	"context"

	"github.com/charmbracelet/log"
)

// Notification tells one player about a division change.
type Notification struct {
	PlayerID    string
	PlayerName  string
	SlackUserID string
	Title       string
	Body        string
	Promotion   bool
}

// MatchSummary describes a freshly rated match for the club channel.
type MatchSummary struct {
	MatchID    string
	Score      string
	Winners    []string
	Losers     []string
	WinnerGain int
	LoserLoss  int
}

// Notifier defines a high-level interface for sending notifications about rating events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	SendDivisionChange(ctx context.Context, n Notification, dryRun bool) error
	SendMatchSummary(ctx context.Context, s MatchSummary, dryRun bool) error
}

var _ Notifier = (*LogNotifier)(nil)

// LogNotifier writes notifications to the log. It is used when no Slack
// workspace is configured.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (l *LogNotifier) SendDivisionChange(_ context.Context, n Notification, dryRun bool) error {
	log.Info("Division change", "playerID", n.PlayerID, "title", n.Title, "body", n.Body, "promotion", n.Promotion, "dryRun", dryRun)
	return nil
}

func (l *LogNotifier) SendMatchSummary(_ context.Context, s MatchSummary, dryRun bool) error {
	log.Info("Match rated", "matchID", s.MatchID, "score", s.Score, "winners", s.Winners, "losers", s.Losers, "gain", s.WinnerGain, "loss", s.LoserLoss, "dryRun", dryRun)
	return nil
}
