package slack

import (
	"context"
	"errors"
	"testing"

	"github.com/mauv0809/padel-ladder/internal/metrics"
	"github.com/mauv0809/padel-ladder/internal/notifier"
	slackapi "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSlackAPI is a mock implementation of the parts of the slack.Client that we use.
type mockSlackAPI struct {
	postMessageContextFunc func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

func (m *mockSlackAPI) PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
	if m.postMessageContextFunc != nil {
		return m.postMessageContextFunc(ctx, channelID, options...)
	}
	return "C12345", "123456789.12345", nil
}

func TestSendMessage_DryRun(t *testing.T) {
	m := metrics.NewMock()
	// Pass nil for the api, as it shouldn't be called in dry-run mode.
	n := NewNotifierWithAPI(nil, "C123", m)

	_, _, err := n.sendMessage(context.Background(), slackapi.NewBlockMessage(), true)
	require.NoError(t, err)
	assert.Equal(t, 0, m.NotificationsSent())
}

func TestSendMessage_Success(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			assert.Equal(t, "C123", channelID)
			return "C123", "ts123", nil
		},
	}

	m := metrics.NewMock()
	n := NewNotifierWithAPI(api, "C123", m)

	message := slackapi.NewBlockMessage(slackapi.NewSectionBlock(slackapi.NewTextBlockObject("plain_text", "hello", false, false), nil, nil))
	_, _, err := n.sendMessage(context.Background(), message, false)

	require.NoError(t, err)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called")
	assert.Equal(t, 1, m.NotificationsSent())
	assert.Equal(t, 0, m.NotificationsFailed())
}

func TestSendMessage_Failure(t *testing.T) {
	expectedErr := errors.New("slack API is down")
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			return "", "", expectedErr
		},
	}

	m := metrics.NewMock()
	n := NewNotifierWithAPI(api, "C123", m)

	_, _, err := n.sendMessage(context.Background(), slackapi.NewBlockMessage(), false)

	require.Error(t, err)
	assert.ErrorIs(t, err, expectedErr)
	assert.Equal(t, 0, m.NotificationsSent())
	assert.Equal(t, 1, m.NotificationsFailed())
}

func TestSendDivisionChange_CallsSender(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			return "C123", "ts123", nil
		},
	}
	n := NewNotifierWithAPI(api, "C123", metrics.NewMock())

	err := n.SendDivisionChange(context.Background(), notifier.Notification{PlayerID: "p1", Title: "Division change", Body: "You are now Court Warrior with 250 points."}, false)
	require.NoError(t, err)
	assert.True(t, postMessageCalled)
}

func TestFormatDivisionChange(t *testing.T) {
	t.Run("mentions the linked slack user", func(t *testing.T) {
		msg := formatDivisionChange(notifier.Notification{
			PlayerID:    "p1",
			PlayerName:  "Alice",
			SlackUserID: "U1",
			Title:       "Division promotion! 🎉",
			Body:        "Congratulations! You are now Court Warrior with 260 points!",
			Promotion:   true,
		})
		require.Len(t, msg.Blocks.BlockSet, 2)

		header, ok := msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
		require.True(t, ok)
		assert.Equal(t, "Division promotion! 🎉", header.Text.Text)

		section, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
		require.True(t, ok)
		assert.Equal(t, "*<@U1>*: Congratulations! You are now Court Warrior with 260 points!", section.Text.Text)
	})

	t.Run("falls back to the player name then id", func(t *testing.T) {
		msg := formatDivisionChange(notifier.Notification{PlayerName: "Bob", Body: "x"})
		section := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
		assert.Equal(t, "*Bob*: x", section.Text.Text)

		msg = formatDivisionChange(notifier.Notification{PlayerID: "p9", Body: "x"})
		section = msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
		assert.Equal(t, "*p9*: x", section.Text.Text)
	})
}

func TestFormatMatchSummary(t *testing.T) {
	msg := formatMatchSummary(notifier.MatchSummary{
		MatchID:    "m1",
		Score:      "6-4, 6-3",
		Winners:    []string{"Alice", "Bob"},
		Losers:     []string{"Carol", "Dave"},
		WinnerGain: 131,
		LoserLoss:  -131,
	})
	require.Len(t, msg.Blocks.BlockSet, 3)

	result, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Equal(t, "Alice & Bob beat Carol & Dave\nScore: 6-4, 6-3", result.Text.Text)

	contextBlock, ok := msg.Blocks.BlockSet[2].(*slackapi.ContextBlock)
	require.True(t, ok)
	require.Len(t, contextBlock.ContextElements.Elements, 1)
	points := contextBlock.ContextElements.Elements[0].(*slackapi.TextBlockObject)
	assert.Equal(t, "Winners +131 | Losers -131", points.Text)
}
