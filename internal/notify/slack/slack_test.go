package slack

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	slackapi "github.com/slack-go/slack"
	"github.com/zulandar/launchpad/internal/notify"
)

type mockClient struct {
	calls    int
	channels []string
	errs     []error // returned in order; nil once exhausted
}

func (m *mockClient) PostMessageContext(_ context.Context, channelID string, _ ...slackapi.MsgOption) (string, string, error) {
	m.calls++
	m.channels = append(m.channels, channelID)
	if len(m.errs) > 0 {
		err := m.errs[0]
		m.errs = m.errs[1:]
		return "", "", err
	}
	return channelID, "1700000000.000100", nil
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(Opts{ChannelID: "C1"}); err == nil || !strings.Contains(err.Error(), "bot token is required") {
		t.Errorf("missing token err = %v", err)
	}
	if _, err := New(Opts{BotToken: "xoxb"}); err == nil || !strings.Contains(err.Error(), "channel is required") {
		t.Errorf("missing channel err = %v", err)
	}
	n, err := New(Opts{BotToken: "xoxb", ChannelID: "C1"})
	if err != nil || n.client == nil {
		t.Errorf("New() = %v, %v; want real client", n, err)
	}
}

func TestNotify_PostsToChannel(t *testing.T) {
	mc := &mockClient{}
	n, err := New(Opts{ChannelID: "C42", Client: mc})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := n.Notify(context.Background(), notify.Event{Title: "Build CLI shipped"}); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if mc.calls != 1 || mc.channels[0] != "C42" {
		t.Errorf("calls = %d, channels = %v", mc.calls, mc.channels)
	}
}

func TestNotify_RetriesOnRateLimit(t *testing.T) {
	mc := &mockClient{errs: []error{&slackapi.RateLimitedError{RetryAfter: time.Millisecond}}}
	n, _ := New(Opts{ChannelID: "C1", Client: mc})
	if err := n.Notify(context.Background(), notify.Event{Title: "x"}); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if mc.calls != 2 {
		t.Errorf("calls = %d, want 2", mc.calls)
	}
}

func TestNotify_GivesUpOnOtherErrors(t *testing.T) {
	mc := &mockClient{errs: []error{errors.New("channel_not_found")}}
	n, _ := New(Opts{ChannelID: "C1", Client: mc})
	err := n.Notify(context.Background(), notify.Event{Title: "x"})
	if err == nil || !strings.Contains(err.Error(), "slack: post message: channel_not_found") {
		t.Errorf("err = %v", err)
	}
	if mc.calls != 1 {
		t.Errorf("calls = %d, want 1", mc.calls)
	}
}

func TestNotify_ContextCancelledDuringBackoff(t *testing.T) {
	mc := &mockClient{errs: []error{&slackapi.RateLimitedError{RetryAfter: time.Hour}}}
	n, _ := New(Opts{ChannelID: "C1", Client: mc})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := n.Notify(ctx, notify.Event{Title: "x"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestBuildMessageOptions(t *testing.T) {
	opts := buildMessageOptions(notify.Event{
		Title:  "t",
		Fields: []notify.Field{{Name: "a", Value: "1", Short: true}},
	})
	if len(opts) != 2 {
		t.Errorf("len(options) = %d, want 2 (text + attachments)", len(opts))
	}
}
