package slack

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	slackapi "github.com/slack-go/slack"
	"github.com/zulandar/laneyard/internal/alert"
)

// --- Mock Slack client ---

type mockSlackClient struct {
	mu       sync.Mutex
	posted   []postedMessage
	errs     []error // returned in order, one per call
	attempts int
}

type postedMessage struct {
	channelID string
	options   []slackapi.MsgOption
}

func (m *mockSlackClient) PostMessage(channelID string, options ...slackapi.MsgOption) (string, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts++
	if len(m.errs) > 0 {
		err := m.errs[0]
		m.errs = m.errs[1:]
		if err != nil {
			return "", "", err
		}
	}
	m.posted = append(m.posted, postedMessage{channelID: channelID, options: options})
	return channelID, "1234567890.123456", nil
}

func testMessage() alert.Message {
	return alert.Message{
		Text: "Overbooking: 1 lane(s)",
		Events: []alert.Event{{
			Title: "Lane L1 is overbooked",
			Body:  "2025-01-15: 1100 of 1000 allocated (110.00%)",
			Color: alert.ColorOverbooked,
			Fields: []alert.Field{
				{Name: "Overbooked days", Value: "1", Short: true},
			},
		}},
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(Opts{ChannelID: "C1"}); err == nil {
		t.Error("expected error without bot token")
	}
	if _, err := New(Opts{BotToken: "xoxb-test"}); err == nil {
		t.Error("expected error without channel")
	}
	n, err := New(Opts{BotToken: "xoxb-test", ChannelID: "C1"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if n.Name() != "slack" {
		t.Errorf("Name = %q", n.Name())
	}
}

func TestSend(t *testing.T) {
	mock := &mockSlackClient{}
	n, err := New(Opts{ChannelID: "C_ALERTS", Client: mock})
	if err != nil {
		t.Fatal(err)
	}
	if err := n.Send(context.Background(), testMessage()); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(mock.posted) != 1 {
		t.Fatalf("posted %d messages, want 1", len(mock.posted))
	}
	if mock.posted[0].channelID != "C_ALERTS" {
		t.Errorf("channel = %q", mock.posted[0].channelID)
	}
	// Text plus attachments.
	if len(mock.posted[0].options) != 2 {
		t.Errorf("options = %d, want 2", len(mock.posted[0].options))
	}
}

func TestSend_TextOnly(t *testing.T) {
	opts := buildMessageOptions(alert.Message{Text: "hello"})
	if len(opts) != 1 {
		t.Errorf("options = %d, want 1", len(opts))
	}
}

func TestSend_NonRateLimitErrorIsNotRetried(t *testing.T) {
	mock := &mockSlackClient{errs: []error{errors.New("channel_not_found")}}
	n, _ := New(Opts{ChannelID: "C1", Client: mock})
	if err := n.Send(context.Background(), testMessage()); err == nil {
		t.Fatal("expected error")
	}
	if mock.attempts != 1 {
		t.Errorf("attempts = %d, want 1", mock.attempts)
	}
}

func TestSend_RetriesRateLimit(t *testing.T) {
	mock := &mockSlackClient{errs: []error{&slackapi.RateLimitedError{RetryAfter: time.Millisecond}, nil}}
	n, _ := New(Opts{ChannelID: "C1", Client: mock})
	if err := n.Send(context.Background(), testMessage()); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if mock.attempts != 2 || len(mock.posted) != 1 {
		t.Errorf("attempts = %d posted = %d, want 2 and 1", mock.attempts, len(mock.posted))
	}
}

func TestRetryOnRateLimit_GivesUp(t *testing.T) {
	calls := 0
	err := retryOnRateLimit(context.Background(), func() error {
		calls++
		return &slackapi.RateLimitedError{RetryAfter: time.Millisecond}
	})
	if err == nil {
		t.Fatal("expected error after retries")
	}
	if calls != maxRetries+1 {
		t.Errorf("calls = %d, want %d", calls, maxRetries+1)
	}
}

func TestRetryOnRateLimit_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := retryOnRateLimit(ctx, func() error {
		return &slackapi.RateLimitedError{RetryAfter: time.Hour}
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestEventToAttachment(t *testing.T) {
	att := eventToAttachment(testMessage().Events[0])
	if att.Title != "Lane L1 is overbooked" || att.Color != alert.ColorOverbooked || att.Fallback != att.Title {
		t.Errorf("attachment = %+v", att)
	}
	if len(att.Fields) != 1 || att.Fields[0].Title != "Overbooked days" || !att.Fields[0].Short {
		t.Errorf("fields = %+v", att.Fields)
	}
}
