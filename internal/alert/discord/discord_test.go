package discord

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/zulandar/laneyard/internal/alert"
)

// --- Mock Discord session ---

type mockSession struct {
	mu       sync.Mutex
	sent     []sentMessage
	errs     []error
	attempts int
}

type sentMessage struct {
	channelID string
	data      *discordgo.MessageSend
}

func (m *mockSession) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts++
	if len(m.errs) > 0 {
		err := m.errs[0]
		m.errs = m.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	m.sent = append(m.sent, sentMessage{channelID: channelID, data: data})
	return &discordgo.Message{ID: "msg-1", ChannelID: channelID}, nil
}

func rateLimited() error {
	return &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusTooManyRequests}}
}

func newTestNotifier(t *testing.T, sess *mockSession) *Notifier {
	t.Helper()
	n, err := New(Opts{ChannelID: "chan-1", Session: sess})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	n.baseBackoff = time.Millisecond
	n.maxBackoff = 2 * time.Millisecond
	return n
}

func testMessage() alert.Message {
	return alert.Message{
		Text: "Overbooking: 1 lane(s)",
		Events: []alert.Event{{
			Title:  "Lane L1 is overbooked",
			Body:   "2025-01-15: 1100 of 1000 allocated (110.00%)",
			Color:  "#e53935",
			Fields: []alert.Field{{Name: "Peak", Value: "110.00% on 2025-01-15", Short: true}},
		}},
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(Opts{ChannelID: "c"}); err == nil {
		t.Error("expected error without token")
	}
	if _, err := New(Opts{BotToken: "tok"}); err == nil {
		t.Error("expected error without channel")
	}
	n, err := New(Opts{BotToken: "tok", ChannelID: "c"})
	if err != nil {
		t.Fatalf("New with token: %v", err)
	}
	if n.Name() != "discord" {
		t.Errorf("Name = %q", n.Name())
	}
}

func TestSend(t *testing.T) {
	sess := &mockSession{}
	n := newTestNotifier(t, sess)
	if err := n.Send(context.Background(), testMessage()); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(sess.sent) != 1 {
		t.Fatalf("sent = %d, want 1", len(sess.sent))
	}
	data := sess.sent[0].data
	if data.Content != "Overbooking: 1 lane(s)" || len(data.Embeds) != 1 {
		t.Fatalf("data = %+v", data)
	}
	embed := data.Embeds[0]
	if embed.Color != 0xe53935 || embed.Title != "Lane L1 is overbooked" {
		t.Errorf("embed = %+v", embed)
	}
	if len(embed.Fields) != 1 || !embed.Fields[0].Inline {
		t.Errorf("fields = %+v", embed.Fields)
	}
}

func TestSend_RetriesRateLimit(t *testing.T) {
	sess := &mockSession{errs: []error{rateLimited(), rateLimited(), nil}}
	n := newTestNotifier(t, sess)
	if err := n.Send(context.Background(), testMessage()); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if sess.attempts != 3 {
		t.Errorf("attempts = %d, want 3", sess.attempts)
	}
}

func TestSend_GivesUpAfterMaxRetries(t *testing.T) {
	sess := &mockSession{errs: []error{rateLimited(), rateLimited(), rateLimited(), rateLimited(), rateLimited()}}
	n := newTestNotifier(t, sess)
	if err := n.Send(context.Background(), testMessage()); err == nil {
		t.Fatal("expected error")
	}
	if sess.attempts != maxRetries+1 {
		t.Errorf("attempts = %d, want %d", sess.attempts, maxRetries+1)
	}
}

func TestSend_OtherErrorsNotRetried(t *testing.T) {
	sess := &mockSession{errs: []error{errors.New("missing access")}}
	n := newTestNotifier(t, sess)
	if err := n.Send(context.Background(), testMessage()); err == nil {
		t.Fatal("expected error")
	}
	if sess.attempts != 1 {
		t.Errorf("attempts = %d, want 1", sess.attempts)
	}
}

func TestParseHexColor(t *testing.T) {
	tests := map[string]int{
		"#e53935": 0xe53935,
		"36A64F":  0x36a64f,
		"":        0,
	}
	for in, want := range tests {
		if got := parseHexColor(in); got != want {
			t.Errorf("parseHexColor(%q) = %#x, want %#x", in, got, want)
		}
	}
}
