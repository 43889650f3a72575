package delivery

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"housing-agent/utils"
)

func newTestLogger() *utils.Logger { return utils.NewLoggerTo(io.Discard, io.Discard) }

func TestSplitMessage(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		max       int
		wantParts int
	}{
		{"fits", "short digest", 100, 1},
		{"line boundaries", "aaaa\nbbbb\ncccc", 10, 2},
		{"long line cut", strings.Repeat("x", 25), 10, 3},
		{"multibyte", strings.Repeat("ă", 12), 5, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parts := splitMessage(tt.text, tt.max)
			if len(parts) != tt.wantParts {
				t.Fatalf("got %d parts %q; want %d", len(parts), parts, tt.wantParts)
			}
			var joined int
			for _, p := range parts {
				if n := runeLen(p); n > tt.max {
					t.Errorf("part has %d runes; max %d", n, tt.max)
				}
				joined += runeLen(strings.ReplaceAll(p, "\n", ""))
			}
			if want := runeLen(strings.ReplaceAll(tt.text, "\n", "")); joined != want {
				t.Errorf("lost content: %d runes; want %d", joined, want)
			}
		})
	}
}

func TestEmailRequiresCredentials(t *testing.T) {
	if _, err := NewEmail(EmailOptions{User: "a@example.com"}, newTestLogger()); err == nil {
		t.Error("expected error without password")
	}
}

func TestEmailMessage(t *testing.T) {
	e, err := NewEmail(EmailOptions{User: "agent@example.com", Password: "secret"}, newTestLogger())
	if err != nil {
		t.Fatal(err)
	}
	if e.opts.To != "agent@example.com" || e.opts.Port != 465 || e.opts.Host != "smtp.gmail.com" {
		t.Errorf("defaults not applied: %+v", e.opts)
	}

	msg, err := e.message("Bucharest Housing Digest - 2025-05-10", "Hi\nA & B")
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if _, err := msg.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"agent@example.com", "Subject:", "text/plain", "text/html", "Hi<br>A &amp; B"} {
		if !strings.Contains(out, want) {
			t.Errorf("message missing %q", want)
		}
	}
}

func TestTelegramDeliverSplitsDigest(t *testing.T) {
	var sent atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/getMe"):
			io.WriteString(w, `{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"Digest","username":"digest_bot"}}`)
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			sent.Add(1)
			io.WriteString(w, `{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":42,"type":"private"},"text":"ok"}}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	tg, err := NewTelegram("123:abc", 42, srv.URL+"/bot%s/%s", newTestLogger())
	if err != nil {
		t.Fatalf("NewTelegram: %v", err)
	}

	body := strings.Repeat(strings.Repeat("y", 99)+"\n", 50)
	if err := tg.Deliver(context.Background(), "Bucharest Housing Digest - 2025-05-10", body); err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if got := sent.Load(); got != 2 {
		t.Errorf("sent %d messages; want 2", got)
	}
}

func TestTelegramRequiresChat(t *testing.T) {
	if _, err := NewTelegram("123:abc", 0, "", newTestLogger()); err == nil {
		t.Error("expected error without chat id")
	}
}

func TestWriterDeliver(t *testing.T) {
	var buf bytes.Buffer
	if err := NewWriter(&buf).Deliver(context.Background(), "Subj", "Body"); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "Subject: Subj\n\nBody\n" {
		t.Errorf("output = %q", buf.String())
	}
}
