package delivery

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"housing-agent/utils"
)

// maxMessageRunes is Telegram's limit on the text of one message.
const maxMessageRunes = 4096

// Telegram posts the digest to one chat, split over as many messages as needed.
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger *utils.Logger
}

// NewTelegram authorizes the bot. endpoint overrides the Bot API URL format
// and is empty in production.
func NewTelegram(token string, chatID int64, endpoint string, logger *utils.Logger) (*Telegram, error) {
	if token == "" || chatID == 0 {
		return nil, fmt.Errorf("telegram: TELEGRAM_TOKEN and TELEGRAM_CHAT_ID are required")
	}
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	bot, err := tgbotapi.NewBotAPIWithAPIEndpoint(token, endpoint)
	if err != nil {
		return nil, fmt.Errorf("telegram: authorize: %w", err)
	}
	logger.Info("[telegram] Authorized on account %s", bot.Self.UserName)
	return &Telegram{bot: bot, chatID: chatID, logger: logger}, nil
}

// Deliver implements services.Deliverer.
func (t *Telegram) Deliver(ctx context.Context, subject, body string) error {
	parts := splitMessage(subject+"\n\n"+body, maxMessageRunes)
	for i, part := range parts {
		if err := ctx.Err(); err != nil {
			return err
		}
		msg := tgbotapi.NewMessage(t.chatID, part)
		msg.DisableWebPagePreview = true
		if _, err := t.bot.Send(msg); err != nil {
			return fmt.Errorf("telegram: send part %d/%d: %w", i+1, len(parts), err)
		}
	}
	t.logger.Info("[telegram] Digest sent to chat %d in %d messages", t.chatID, len(parts))
	return nil
}

// splitMessage splits text into chunks of at most maxRunes runes, breaking
// on line boundaries where possible.
func splitMessage(text string, maxRunes int) []string {
	if runeLen(text) <= maxRunes {
		return []string{text}
	}

	var parts []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		if currentLen > 0 {
			parts = append(parts, strings.TrimSuffix(current.String(), "\n"))
			current.Reset()
			currentLen = 0
		}
	}

	for _, line := range strings.Split(text, "\n") {
		lineLen := runeLen(line)
		if currentLen+lineLen+1 > maxRunes {
			flush()
			// A single line longer than the limit is cut.
			for r := []rune(line); len(r) > maxRunes; r = r[maxRunes:] {
				parts = append(parts, string(r[:maxRunes]))
				line = string(r[maxRunes:])
			}
			lineLen = runeLen(line)
		}
		current.WriteString(line)
		current.WriteString("\n")
		currentLen += lineLen + 1
	}
	flush()
	return parts
}

func runeLen(s string) int { return len([]rune(s)) }
