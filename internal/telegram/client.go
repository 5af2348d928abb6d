// Package telegram sends an optional run-summary notification.
package telegram

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// RunSummary is what gets reported when a run finishes.
type RunSummary struct {
	RunID         string
	Symbols       []string
	FilesWritten  int
	FetchFailures []string
	Duration      time.Duration
}

// Client sends notifications through the Telegram Bot API.
type Client struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewClient creates a Telegram client for the given bot token and chat.
func NewClient(botToken, chatID string) (*Client, error) {
	chatIDInt, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chat ID: %w", err)
	}
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}
	return &Client{bot: bot, chatID: chatIDInt}, nil
}

// SendSummary sends one message describing the finished run.
func (c *Client) SendSummary(s RunSummary) error {
	msg := tgbotapi.NewMessage(c.chatID, FormatSummary(s))
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := c.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send run summary: %w", err)
	}
	return nil
}

// FormatSummary renders the run summary as a Telegram markdown message.
func FormatSummary(s RunSummary) string {
	var b strings.Builder
	b.WriteString("*tickerhist run finished*\n")
	fmt.Fprintf(&b, "run: `%s`\n", s.RunID)
	fmt.Fprintf(&b, "symbols: %s\n", strings.Join(s.Symbols, ", "))
	fmt.Fprintf(&b, "files written: %d\n", s.FilesWritten)
	if len(s.FetchFailures) == 0 {
		b.WriteString("fetch failures: none\n")
	} else {
		fmt.Fprintf(&b, "fetch failures: %d\n", len(s.FetchFailures))
		for _, f := range s.FetchFailures {
			fmt.Fprintf(&b, "  - %s\n", f)
		}
	}
	fmt.Fprintf(&b, "duration: %s", s.Duration.Round(time.Millisecond))
	return b.String()
}
