package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/greyCat08/LLMAgentsForPM/internal/domain"
)

// Telegram posts a short run report to a single chat.
type Telegram struct {
	api    *bot.Bot
	chatID int64
	log    *slog.Logger
}

func NewTelegram(token string, chatID int64, log *slog.Logger, opts ...bot.Option) (*Telegram, error) {
	token = strings.TrimSpace(token)

	api, err := bot.New(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("create bot API: %w", err)
	}

	return &Telegram{
		api:    api,
		chatID: chatID,
		log:    log,
	}, nil
}

func (t *Telegram) Notify(ctx context.Context, report domain.RunReport) error {
	text := FormatReport(report)

	msg, err := t.api.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    t.chatID,
		Text:      text,
		ParseMode: models.ParseModeMarkdown,
	})
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	t.log.InfoContext(ctx, "Run report is sent",
		"chatID", t.chatID,
		"messageID", msg.ID,
		"count", report.Count)

	return nil
}

// FormatReport renders a MarkdownV2 message with per-category counts in
// classification priority order.
func FormatReport(report domain.RunReport) string {
	var b strings.Builder

	b.WriteString("*")
	b.WriteString(escapeMarkdownV2("Reviews are classified"))
	b.WriteString("*\n\n")

	b.WriteString(escapeMarkdownV2("Total: " + strconv.Itoa(report.Count)))
	b.WriteString("\n")

	for _, category := range domain.Categories() {
		count := report.CategoryCounts[category]
		if count == 0 {
			continue
		}

		b.WriteString(escapeMarkdownV2(fmt.Sprintf("%s: %d", category, count)))
		b.WriteString("\n")
	}

	if report.UnstructuredCount > 0 {
		b.WriteString(escapeMarkdownV2(fmt.Sprintf("Unstructured summaries: %d", report.UnstructuredCount)))
		b.WriteString("\n")
	}

	if report.OutputPath != "" {
		b.WriteString("\n")
		b.WriteString(escapeMarkdownV2("Output: " + report.OutputPath))
		b.WriteString("\n")
	}

	if duration := report.Duration(); duration > 0 {
		b.WriteString(escapeMarkdownV2("Took: " + duration.Round(time.Second).String()))
	}

	return strings.TrimRight(b.String(), "\n")
}
