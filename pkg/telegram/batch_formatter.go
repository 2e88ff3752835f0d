package telegram

import (
	"fmt"
	"strings"
	"time"
)

// UserRunResult is the per-user outcome of one batch cycle, used for the
// operator summary message.
type UserRunResult struct {
	UserEmail   string
	TickerCount int
	TotalValue  float64
	IsSuccess   bool
	Error       string
}

// FormatBatchSummary formats the outcome of one batch cycle into a Markdown
// message for the operator chat.
func FormatBatchSummary(startedAt time.Time, results []UserRunResult) string {
	var sb strings.Builder
	sb.WriteString("📬 *Portfolio Briefing Batch Complete*\n\n")
	sb.WriteString(fmt.Sprintf("🕒 Started: %s\n", startedAt.Format("2006-01-02 15:04:05")))

	success := 0
	for _, r := range results {
		if r.IsSuccess {
			success++
		}
	}
	sb.WriteString(fmt.Sprintf("👥 Users: %d (✅ %d / ❌ %d)\n\n", len(results), success, len(results)-success))

	for _, r := range results {
		if r.IsSuccess {
			sb.WriteString(fmt.Sprintf("✅ %s — %d tickers, total $%.2f\n", r.UserEmail, r.TickerCount, r.TotalValue))
		} else {
			sb.WriteString(fmt.Sprintf("❌ %s — %s\n", r.UserEmail, r.Error))
		}
	}

	return sb.String()
}

// FormatErrorAlert formats a one-line failure alert.
func FormatErrorAlert(t time.Time, message string) string {
	return fmt.Sprintf("🚨 *Alpha Seek Alert*\n🕒 %s\n%s", t.Format("2006-01-02 15:04:05"), message)
}
