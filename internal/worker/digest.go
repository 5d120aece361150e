// Package worker は定期実行ジョブ(超過レポート・期限アラート・保持期間チェック)を提供します。
package worker

import (
	"fmt"
	"strings"
	"time"

	"github.com/stafftrack/stafftrack/internal/core/statuslog"
)

const digestTimeLayout = "2006-01-02 15:04:05"

// BuildOverdueReport は予定終了時刻を超過したオープンログの日次レポート本文を組み立てます。
// 対象がない場合は空文字を返し、送信はスキップされます。
func BuildOverdueReport(logs []*statuslog.Log, now time.Time) string {
	if len(logs) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Overdue status report (%s)\n", now.Format(digestTimeLayout))
	fmt.Fprintf(&b, "%d employee(s) are past their planned end time:\n\n", len(logs))

	for _, log := range logs {
		overdue := formatDuration(log.OverdueSeconds(now))
		fmt.Fprintf(&b, "- %s: %s since %s, planned end %s, overdue by %s\n",
			log.EmployeeName,
			log.Status.Name,
			log.StartTime.Format(digestTimeLayout),
			log.PlannedEndTime.Format(digestTimeLayout),
			overdue,
		)
	}

	return b.String()
}

// BuildDueSoonAlert は window 以内に予定終了時刻を迎えるオープンログのアラート本文を組み立てます。
// 対象がない場合は空文字を返します。
func BuildDueSoonAlert(logs []*statuslog.Log, now time.Time, window time.Duration) string {
	if len(logs) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Upcoming deadlines within %s\n", formatDuration(int64(window.Seconds())))
	fmt.Fprintf(&b, "%d employee(s) are approaching their planned end time:\n\n", len(logs))

	for _, log := range logs {
		remaining := log.RemainingSeconds(now)
		var left string
		if remaining != nil && *remaining > 0 {
			left = formatDuration(*remaining)
		} else {
			left = "now"
		}
		fmt.Fprintf(&b, "- %s: %s, planned end %s (%s left)\n",
			log.EmployeeName,
			log.Status.Name,
			log.PlannedEndTime.Format(digestTimeLayout),
			left,
		)
	}

	return b.String()
}

func formatDuration(seconds int64) string {
	if seconds < 0 {
		seconds = -seconds
	}

	hours := seconds / 3600
	minutes := (seconds % 3600) / 60

	switch {
	case hours > 0 && minutes > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}
