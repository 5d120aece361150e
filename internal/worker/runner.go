package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stafftrack/stafftrack/internal/adapters/notify"
	"github.com/stafftrack/stafftrack/internal/core/statuslog"
	"github.com/stafftrack/stafftrack/internal/platform/config"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// Runner は定期ジョブのスケジューリングと実行を担います。
type Runner struct {
	logs   statuslog.UseCase
	mailer notify.Mailer
	cfg    config.WorkerConfig
	clock  Clock
	log    *slog.Logger
}

// NewRunner は Runner を生成します。
func NewRunner(logs statuslog.UseCase, mailer notify.Mailer, cfg config.WorkerConfig, clock Clock, log *slog.Logger) *Runner {
	if clock == nil {
		clock = realClock{}
	}
	return &Runner{logs: logs, mailer: mailer, cfg: cfg, clock: clock, log: log}
}

// Run はジョブを登録してスケジューラを起動し、ctx が終了するまでブロックします。
func (r *Runner) Run(ctx context.Context) error {
	c := cron.New()

	if _, err := c.AddFunc(r.cfg.OverdueReportCron, func() {
		if err := r.SendOverdueReport(ctx); err != nil {
			r.log.Error("overdue report failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("worker: schedule overdue report: %w", err)
	}

	if _, err := c.AddFunc(r.cfg.DeadlineAlertCron, func() {
		if err := r.SendDeadlineAlert(ctx); err != nil {
			r.log.Error("deadline alert failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("worker: schedule deadline alert: %w", err)
	}

	if _, err := c.AddFunc(r.cfg.CleanupCron, func() {
		if err := r.CheckRetention(ctx); err != nil {
			r.log.Error("retention check failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("worker: schedule retention check: %w", err)
	}

	c.Start()
	r.log.Info("worker started",
		"overdue_report_cron", r.cfg.OverdueReportCron,
		"deadline_alert_cron", r.cfg.DeadlineAlertCron,
		"cleanup_cron", r.cfg.CleanupCron,
	)

	<-ctx.Done()

	stopped := c.Stop()
	<-stopped.Done()
	return nil
}

// SendOverdueReport は予定終了時刻を超過しているオープンログをまとめて管理者へ送信します。
func (r *Runner) SendOverdueReport(ctx context.Context) error {
	logs, err := r.logs.OverdueOpenLogs(ctx)
	if err != nil {
		return err
	}

	body := BuildOverdueReport(logs, r.clock.Now())
	if body == "" {
		r.log.Info("overdue report: no overdue logs")
		return nil
	}

	if err := r.mailer.Send("Daily overdue status report", body); err != nil {
		return err
	}

	r.log.Info("overdue report sent", "count", len(logs))
	return nil
}

// SendDeadlineAlert は間もなく予定終了時刻を迎えるオープンログを管理者へ通知します。
func (r *Runner) SendDeadlineAlert(ctx context.Context) error {
	logs, err := r.logs.DueSoonLogs(ctx, r.cfg.DueSoonWindow)
	if err != nil {
		return err
	}

	body := BuildDueSoonAlert(logs, r.clock.Now(), r.cfg.DueSoonWindow)
	if body == "" {
		r.log.Info("deadline alert: no upcoming deadlines")
		return nil
	}

	if err := r.mailer.Send("Upcoming status deadlines", body); err != nil {
		return err
	}

	r.log.Info("deadline alert sent", "count", len(logs))
	return nil
}

// CheckRetention は保持期間を超えたログ数を記録します。削除は手動運用です。
func (r *Runner) CheckRetention(ctx context.Context) error {
	count, err := r.logs.CountExpiredLogs(ctx, r.cfg.Retention())
	if err != nil {
		return err
	}

	r.log.Info("retention check", "expired_logs", count, "retention_days", r.cfg.RetentionDays)
	return nil
}
