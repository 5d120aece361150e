package statuslog

import (
	"context"
	"time"
)

// Repository はステータスログ永続化の抽象です。
// 返却されるログには Status スナップショットが結合されています。
type Repository interface {
	Create(ctx context.Context, log *Log) (*Log, error)
	FindByID(ctx context.Context, id string) (*Log, error)
	// FindOpenByEmployee は社員の現在のオープンログを返します。
	// オープンログが存在しない場合は ErrLogNotFound を返します。
	FindOpenByEmployee(ctx context.Context, employeeID string) (*Log, error)
	// CloseLog は end_time が未設定の場合に限りログをクローズします。
	// 競合するリクエストが先にクローズしていた場合は ErrConcurrentChange を返します。
	// Create と合わせて「社員ごとにオープンログはちょうど 1 件」を保証します。
	CloseLog(ctx context.Context, id string, endTime time.Time, overdueDuration int64) error
	// ListByEmployee は start_time の降順で返します。
	ListByEmployee(ctx context.Context, filter ListLogsFilter) ([]*Log, string, error)
	// ListAllByEmployee は統計集計用に社員の全ログを返します。
	ListAllByEmployee(ctx context.Context, employeeID string) ([]*Log, error)
	// ListOverdueOpen は予定終了時刻を超過しているオープンログを返します。
	ListOverdueOpen(ctx context.Context, now time.Time) ([]*Log, error)
	// ListDueBetween は予定終了時刻が (from, to] に入るオープンログを返します。
	ListDueBetween(ctx context.Context, from, to time.Time) ([]*Log, error)
	// CountStartedBefore は保持期間ジョブ用に cutoff より古いログ数を返します。
	CountStartedBefore(ctx context.Context, cutoff time.Time) (int64, error)
	// ListForReport はレポート出力用のログを start_time の降順で返します。
	ListForReport(ctx context.Context, filter ReportFilter) ([]*Log, error)
}

// ListLogsFilter は履歴取得用フィルタです。
type ListLogsFilter struct {
	EmployeeID string
	Limit      int
	Offset     int
}

// ReportFilter はレポート出力用フィルタです。
type ReportFilter struct {
	EmployeeID *string
	StatusID   *string
	StartFrom  *time.Time
	StartTo    *time.Time
}
