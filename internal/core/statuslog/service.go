package statuslog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/stafftrack/stafftrack/internal/core/employee"
	"github.com/stafftrack/stafftrack/internal/core/status"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

const (
	defaultListPageSize = 50
	maxListPageSize     = 200
)

// Service はステータス変更と履歴参照のユースケースをまとめます。
type Service struct {
	logs      Repository
	employees employee.Repository
	statuses  status.Repository
	clock     Clock
	tx        TransactionManager
}

// UseCase はステータスログユースケースの公開インターフェースです。
type UseCase interface {
	ChangeStatus(ctx context.Context, in ChangeStatusInput) (*EmployeeView, error)
	CurrentStatus(ctx context.Context, in CurrentStatusInput) (*Log, error)
	History(ctx context.Context, in HistoryInput) (*HistoryResult, error)
	Statistics(ctx context.Context, in StatisticsInput) ([]StatisticEntry, error)
	OverdueOpenLogs(ctx context.Context) ([]*Log, error)
	DueSoonLogs(ctx context.Context, window time.Duration) ([]*Log, error)
	CountExpiredLogs(ctx context.Context, retention time.Duration) (int64, error)
	ReportLogs(ctx context.Context, in ReportInput) ([]*Log, error)
}

// NewService は Service を生成します。
func NewService(logs Repository, employees employee.Repository, statuses status.Repository, clock Clock, tx TransactionManager) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{logs: logs, employees: employees, statuses: statuses, clock: clock, tx: tx}
}

// ChangeStatusInput はステータス変更時の入力です。
type ChangeStatusInput struct {
	EmployeeID     string
	StatusID       string
	PlannedEndTime *time.Time
	Notes          string
	ActorID        *string
}

// EmployeeView は変更後の社員と現在ステータスを表します。
type EmployeeView struct {
	Employee *employee.Employee
	Current  *Log
}

// CurrentStatusInput は現在ステータス取得時の入力です。
type CurrentStatusInput struct {
	EmployeeID string
}

// HistoryInput は履歴取得時の入力です。
type HistoryInput struct {
	EmployeeID string
	PageSize   int
	PageToken  string
}

// HistoryResult は履歴取得結果を表します。
type HistoryResult struct {
	Logs          []*Log
	NextPageToken string
}

// StatisticsInput は統計取得時の入力です。
type StatisticsInput struct {
	EmployeeID string
}

// StatisticEntry は社員がステータスごとに累積した時間を表します。
type StatisticEntry struct {
	StatusName          string
	StatusColor         string
	TotalSeconds        int64
	Count               int
	TotalOverdueSeconds int64
}

// ReportInput はレポート出力対象のログを絞り込む入力です。
type ReportInput struct {
	EmployeeID *string
	StatusID   *string
	StartFrom  *time.Time
	StartTo    *time.Time
}

// ChangeStatus は社員のステータスを遷移させます。
//
// 現在のオープンログのクローズと新規ログの作成はひとつの読み書き
// トランザクションで実行され、途中で失敗した場合は全体がロールバック
// されます。これにより「社員ごとにオープンログはちょうど 1 件」という
// 不変条件が並行リクエスト下でも維持されます。
func (s *Service) ChangeStatus(ctx context.Context, in ChangeStatusInput) (*EmployeeView, error) {
	employeeID := strings.TrimSpace(in.EmployeeID)
	if employeeID == "" {
		return nil, ErrInvalidEmployeeID
	}

	statusID := strings.TrimSpace(in.StatusID)
	if statusID == "" {
		return nil, fmt.Errorf("status_id: %w", ErrInvalidStatus)
	}

	var view *EmployeeView
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		emp, err := s.employees.FindByID(txCtx, employeeID)
		if err != nil {
			return err
		}
		if !emp.Active {
			return employee.ErrEmployeeNotFound
		}

		st, err := s.statuses.FindByID(txCtx, statusID)
		if err != nil {
			if errors.Is(err, status.ErrStatusNotFound) {
				return ErrInvalidStatus
			}
			return err
		}
		if !st.Active {
			return ErrInvalidStatus
		}

		now := s.clock.Now()

		planned, err := validatePlannedEnd(st, in.PlannedEndTime, now)
		if err != nil {
			return err
		}

		current, err := s.logs.FindOpenByEmployee(txCtx, employeeID)
		if err != nil && !errors.Is(err, ErrLogNotFound) {
			return err
		}

		if current != nil {
			if err := current.Close(now); err != nil {
				return err
			}
			if err := s.logs.CloseLog(txCtx, current.ID, *current.EndTime, current.OverdueDuration); err != nil {
				return err
			}
		}

		created, err := s.logs.Create(txCtx, &Log{
			EmployeeID:     employeeID,
			StatusID:       st.ID,
			StartTime:      now,
			PlannedEndTime: planned,
			Notes:          strings.TrimSpace(in.Notes),
			CreatedBy:      cloneString(in.ActorID),
		})
		if err != nil {
			return err
		}

		view = &EmployeeView{Employee: emp, Current: created}
		return nil
	}); err != nil {
		return nil, err
	}

	return view, nil
}

// CurrentStatus は社員の現在のオープンログを返します。
// オープンログが存在しない場合は nil を返します。
func (s *Service) CurrentStatus(ctx context.Context, in CurrentStatusInput) (*Log, error) {
	employeeID := strings.TrimSpace(in.EmployeeID)
	if employeeID == "" {
		return nil, ErrInvalidEmployeeID
	}

	var current *Log
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.logs.FindOpenByEmployee(txCtx, employeeID)
		if err != nil {
			if errors.Is(err, ErrLogNotFound) {
				return nil
			}
			return err
		}
		current = found
		return nil
	}); err != nil {
		return nil, err
	}

	return current, nil
}

// History は社員のステータス履歴を新しい順に取得します。
func (s *Service) History(ctx context.Context, in HistoryInput) (*HistoryResult, error) {
	employeeID := strings.TrimSpace(in.EmployeeID)
	if employeeID == "" {
		return nil, ErrInvalidEmployeeID
	}

	limit, err := normalizePageSize(in.PageSize)
	if err != nil {
		return nil, err
	}

	offset, err := parsePageToken(in.PageToken)
	if err != nil {
		return nil, err
	}

	var (
		logs      []*Log
		nextToken string
	)

	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, token, err := s.logs.ListByEmployee(txCtx, ListLogsFilter{
			EmployeeID: employeeID,
			Limit:      limit,
			Offset:     offset,
		})
		if err != nil {
			return err
		}
		logs = result
		nextToken = token
		return nil
	}); err != nil {
		return nil, err
	}

	return &HistoryResult{Logs: logs, NextPageToken: nextToken}, nil
}

// Statistics は社員がステータスごとに累積した時間を集計します。
//
// オープンログは now までの経過として算入され、超過はクローズ済みログの
// 確定値とオープンログの進行中の超過の合算です。累積 0 秒のステータスは
// 結果に含まれません。
func (s *Service) Statistics(ctx context.Context, in StatisticsInput) ([]StatisticEntry, error) {
	employeeID := strings.TrimSpace(in.EmployeeID)
	if employeeID == "" {
		return nil, ErrInvalidEmployeeID
	}

	var logs []*Log
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.logs.ListAllByEmployee(txCtx, employeeID)
		if err != nil {
			return err
		}
		logs = result
		return nil
	}); err != nil {
		return nil, err
	}

	return aggregate(logs, s.clock.Now()), nil
}

type statusTotals struct {
	snapshot     *StatusSnapshot
	totalSeconds int64
	totalOverdue int64
	count        int
}

func aggregate(logs []*Log, now time.Time) []StatisticEntry {
	totals := make(map[string]*statusTotals)
	order := make([]string, 0)

	for _, log := range logs {
		if log.Status == nil {
			continue
		}
		t, ok := totals[log.StatusID]
		if !ok {
			t = &statusTotals{snapshot: log.Status}
			totals[log.StatusID] = t
			order = append(order, log.StatusID)
		}

		t.totalSeconds += log.ElapsedSeconds(now)
		t.count++
		if log.Open() {
			t.totalOverdue += log.OverdueSeconds(now)
		} else {
			t.totalOverdue += log.OverdueDuration
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		a, b := totals[order[i]].snapshot, totals[order[j]].snapshot
		if a.DisplayOrder != b.DisplayOrder {
			return a.DisplayOrder < b.DisplayOrder
		}
		return a.Name < b.Name
	})

	entries := make([]StatisticEntry, 0, len(order))
	for _, id := range order {
		t := totals[id]
		if t.totalSeconds <= 0 {
			continue
		}
		entries = append(entries, StatisticEntry{
			StatusName:          t.snapshot.Name,
			StatusColor:         t.snapshot.Color,
			TotalSeconds:        t.totalSeconds,
			Count:               t.count,
			TotalOverdueSeconds: t.totalOverdue,
		})
	}

	return entries
}

// OverdueOpenLogs は予定終了時刻を超過しているオープンログを返します。
func (s *Service) OverdueOpenLogs(ctx context.Context) ([]*Log, error) {
	var logs []*Log
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.logs.ListOverdueOpen(txCtx, s.clock.Now())
		if err != nil {
			return err
		}
		logs = result
		return nil
	}); err != nil {
		return nil, err
	}
	return logs, nil
}

// DueSoonLogs は window 以内に予定終了時刻を迎えるオープンログを返します。
func (s *Service) DueSoonLogs(ctx context.Context, window time.Duration) ([]*Log, error) {
	now := s.clock.Now()

	var logs []*Log
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.logs.ListDueBetween(txCtx, now, now.Add(window))
		if err != nil {
			return err
		}
		logs = result
		return nil
	}); err != nil {
		return nil, err
	}
	return logs, nil
}

// CountExpiredLogs は保持期間を超えたログ数を返します。削除は行いません。
func (s *Service) CountExpiredLogs(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := s.clock.Now().Add(-retention)

	var count int64
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.logs.CountStartedBefore(txCtx, cutoff)
		if err != nil {
			return err
		}
		count = result
		return nil
	}); err != nil {
		return 0, err
	}
	return count, nil
}

// ReportLogs はレポート出力対象のログを取得します。
func (s *Service) ReportLogs(ctx context.Context, in ReportInput) ([]*Log, error) {
	var logs []*Log
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.logs.ListForReport(txCtx, ReportFilter{
			EmployeeID: in.EmployeeID,
			StatusID:   in.StatusID,
			StartFrom:  in.StartFrom,
			StartTo:    in.StartTo,
		})
		if err != nil {
			return err
		}
		logs = result
		return nil
	}); err != nil {
		return nil, err
	}
	return logs, nil
}

func validatePlannedEnd(st *status.Status, planned *time.Time, now time.Time) (*time.Time, error) {
	if planned == nil {
		if st.RequiresDeadline {
			return nil, fmt.Errorf("status %q: %w", st.Name, ErrDeadlineRequired)
		}
		return nil, nil
	}
	if !planned.After(now) {
		return nil, ErrDeadlineNotFuture
	}
	clone := *planned
	return &clone, nil
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	clone := *s
	return &clone
}

func normalizePageSize(pageSize int) (int, error) {
	if pageSize <= 0 {
		return defaultListPageSize, nil
	}
	if pageSize > maxListPageSize {
		return 0, ErrInvalidPageSize
	}
	return pageSize, nil
}

func parsePageToken(token string) (int, error) {
	if strings.TrimSpace(token) == "" {
		return 0, nil
	}

	offset, err := strconv.Atoi(token)
	if err != nil || offset < 0 {
		return 0, ErrInvalidPageToken
	}

	return offset, nil
}
