package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stafftrack/stafftrack/internal/core/statuslog"
	pgdb "github.com/stafftrack/stafftrack/internal/platform/db/postgres"
)

// openLogUniqueConstraint は「社員ごとにオープンログはちょうど 1 件」を
// 保証する部分一意インデックスの名前です。
const openLogUniqueConstraint = "status_logs_one_open_per_employee"

const logSelectColumns = `
       l.id,
       l.employee_id,
       l.status_id,
       l.start_time,
       l.end_time,
       l.planned_end_time,
       l.overdue_duration,
       l.notes,
       l.created_by,
       s.name,
       s.color,
       s.requires_deadline,
       s.display_order,
       e.name`

// StatusLogRepository は PostgreSQL を利用したステータスログ永続化の実装です。
type StatusLogRepository struct {
	pool pgdb.Queryer
}

// NewStatusLogRepository は StatusLogRepository を生成します。
func NewStatusLogRepository(pool pgdb.Queryer) *StatusLogRepository {
	return &StatusLogRepository{pool: pool}
}

// Create はステータスログを新規作成します。
func (r *StatusLogRepository) Create(ctx context.Context, log *statuslog.Log) (*statuslog.Log, error) {
	id := log.ID
	if id == "" {
		id = uuid.NewString()
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        WITH inserted AS (
            INSERT INTO status_logs (id, employee_id, status_id, start_time, end_time, planned_end_time, overdue_duration, notes, created_by)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
            RETURNING id, employee_id, status_id, start_time, end_time, planned_end_time, overdue_duration, notes, created_by
        )
        SELECT l.id, l.employee_id, l.status_id, l.start_time, l.end_time, l.planned_end_time,
               l.overdue_duration, l.notes, l.created_by,
               s.name, s.color, s.requires_deadline, s.display_order,
               e.name
          FROM inserted l
          JOIN statuses s ON s.id = l.status_id
          JOIN employees e ON e.id = l.employee_id
    `,
		id,
		log.EmployeeID,
		log.StatusID,
		log.StartTime,
		nullableTime(log.EndTime),
		nullableTime(log.PlannedEndTime),
		log.OverdueDuration,
		log.Notes,
		nullableString(log.CreatedBy),
	)

	created, err := scanLog(row)
	if err != nil {
		return nil, translateLogPgError(err)
	}
	return created, nil
}

// FindByID は ID でステータスログを取得します。
func (r *StatusLogRepository) FindByID(ctx context.Context, id string) (*statuslog.Log, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT`+logSelectColumns+`
          FROM status_logs l
          JOIN statuses s ON s.id = l.status_id
          JOIN employees e ON e.id = l.employee_id
         WHERE l.id = $1
         LIMIT 1
    `, id)

	found, err := scanLog(row)
	if err != nil {
		return nil, translateLogPgError(err)
	}
	return found, nil
}

// FindOpenByEmployee は社員の現在のオープンログを取得します。
// end_time が NULL のログが「現在のステータス」の唯一の情報源です。
func (r *StatusLogRepository) FindOpenByEmployee(ctx context.Context, employeeID string) (*statuslog.Log, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT`+logSelectColumns+`
          FROM status_logs l
          JOIN statuses s ON s.id = l.status_id
          JOIN employees e ON e.id = l.employee_id
         WHERE l.employee_id = $1
           AND l.end_time IS NULL
         LIMIT 1
    `, employeeID)

	found, err := scanLog(row)
	if err != nil {
		return nil, translateLogPgError(err)
	}
	return found, nil
}

// CloseLog はオープンログをクローズします。条件付き更新であり、既に
// クローズされていた場合は ErrConcurrentChange を返します。
func (r *StatusLogRepository) CloseLog(ctx context.Context, id string, endTime time.Time, overdueDuration int64) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `
        UPDATE status_logs
           SET end_time = $1,
               overdue_duration = $2
         WHERE id = $3
           AND end_time IS NULL
    `, endTime, overdueDuration, id)
	if err != nil {
		return translateLogPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return statuslog.ErrConcurrentChange
	}
	return nil
}

// ListByEmployee は社員のログを start_time の降順で取得します。
func (r *StatusLogRepository) ListByEmployee(ctx context.Context, filter statuslog.ListLogsFilter) ([]*statuslog.Log, string, error) {
	if strings.TrimSpace(filter.EmployeeID) == "" {
		return nil, "", statuslog.ErrInvalidEmployeeID
	}
	if filter.Limit <= 0 {
		return nil, "", statuslog.ErrInvalidPageSize
	}
	if filter.Offset < 0 {
		return nil, "", statuslog.ErrInvalidPageToken
	}

	limitWithBuffer := filter.Limit + 1

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT`+logSelectColumns+`
          FROM status_logs l
          JOIN statuses s ON s.id = l.status_id
          JOIN employees e ON e.id = l.employee_id
         WHERE l.employee_id = $1
         ORDER BY l.start_time DESC, l.id DESC
         LIMIT $2
        OFFSET $3
    `, filter.EmployeeID, limitWithBuffer, filter.Offset)
	if err != nil {
		return nil, "", translateLogPgError(err)
	}
	defer rows.Close()

	logs, err := collectLogs(rows, filter.Limit)
	if err != nil {
		return nil, "", translateLogPgError(err)
	}

	var nextToken string
	if len(logs) == limitWithBuffer {
		logs = logs[:filter.Limit]
		nextToken = strconv.Itoa(filter.Offset + filter.Limit)
	}

	return logs, nextToken, nil
}

// ListAllByEmployee は統計集計用に社員の全ログを取得します。
func (r *StatusLogRepository) ListAllByEmployee(ctx context.Context, employeeID string) ([]*statuslog.Log, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT`+logSelectColumns+`
          FROM status_logs l
          JOIN statuses s ON s.id = l.status_id
          JOIN employees e ON e.id = l.employee_id
         WHERE l.employee_id = $1
         ORDER BY l.start_time
    `, employeeID)
	if err != nil {
		return nil, translateLogPgError(err)
	}
	defer rows.Close()

	logs, err := collectLogs(rows, 0)
	if err != nil {
		return nil, translateLogPgError(err)
	}
	return logs, nil
}

// ListOverdueOpen は予定終了時刻を超過しているオープンログを取得します。
func (r *StatusLogRepository) ListOverdueOpen(ctx context.Context, now time.Time) ([]*statuslog.Log, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT`+logSelectColumns+`
          FROM status_logs l
          JOIN statuses s ON s.id = l.status_id
          JOIN employees e ON e.id = l.employee_id
         WHERE l.end_time IS NULL
           AND l.planned_end_time IS NOT NULL
           AND l.planned_end_time < $1
         ORDER BY l.planned_end_time
    `, now)
	if err != nil {
		return nil, translateLogPgError(err)
	}
	defer rows.Close()

	logs, err := collectLogs(rows, 0)
	if err != nil {
		return nil, translateLogPgError(err)
	}
	return logs, nil
}

// ListDueBetween は予定終了時刻が (from, to] に入るオープンログを取得します。
func (r *StatusLogRepository) ListDueBetween(ctx context.Context, from, to time.Time) ([]*statuslog.Log, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT`+logSelectColumns+`
          FROM status_logs l
          JOIN statuses s ON s.id = l.status_id
          JOIN employees e ON e.id = l.employee_id
         WHERE l.end_time IS NULL
           AND l.planned_end_time IS NOT NULL
           AND l.planned_end_time > $1
           AND l.planned_end_time <= $2
         ORDER BY l.planned_end_time
    `, from, to)
	if err != nil {
		return nil, translateLogPgError(err)
	}
	defer rows.Close()

	logs, err := collectLogs(rows, 0)
	if err != nil {
		return nil, translateLogPgError(err)
	}
	return logs, nil
}

// CountStartedBefore は cutoff より前に開始したログ数を返します。
func (r *StatusLogRepository) CountStartedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `SELECT COUNT(*) FROM status_logs WHERE start_time < $1`, cutoff)

	var count int64
	if err := row.Scan(&count); err != nil {
		return 0, translateLogPgError(err)
	}
	return count, nil
}

// ListForReport はレポート出力対象のログを start_time の降順で取得します。
func (r *StatusLogRepository) ListForReport(ctx context.Context, filter statuslog.ReportFilter) ([]*statuslog.Log, error) {
	args := make([]any, 0, 4)
	conditions := make([]string, 0, 4)

	if filter.EmployeeID != nil {
		args = append(args, *filter.EmployeeID)
		conditions = append(conditions, "l.employee_id = $"+strconv.Itoa(len(args)))
	}
	if filter.StatusID != nil {
		args = append(args, *filter.StatusID)
		conditions = append(conditions, "l.status_id = $"+strconv.Itoa(len(args)))
	}
	if filter.StartFrom != nil {
		args = append(args, *filter.StartFrom)
		conditions = append(conditions, "l.start_time >= $"+strconv.Itoa(len(args)))
	}
	if filter.StartTo != nil {
		args = append(args, *filter.StartTo)
		conditions = append(conditions, "l.start_time <= $"+strconv.Itoa(len(args)))
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	query := `
        SELECT` + logSelectColumns + `
          FROM status_logs l
          JOIN statuses s ON s.id = l.status_id
          JOIN employees e ON e.id = l.employee_id` + whereClause + `
         ORDER BY l.start_time DESC, l.id DESC
    `

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, translateLogPgError(err)
	}
	defer rows.Close()

	logs, err := collectLogs(rows, 0)
	if err != nil {
		return nil, translateLogPgError(err)
	}
	return logs, nil
}

func collectLogs(rows pgx.Rows, capacityHint int) ([]*statuslog.Log, error) {
	logs := make([]*statuslog.Log, 0, capacityHint)
	for rows.Next() {
		log, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return logs, nil
}

func scanLog(row pgx.Row) (*statuslog.Log, error) {
	var (
		id               string
		employeeID       string
		statusID         string
		startTime        time.Time
		endTime          sql.NullTime
		plannedEndTime   sql.NullTime
		overdueDuration  int64
		notes            string
		createdBy        sql.NullString
		statusName       string
		statusColor      string
		requiresDeadline bool
		displayOrder     int
		employeeName     string
	)

	if err := row.Scan(
		&id,
		&employeeID,
		&statusID,
		&startTime,
		&endTime,
		&plannedEndTime,
		&overdueDuration,
		&notes,
		&createdBy,
		&statusName,
		&statusColor,
		&requiresDeadline,
		&displayOrder,
		&employeeName,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, statuslog.ErrLogNotFound
		}
		return nil, err
	}

	var endPtr *time.Time
	if endTime.Valid {
		t := endTime.Time.UTC()
		endPtr = &t
	}

	var plannedPtr *time.Time
	if plannedEndTime.Valid {
		t := plannedEndTime.Time.UTC()
		plannedPtr = &t
	}

	var createdByPtr *string
	if createdBy.Valid {
		value := createdBy.String
		createdByPtr = &value
	}

	return &statuslog.Log{
		ID:              id,
		EmployeeID:      employeeID,
		StatusID:        statusID,
		StartTime:       startTime,
		EndTime:         endPtr,
		PlannedEndTime:  plannedPtr,
		OverdueDuration: overdueDuration,
		Notes:           notes,
		CreatedBy:       createdByPtr,
		Status: &statuslog.StatusSnapshot{
			ID:               statusID,
			Name:             statusName,
			Color:            statusColor,
			RequiresDeadline: requiresDeadline,
			DisplayOrder:     displayOrder,
		},
		EmployeeName: employeeName,
	}, nil
}

func translateLogPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return statuslog.ErrLogNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode && pgErr.ConstraintName == openLogUniqueConstraint {
		// 競合するリクエストが先にオープンログを作成していました。
		return statuslog.ErrConcurrentChange
	}

	return err
}
