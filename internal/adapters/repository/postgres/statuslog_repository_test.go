package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stafftrack/stafftrack/internal/core/statuslog"
)

type stubRow struct {
	scanFn func(dest ...interface{}) error
}

func (s stubRow) Scan(dest ...interface{}) error {
	return s.scanFn(dest...)
}

func TestScanLog_NoRows(t *testing.T) {
	t.Parallel()

	row := stubRow{scanFn: func(dest ...interface{}) error {
		return pgx.ErrNoRows
	}}

	_, err := scanLog(row)
	if !errors.Is(err, statuslog.ErrLogNotFound) {
		t.Fatalf("expected ErrLogNotFound, got %v", err)
	}
}

func TestTranslateLogPgError_OpenLogConflict(t *testing.T) {
	t.Parallel()

	pgErr := &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: openLogUniqueConstraint}
	if !errors.Is(translateLogPgError(pgErr), statuslog.ErrConcurrentChange) {
		t.Fatal("expected open-log conflict to map to ErrConcurrentChange")
	}

	otherConstraint := &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "other"}
	if errors.Is(translateLogPgError(otherConstraint), statuslog.ErrConcurrentChange) {
		t.Fatal("expected unrelated unique violation to pass through")
	}

	otherErr := errors.New("random")
	if translateLogPgError(otherErr) != otherErr {
		t.Fatal("unexpected translation for generic error")
	}
}

func TestStatusLogRepository_CloseLog_Success(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewStatusLogRepository(mock)

	query := regexp.QuoteMeta(`
        UPDATE status_logs
           SET end_time = $1,
               overdue_duration = $2
         WHERE id = $3
           AND end_time IS NULL
    `)

	endTime := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectExec(query).
		WithArgs(endTime, int64(3600), "log-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := repo.CloseLog(context.Background(), "log-1", endTime, 3600); err != nil {
		t.Fatalf("CloseLog returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStatusLogRepository_CloseLog_AlreadyClosed(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewStatusLogRepository(mock)

	query := regexp.QuoteMeta(`
        UPDATE status_logs
           SET end_time = $1,
               overdue_duration = $2
         WHERE id = $3
           AND end_time IS NULL
    `)

	endTime := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectExec(query).
		WithArgs(endTime, int64(0), "log-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err = repo.CloseLog(context.Background(), "log-1", endTime, 0)
	if !errors.Is(err, statuslog.ErrConcurrentChange) {
		t.Fatalf("expected ErrConcurrentChange for already-closed log, got %v", err)
	}
}

func TestStatusLogRepository_ListByEmployee_WithNextToken(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewStatusLogRepository(mock)

	query := regexp.QuoteMeta(`
        SELECT` + logSelectColumns + `
          FROM status_logs l
          JOIN statuses s ON s.id = l.status_id
          JOIN employees e ON e.id = l.employee_id
         WHERE l.employee_id = $1
         ORDER BY l.start_time DESC, l.id DESC
         LIMIT $2
        OFFSET $3
    `)

	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	columns := []string{
		"id", "employee_id", "status_id", "start_time", "end_time", "planned_end_time",
		"overdue_duration", "notes", "created_by",
		"name", "color", "requires_deadline", "display_order", "e_name",
	}
	rows := pgxmock.NewRows(columns).
		AddRow("log-3", "emp-1", "st-1", start.Add(2*time.Hour), nil, nil, int64(0), "", nil, "Ready", "#22c55e", false, 1, "Alice").
		AddRow("log-2", "emp-1", "st-1", start.Add(time.Hour), start.Add(2*time.Hour), nil, int64(0), "", nil, "Ready", "#22c55e", false, 1, "Alice").
		AddRow("log-1", "emp-1", "st-1", start, start.Add(time.Hour), nil, int64(0), "", nil, "Ready", "#22c55e", false, 1, "Alice")

	mock.ExpectQuery(query).
		WithArgs("emp-1", 3, 0).
		WillReturnRows(rows)

	logs, nextToken, err := repo.ListByEmployee(context.Background(), statuslog.ListLogsFilter{EmployeeID: "emp-1", Limit: 2, Offset: 0})
	if err != nil {
		t.Fatalf("ListByEmployee returned error: %v", err)
	}

	if len(logs) != 2 {
		t.Fatalf("expected 2 logs, got %d", len(logs))
	}
	if nextToken != "2" {
		t.Fatalf("expected next token '2', got %s", nextToken)
	}
	if !logs[0].Open() {
		t.Error("expected newest log to be open")
	}
	if logs[0].Status == nil || logs[0].Status.Name != "Ready" {
		t.Errorf("expected joined status snapshot, got %+v", logs[0].Status)
	}
	if logs[0].EmployeeName != "Alice" {
		t.Errorf("expected joined employee name, got %q", logs[0].EmployeeName)
	}
}

func TestStatusLogRepository_Create_OpenLogConflict(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewStatusLogRepository(mock)

	mock.ExpectQuery("WITH inserted AS").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: uniqueViolationCode, ConstraintName: openLogUniqueConstraint})

	_, err = repo.Create(context.Background(), &statuslog.Log{
		EmployeeID: "emp-1",
		StatusID:   "st-1",
		StartTime:  time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
	})
	if !errors.Is(err, statuslog.ErrConcurrentChange) {
		t.Fatalf("expected ErrConcurrentChange, got %v", err)
	}
}
