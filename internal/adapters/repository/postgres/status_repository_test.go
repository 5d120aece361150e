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
	"github.com/stafftrack/stafftrack/internal/core/status"
)

func TestScanStatus_NoRows(t *testing.T) {
	t.Parallel()

	row := stubRow{scanFn: func(dest ...interface{}) error {
		return pgx.ErrNoRows
	}}

	_, err := scanStatus(row)
	if !errors.Is(err, status.ErrStatusNotFound) {
		t.Fatalf("expected ErrStatusNotFound, got %v", err)
	}
}

func TestTranslateStatusPgError(t *testing.T) {
	t.Parallel()

	if !errors.Is(translateStatusPgError(pgx.ErrNoRows), status.ErrStatusNotFound) {
		t.Fatal("expected no-rows to map to ErrStatusNotFound")
	}

	uniqueErr := &pgconn.PgError{Code: uniqueViolationCode}
	if !errors.Is(translateStatusPgError(uniqueErr), status.ErrNameAlreadyExists) {
		t.Fatal("expected unique violation to map to ErrNameAlreadyExists")
	}

	fkErr := &pgconn.PgError{Code: foreignKeyViolationCode}
	if !errors.Is(translateStatusPgError(fkErr), status.ErrStatusInUse) {
		t.Fatal("expected foreign key violation to map to ErrStatusInUse")
	}

	otherErr := errors.New("random")
	if translateStatusPgError(otherErr) != otherErr {
		t.Fatal("unexpected translation for generic error")
	}
}

func TestStatusRepository_List_ActiveOnly(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewStatusRepository(mock)

	query := regexp.QuoteMeta(`
        SELECT id, name, color, requires_deadline, display_order, active, created_at, updated_at
          FROM statuses WHERE active
         ORDER BY display_order, name
    `)

	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	columns := []string{"id", "name", "color", "requires_deadline", "display_order", "active", "created_at", "updated_at"}
	rows := pgxmock.NewRows(columns).
		AddRow("st-1", "Ready", "#22c55e", false, 1, true, now, now).
		AddRow("st-2", "Repair", "#3b82f6", true, 2, true, now, now)

	mock.ExpectQuery(query).WillReturnRows(rows)

	statuses, err := repo.List(context.Background(), status.ListStatusesFilter{ActiveOnly: true})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}

	if len(statuses) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(statuses))
	}
	if statuses[1].Name != "Repair" || !statuses[1].RequiresDeadline {
		t.Errorf("unexpected second status %+v", statuses[1])
	}
}

func TestStatusRepository_Delete_InUse(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewStatusRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM statuses WHERE id = $1`)).
		WithArgs("st-1").
		WillReturnError(&pgconn.PgError{Code: foreignKeyViolationCode})

	if err := repo.Delete(context.Background(), "st-1"); !errors.Is(err, status.ErrStatusInUse) {
		t.Fatalf("expected ErrStatusInUse, got %v", err)
	}
}

func TestStatusRepository_Delete_NotFound(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewStatusRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM statuses WHERE id = $1`)).
		WithArgs("st-missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	if err := repo.Delete(context.Background(), "st-missing"); !errors.Is(err, status.ErrStatusNotFound) {
		t.Fatalf("expected ErrStatusNotFound, got %v", err)
	}
}
