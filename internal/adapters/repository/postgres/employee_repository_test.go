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
	"github.com/stafftrack/stafftrack/internal/core/employee"
)

func TestScanEmployee_NoRows(t *testing.T) {
	t.Parallel()

	row := stubRow{scanFn: func(dest ...interface{}) error {
		return pgx.ErrNoRows
	}}

	_, err := scanEmployee(row)
	if !errors.Is(err, employee.ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
}

func TestTranslateEmployeePgError(t *testing.T) {
	t.Parallel()

	if !errors.Is(translateEmployeePgError(pgx.ErrNoRows), employee.ErrEmployeeNotFound) {
		t.Fatal("expected no-rows to map to ErrEmployeeNotFound")
	}

	pgErr := &pgconn.PgError{Code: uniqueViolationCode}
	if !errors.Is(translateEmployeePgError(pgErr), employee.ErrEmailAlreadyExists) {
		t.Fatal("expected unique violation to map to ErrEmailAlreadyExists")
	}

	otherErr := errors.New("random")
	if translateEmployeePgError(otherErr) != otherErr {
		t.Fatal("unexpected translation for generic error")
	}
}

func TestEmployeeRepository_List_WithNextToken(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewEmployeeRepository(mock)

	query := regexp.QuoteMeta(`
        SELECT id, name, email, active, created_at, updated_at, deleted_at
          FROM employees WHERE active
         ORDER BY name, id
         LIMIT $1
        OFFSET $2
    `)

	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	columns := []string{"id", "name", "email", "active", "created_at", "updated_at", "deleted_at"}
	rows := pgxmock.NewRows(columns).
		AddRow("emp-1", "Alice Johnson", "alice@example.com", true, now, now, nil).
		AddRow("emp-2", "Bob Smith", nil, true, now, now, nil).
		AddRow("emp-3", "Carol Williams", nil, true, now, now, nil)

	mock.ExpectQuery(query).
		WithArgs(3, 0).
		WillReturnRows(rows)

	employees, nextToken, err := repo.List(context.Background(), employee.ListEmployeesFilter{Limit: 2, Offset: 0})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}

	if len(employees) != 2 {
		t.Fatalf("expected 2 employees, got %d", len(employees))
	}
	if nextToken != "2" {
		t.Fatalf("expected next token '2', got %s", nextToken)
	}
	if employees[0].Email == nil || *employees[0].Email != "alice@example.com" {
		t.Errorf("expected email to survive scan, got %v", employees[0].Email)
	}
	if employees[1].Email != nil {
		t.Errorf("expected nil email for second employee, got %v", employees[1].Email)
	}
}

func TestEmployeeRepository_List_InvalidLimit(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewEmployeeRepository(mock)

	_, _, err = repo.List(context.Background(), employee.ListEmployeesFilter{Limit: 0})
	if !errors.Is(err, employee.ErrInvalidPageSize) {
		t.Fatalf("expected ErrInvalidPageSize, got %v", err)
	}
}

func TestEmployeeRepository_Create_DuplicateEmail(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewEmployeeRepository(mock)

	mock.ExpectQuery("INSERT INTO employees").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: uniqueViolationCode})

	email := "alice@example.com"
	_, err = repo.Create(context.Background(), &employee.Employee{
		Name:   "Alice Johnson",
		Email:  &email,
		Active: true,
	})
	if !errors.Is(err, employee.ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}
}
