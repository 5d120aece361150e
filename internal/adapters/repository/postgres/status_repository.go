package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stafftrack/stafftrack/internal/core/status"
	pgdb "github.com/stafftrack/stafftrack/internal/platform/db/postgres"
)

const foreignKeyViolationCode = "23503"

// StatusRepository は PostgreSQL を利用したステータス定義永続化の実装です。
type StatusRepository struct {
	pool pgdb.Queryer
}

// NewStatusRepository は StatusRepository を生成します。
func NewStatusRepository(pool pgdb.Queryer) *StatusRepository {
	return &StatusRepository{pool: pool}
}

// Create はステータス定義を新規作成します。
func (r *StatusRepository) Create(ctx context.Context, s *status.Status) (*status.Status, error) {
	id := s.ID
	if id == "" {
		id = uuid.NewString()
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO statuses (id, name, color, requires_deadline, display_order, active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, name, color, requires_deadline, display_order, active, created_at, updated_at
    `,
		id,
		s.Name,
		s.Color,
		s.RequiresDeadline,
		s.DisplayOrder,
		s.Active,
		s.CreatedAt,
		s.UpdatedAt,
	)

	created, err := scanStatus(row)
	if err != nil {
		return nil, translateStatusPgError(err)
	}
	return created, nil
}

// Update はステータス定義を更新します。
func (r *StatusRepository) Update(ctx context.Context, s *status.Status) (*status.Status, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE statuses
           SET name = $1,
               color = $2,
               requires_deadline = $3,
               display_order = $4,
               active = $5,
               updated_at = $6
         WHERE id = $7
        RETURNING id, name, color, requires_deadline, display_order, active, created_at, updated_at
    `,
		s.Name,
		s.Color,
		s.RequiresDeadline,
		s.DisplayOrder,
		s.Active,
		s.UpdatedAt,
		s.ID,
	)

	updated, err := scanStatus(row)
	if err != nil {
		return nil, translateStatusPgError(err)
	}
	return updated, nil
}

// Delete はステータス定義を削除します。
// status_logs からの参照は外部キー制約で保護されており、参照中の削除は
// ErrStatusInUse として拒否されます。
func (r *StatusRepository) Delete(ctx context.Context, id string) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `DELETE FROM statuses WHERE id = $1`, id)
	if err != nil {
		return translateStatusPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return status.ErrStatusNotFound
	}
	return nil
}

// FindByID は ID でステータス定義を取得します。
func (r *StatusRepository) FindByID(ctx context.Context, id string) (*status.Status, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT id, name, color, requires_deadline, display_order, active, created_at, updated_at
          FROM statuses
         WHERE id = $1
         LIMIT 1
    `, id)

	found, err := scanStatus(row)
	if err != nil {
		return nil, translateStatusPgError(err)
	}
	return found, nil
}

// FindByName は名前でステータス定義を取得します。
func (r *StatusRepository) FindByName(ctx context.Context, name string) (*status.Status, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT id, name, color, requires_deadline, display_order, active, created_at, updated_at
          FROM statuses
         WHERE name = $1
         LIMIT 1
    `, name)

	found, err := scanStatus(row)
	if err != nil {
		return nil, translateStatusPgError(err)
	}
	return found, nil
}

// List はステータス定義の一覧を表示順で取得します。
func (r *StatusRepository) List(ctx context.Context, filter status.ListStatusesFilter) ([]*status.Status, error) {
	whereClause := ""
	if filter.ActiveOnly {
		whereClause = " WHERE active"
	}

	query := `
        SELECT id, name, color, requires_deadline, display_order, active, created_at, updated_at
          FROM statuses` + whereClause + `
         ORDER BY display_order, name
    `

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query)
	if err != nil {
		return nil, translateStatusPgError(err)
	}
	defer rows.Close()

	statuses := make([]*status.Status, 0)
	for rows.Next() {
		st, err := scanStatus(rows)
		if err != nil {
			return nil, translateStatusPgError(err)
		}
		statuses = append(statuses, st)
	}

	if err := rows.Err(); err != nil {
		return nil, translateStatusPgError(err)
	}

	return statuses, nil
}

func scanStatus(row pgx.Row) (*status.Status, error) {
	var (
		id               string
		name             string
		color            string
		requiresDeadline bool
		displayOrder     int
		active           bool
		createdAt        time.Time
		updatedAt        time.Time
	)

	if err := row.Scan(&id, &name, &color, &requiresDeadline, &displayOrder, &active, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, status.ErrStatusNotFound
		}
		return nil, err
	}

	return &status.Status{
		ID:               id,
		Name:             name,
		Color:            color,
		RequiresDeadline: requiresDeadline,
		DisplayOrder:     displayOrder,
		Active:           active,
		CreatedAt:        createdAt,
		UpdatedAt:        updatedAt,
	}, nil
}

func translateStatusPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return status.ErrStatusNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return status.ErrNameAlreadyExists
		case foreignKeyViolationCode:
			return status.ErrStatusInUse
		}
	}

	return err
}
