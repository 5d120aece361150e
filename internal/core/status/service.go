package status

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
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

const maxNameLength = 50

var colorPattern = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)

// Service はステータス定義に関するユースケースをまとめます。
type Service struct {
	repo  Repository
	clock Clock
	tx    TransactionManager
}

// UseCase はステータスユースケースの公開インターフェースです。
type UseCase interface {
	CreateStatus(ctx context.Context, in CreateStatusInput) (*Status, error)
	GetStatus(ctx context.Context, in GetStatusInput) (*Status, error)
	ListStatuses(ctx context.Context, in ListStatusesInput) ([]*Status, error)
	UpdateStatus(ctx context.Context, in UpdateStatusInput) (*Status, error)
	DeleteStatus(ctx context.Context, in DeleteStatusInput) error
}

// NewService は Service を生成します。
func NewService(repo Repository, clock Clock, tx TransactionManager) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{repo: repo, clock: clock, tx: tx}
}

// CreateStatusInput はステータス作成時の入力です。
type CreateStatusInput struct {
	Name             string
	Color            string
	RequiresDeadline bool
	DisplayOrder     int
}

// UpdateStatusInput はステータス更新時の入力です。
type UpdateStatusInput struct {
	ID               string
	Name             *string
	Color            *string
	RequiresDeadline *bool
	DisplayOrder     *int
	Active           *bool
}

// GetStatusInput はステータス取得時の入力です。
type GetStatusInput struct {
	ID string
}

// DeleteStatusInput はステータス削除時の入力です。
type DeleteStatusInput struct {
	ID string
}

// ListStatusesInput は一覧取得時の入力です。
type ListStatusesInput struct {
	IncludeInactive bool
}

// CreateStatus は新しいステータス定義を作成します。
func (s *Service) CreateStatus(ctx context.Context, in CreateStatusInput) (*Status, error) {
	name, err := normalizeName(in.Name)
	if err != nil {
		return nil, err
	}

	color, err := normalizeColor(in.Color)
	if err != nil {
		return nil, err
	}

	var created *Status
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		if err := s.ensureNameNotExists(txCtx, name, ""); err != nil {
			return err
		}

		now := s.clock.Now()
		result, err := s.repo.Create(txCtx, &Status{
			Name:             name,
			Color:            color,
			RequiresDeadline: in.RequiresDeadline,
			DisplayOrder:     in.DisplayOrder,
			Active:           true,
			CreatedAt:        now,
			UpdatedAt:        now,
		})
		if err != nil {
			return err
		}

		created = result
		return nil
	}); err != nil {
		return nil, err
	}

	return created, nil
}

// UpdateStatus はステータス定義を更新します。
// 既存のログは更新の影響を受けません。
func (s *Service) UpdateStatus(ctx context.Context, in UpdateStatusInput) (*Status, error) {
	if strings.TrimSpace(in.ID) == "" {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}

	var updated *Status
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByID(txCtx, in.ID)
		if err != nil {
			return err
		}

		if in.Name != nil {
			name, err := normalizeName(*in.Name)
			if err != nil {
				return err
			}
			if name != existing.Name {
				if err := s.ensureNameNotExists(txCtx, name, existing.ID); err != nil {
					return err
				}
				existing.Name = name
			}
		}

		if in.Color != nil {
			color, err := normalizeColor(*in.Color)
			if err != nil {
				return err
			}
			existing.Color = color
		}

		if in.RequiresDeadline != nil {
			existing.RequiresDeadline = *in.RequiresDeadline
		}

		if in.DisplayOrder != nil {
			existing.DisplayOrder = *in.DisplayOrder
		}

		if in.Active != nil {
			existing.Active = *in.Active
		}

		existing.UpdatedAt = s.clock.Now()

		result, err := s.repo.Update(txCtx, existing)
		if err != nil {
			return err
		}

		updated = result
		return nil
	}); err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteStatus はステータス定義を削除します。
// ログから参照されている場合は ErrStatusInUse で拒否されます。
func (s *Service) DeleteStatus(ctx context.Context, in DeleteStatusInput) error {
	if strings.TrimSpace(in.ID) == "" {
		return fmt.Errorf("id: %w", ErrInvalidID)
	}

	return s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, in.ID)
	})
}

// GetStatus はステータス定義を取得します。
func (s *Service) GetStatus(ctx context.Context, in GetStatusInput) (*Status, error) {
	if strings.TrimSpace(in.ID) == "" {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}

	var result *Status
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.FindByID(txCtx, in.ID)
		if err != nil {
			return err
		}
		result = found
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// ListStatuses はステータス定義の一覧を取得します。
func (s *Service) ListStatuses(ctx context.Context, in ListStatusesInput) ([]*Status, error) {
	var statuses []*Status
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.repo.List(txCtx, ListStatusesFilter{ActiveOnly: !in.IncludeInactive})
		if err != nil {
			return err
		}
		statuses = result
		return nil
	}); err != nil {
		return nil, err
	}

	return statuses, nil
}

func (s *Service) ensureNameNotExists(ctx context.Context, name, selfID string) error {
	existing, err := s.repo.FindByName(ctx, name)
	if err != nil && !errors.Is(err, ErrStatusNotFound) {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return ErrNameAlreadyExists
	}
	return nil
}

func normalizeName(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || len(trimmed) > maxNameLength {
		return "", ErrInvalidName
	}
	return trimmed, nil
}

func normalizeColor(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if !colorPattern.MatchString(trimmed) {
		return "", ErrInvalidColor
	}
	return strings.ToLower(trimmed), nil
}
