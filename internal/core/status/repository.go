package status

import "context"

// Repository はステータス定義の永続化を行うインターフェースです。
type Repository interface {
	Create(ctx context.Context, status *Status) (*Status, error)
	Update(ctx context.Context, status *Status) (*Status, error)
	// Delete は参照するログが存在する場合 ErrStatusInUse を返します。
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Status, error)
	FindByName(ctx context.Context, name string) (*Status, error)
	// List は display_order、名前の順で返します。
	List(ctx context.Context, filter ListStatusesFilter) ([]*Status, error)
}

// ListStatusesFilter は一覧取得時の検索条件を表します。
type ListStatusesFilter struct {
	ActiveOnly bool
}
