package employee

import "time"

// Employee は社員エンティティです。
// 削除は論理削除であり、履歴ログは保持されます。
type Employee struct {
	ID        string
	Name      string
	Email     *string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}
