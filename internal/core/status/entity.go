package status

import "time"

// Status は社員に割り当て可能なステータス定義です。
// 参照データであり、変更は稀です。
type Status struct {
	ID               string
	Name             string
	Color            string
	RequiresDeadline bool
	DisplayOrder     int
	Active           bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
