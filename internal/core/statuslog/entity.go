package statuslog

import "time"

// Log は社員がひとつのステータスを保持していた区間を記録します。
// EndTime が nil の間はオープンであり、社員の現在ステータスを表します。
type Log struct {
	ID              string
	EmployeeID      string
	StatusID        string
	StartTime       time.Time
	EndTime         *time.Time
	PlannedEndTime  *time.Time
	OverdueDuration int64
	Notes           string
	CreatedBy       *string
	Status          *StatusSnapshot
	EmployeeName    string
}

// StatusSnapshot はログに紐づくステータス定義のスナップショットです。
type StatusSnapshot struct {
	ID               string
	Name             string
	Color            string
	RequiresDeadline bool
	DisplayOrder     int
}

// Open はログが未クローズかどうかを返します。
func (l *Log) Open() bool {
	return l.EndTime == nil
}

// ElapsedSeconds は StartTime から EndTime（オープン中は now）までの
// 経過秒数を返します。秒未満は切り捨てられます。
func (l *Log) ElapsedSeconds(now time.Time) int64 {
	end := now
	if l.EndTime != nil {
		end = *l.EndTime
	}
	return int64(end.Sub(l.StartTime).Seconds())
}

// RemainingSeconds は PlannedEndTime までの残り秒数を返します。
// PlannedEndTime が未設定の場合は nil、超過している場合は負値です。
func (l *Log) RemainingSeconds(now time.Time) *int64 {
	if l.PlannedEndTime == nil {
		return nil
	}
	ref := now
	if l.EndTime != nil {
		ref = *l.EndTime
	}
	remaining := int64(l.PlannedEndTime.Sub(ref).Seconds())
	return &remaining
}

// IsOverdue は予定終了時刻を超過しているかどうかを返します。
// 判定は厳密な after 比較であり、EndTime == PlannedEndTime は超過ではありません。
func (l *Log) IsOverdue(now time.Time) bool {
	if l.PlannedEndTime == nil {
		return false
	}
	ref := now
	if l.EndTime != nil {
		ref = *l.EndTime
	}
	return ref.After(*l.PlannedEndTime)
}

// OverdueSeconds は超過秒数を返します。超過していなければ 0 です。
// RemainingSeconds から導出されるため、両者が食い違うことはありません。
func (l *Log) OverdueSeconds(now time.Time) int64 {
	if !l.IsOverdue(now) {
		return 0
	}
	remaining := l.RemainingSeconds(now)
	if remaining == nil {
		return 0
	}
	if *remaining < 0 {
		return -*remaining
	}
	return *remaining
}

// Close はログをクローズし、超過秒数を確定します。
// クローズ済みのログに対する呼び出しは ErrAlreadyClosed を返します。
// 遷移は一方向であり、確定した OverdueDuration は以後変化しません。
func (l *Log) Close(now time.Time) error {
	if l.EndTime != nil {
		return ErrAlreadyClosed
	}

	end := now
	l.EndTime = &end

	if l.PlannedEndTime != nil && end.After(*l.PlannedEndTime) {
		l.OverdueDuration = int64(end.Sub(*l.PlannedEndTime).Seconds())
	} else {
		l.OverdueDuration = 0
	}

	return nil
}
