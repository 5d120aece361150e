package statuslog

import "errors"

var (
	// ErrLogNotFound はログが存在しない場合に返却されます。
	ErrLogNotFound = errors.New("statuslog: not found")
	// ErrInvalidEmployeeID は社員 ID が不正な場合に返却されます。
	ErrInvalidEmployeeID = errors.New("statuslog: invalid employee id")
	// ErrInvalidStatus は存在しない、または無効化されたステータスが指定された場合に返却されます。
	ErrInvalidStatus = errors.New("statuslog: invalid or inactive status")
	// ErrDeadlineRequired は期限必須のステータスで planned_end_time が欠けている場合に返却されます。
	ErrDeadlineRequired = errors.New("statuslog: planned end time is required")
	// ErrDeadlineNotFuture は planned_end_time が未来でない場合に返却されます。
	ErrDeadlineNotFuture = errors.New("statuslog: planned end time must be in the future")
	// ErrInvalidPageSize は一覧取得時のページサイズが不正な場合に返却されます。
	ErrInvalidPageSize = errors.New("statuslog: invalid page size")
	// ErrInvalidPageToken は一覧取得時のページトークンが不正な場合に返却されます。
	ErrInvalidPageToken = errors.New("statuslog: invalid page token")
	// ErrAlreadyClosed はクローズ済みログの再クローズを表す内部エラーです。
	ErrAlreadyClosed = errors.New("statuslog: log already closed")
	// ErrConcurrentChange は競合するリクエストが先にログをクローズした場合に返却されます。
	// 呼び出し側はリトライ可能です。
	ErrConcurrentChange = errors.New("statuslog: log closed by concurrent request")
)
