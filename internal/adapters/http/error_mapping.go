package http

import (
	"errors"
	"net/http"

	"github.com/stafftrack/stafftrack/internal/core/employee"
	"github.com/stafftrack/stafftrack/internal/core/status"
	"github.com/stafftrack/stafftrack/internal/core/statuslog"
)

// toHTTPStatus はドメインエラーを HTTP ステータスコードとレスポンス本文に
// 変換します。内部エラーの詳細はクライアントへは返しません。
func toHTTPStatus(err error) (int, string) {
	switch {
	case err == nil:
		return http.StatusOK, ""
	case errors.Is(err, employee.ErrInvalidID),
		errors.Is(err, employee.ErrInvalidName),
		errors.Is(err, employee.ErrInvalidEmail),
		errors.Is(err, employee.ErrInvalidPageSize),
		errors.Is(err, employee.ErrInvalidPageToken),
		errors.Is(err, status.ErrInvalidID),
		errors.Is(err, status.ErrInvalidName),
		errors.Is(err, status.ErrInvalidColor),
		errors.Is(err, statuslog.ErrInvalidEmployeeID),
		errors.Is(err, statuslog.ErrInvalidStatus),
		errors.Is(err, statuslog.ErrDeadlineRequired),
		errors.Is(err, statuslog.ErrDeadlineNotFuture),
		errors.Is(err, statuslog.ErrInvalidPageSize),
		errors.Is(err, statuslog.ErrInvalidPageToken):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, employee.ErrEmployeeNotFound),
		errors.Is(err, status.ErrStatusNotFound),
		errors.Is(err, statuslog.ErrLogNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, employee.ErrEmailAlreadyExists),
		errors.Is(err, status.ErrNameAlreadyExists),
		errors.Is(err, status.ErrStatusInUse),
		errors.Is(err, statuslog.ErrConcurrentChange):
		return http.StatusConflict, err.Error()
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
