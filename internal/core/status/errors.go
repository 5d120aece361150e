package status

import "errors"

var (
	// ErrStatusNotFound はステータスが存在しない場合に返却されます。
	ErrStatusNotFound = errors.New("status: not found")
	// ErrInvalidID は ID が不正な場合に返却されます。
	ErrInvalidID = errors.New("status: invalid id")
	// ErrInvalidName はステータス名が不正な場合に返却されます。
	ErrInvalidName = errors.New("status: invalid name")
	// ErrInvalidColor はカラーコードが HEX 形式でない場合に返却されます。
	ErrInvalidColor = errors.New("status: invalid color code")
	// ErrNameAlreadyExists はステータス名が重複した場合に返却されます。
	ErrNameAlreadyExists = errors.New("status: name already exists")
	// ErrStatusInUse は参照中のステータスを削除しようとした場合に返却されます。
	ErrStatusInUse = errors.New("status: referenced by status logs")
)
