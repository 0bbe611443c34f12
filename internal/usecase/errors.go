package usecase

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	//400 入力が不正
	ErrInvalidInput = errors.New("invalid input")
	//400 対象がない
	ErrNotFound = errors.New("not found")
	//400 注文者がいない
	ErrInvalidCustomer = errors.New("invalid customer")
	//400 在庫不足
	ErrInsufficientStock = errors.New("insufficient stock")
	//400 もう完了している
	ErrAlreadyFinished = errors.New("already finished")
	//500 打ち消しに失敗（台帳が壊れている可能性）
	ErrRollbackFailed = errors.New("rollback failed")
	//500 保存先のエラー
	ErrPersistence = errors.New("persistence error")
	//401 認証失敗
	ErrUnauthorized = errors.New("unauthorized")
	//403 権限
	ErrForbidden = errors.New("forbidden")
	//409 競合
	ErrConflict = errors.New("conflict")
)

var statusByKind = map[error]int{
	ErrInvalidInput:      http.StatusBadRequest,
	ErrNotFound:          http.StatusBadRequest,
	ErrInvalidCustomer:   http.StatusBadRequest,
	ErrInsufficientStock: http.StatusBadRequest,
	ErrAlreadyFinished:   http.StatusBadRequest,
	ErrRollbackFailed:    http.StatusInternalServerError,
	ErrPersistence:       http.StatusInternalServerError,
	ErrUnauthorized:      http.StatusUnauthorized,
	ErrForbidden:         http.StatusForbidden,
	ErrConflict:          http.StatusConflict,
}

// HTTPError はhandlerがそのまま返せるエラー
// Codeはメッセージカタログのキー、Argsはその埋め込み値
type HTTPError struct {
	Status int
	Kind   error
	Code   string
	Args   []any
	Err    error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d %s: %v", e.Status, e.Code, e.Err)
	}
	return fmt.Sprintf("%d %s", e.Status, e.Code)
}

// errors.Is で種類と原因の両方を見られる
func (e *HTTPError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func NewHTTPError(kind error, code string, args ...any) error {
	return WrapHTTPError(kind, nil, code, args...)
}

func WrapHTTPError(kind error, cause error, code string, args ...any) error {
	status, ok := statusByKind[kind]
	if !ok {
		status = http.StatusInternalServerError
	}
	return &HTTPError{
		Status: status,
		Kind:   kind,
		Code:   code,
		Args:   args,
		Err:    cause,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

func dbError(err error) error {
	return WrapHTTPError(ErrPersistence, err, "db.error")
}
