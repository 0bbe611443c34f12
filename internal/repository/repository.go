package repository

import "errors"

var (
	// 見つからないを統一
	ErrNotFound = errors.New("not found")

	// 一意制約違反
	ErrConflict = errors.New("conflict")

	// 外部キー違反（参照されていて消せない／参照先がない）
	ErrReferenced = errors.New("referenced")
)
