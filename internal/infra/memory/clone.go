package memory

import (
	"time"

	"restaurant/internal/domain/model"
)

// 外に渡す値は中身をコピーして、goroutineの状態と共有しない

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneFood(f model.Food) model.Food {
	f.Recipe = append([]model.FoodMaterial(nil), f.Recipe...)
	for i := range f.Recipe {
		f.Recipe[i].Material = nil
	}
	return f
}

func cloneOrder(o model.Order) model.Order {
	o.OrderedProducts = append([]model.OrderedProduct(nil), o.OrderedProducts...)
	o.FinishedCokingTime = cloneTime(o.FinishedCokingTime)
	o.FinishedTime = cloneTime(o.FinishedTime)
	return o
}

func cloneUser(u model.User) *model.User {
	u.LastLoginAt = cloneTime(u.LastLoginAt)
	return &u
}

func cloneToken(t model.RefreshToken) *model.RefreshToken {
	t.UsedAt = cloneTime(t.UsedAt)
	t.RevokedAt = cloneTime(t.RevokedAt)
	return &t
}

func paginate[T any](items []T, page, limit int) []T {
	offset := (page - 1) * limit
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return append([]T(nil), items[offset:end]...)
}

func normalizePage(page, limit, maxLimit, defLimit int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > maxLimit {
		limit = defLimit
	}
	return page, limit
}
