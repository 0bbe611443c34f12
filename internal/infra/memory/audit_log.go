package memory

import (
	"context"
	"sort"

	"restaurant/internal/domain/model"
	repo "restaurant/internal/repository"
)

type auditLogRepo struct {
	exec execFn
}

func (r *auditLogRepo) Create(ctx context.Context, log model.AuditLog) error {
	return r.exec(ctx, func(st *state) error {
		st.auditLogs = append(st.auditLogs, log)
		return nil
	})
}

func (r *auditLogRepo) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	var hit []model.AuditLog
	err := r.exec(ctx, func(st *state) error {
		for _, l := range st.auditLogs {
			if filter.ActorUserID != "" && l.ActorUserID != filter.ActorUserID {
				continue
			}
			if filter.Action != "" && l.Action != filter.Action {
				continue
			}
			if filter.ResourceType != "" && l.ResourceType != filter.ResourceType {
				continue
			}
			if filter.ResourceID != "" && l.ResourceID != filter.ResourceID {
				continue
			}
			if filter.CreatedFrom != nil && l.CreatedAt.Before(*filter.CreatedFrom) {
				continue
			}
			if filter.CreatedTo != nil && l.CreatedAt.After(*filter.CreatedTo) {
				continue
			}
			hit = append(hit, l)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	//新しい順
	sort.SliceStable(hit, func(i, j int) bool { return hit[i].CreatedAt.After(hit[j].CreatedAt) })

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(hit) {
		return []model.AuditLog{}, nil
	}
	end := offset + limit
	if end > len(hit) {
		end = len(hit)
	}
	return hit[offset:end], nil
}
