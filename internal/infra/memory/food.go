package memory

import (
	"context"
	"sort"
	"strings"

	"restaurant/internal/domain/model"
	repo "restaurant/internal/repository"
)

type foodRepo struct {
	exec execFn
}

func (r *foodRepo) Create(ctx context.Context, f model.Food) (model.Food, error) {
	f = cloneFood(f)
	for i := range f.Recipe {
		f.Recipe[i].FoodID = f.ID
	}
	err := r.exec(ctx, func(st *state) error {
		if _, ok := st.foods[f.ID]; ok {
			return repo.ErrConflict
		}
		for _, other := range st.foods {
			if other.Name == f.Name {
				return repo.ErrConflict
			}
		}
		for _, line := range f.Recipe {
			if _, ok := st.materials[line.MaterialID]; !ok {
				return repo.ErrReferenced
			}
		}
		st.foods[f.ID] = f
		return nil
	})
	if err != nil {
		return model.Food{}, err
	}
	return cloneFood(f), nil
}

func (r *foodRepo) FindByID(ctx context.Context, foodID string) (model.Food, error) {
	var out model.Food
	err := r.exec(ctx, func(st *state) error {
		f, ok := st.foods[foodID]
		if !ok {
			return repo.ErrNotFound
		}
		out = cloneFood(f)
		return nil
	})
	return out, err
}

func (r *foodRepo) List(ctx context.Context, q repo.FoodListQuery) ([]model.Food, int64, error) {
	q.Page, q.Limit = normalizePage(q.Page, q.Limit, 100, 20)
	search := strings.ToLower(strings.TrimSpace(q.Q))

	var hit []model.Food
	err := r.exec(ctx, func(st *state) error {
		for _, f := range st.foods {
			if q.ActiveOnly && !f.IsActive {
				continue
			}
			if search != "" && !strings.Contains(strings.ToLower(f.Name), search) {
				continue
			}
			hit = append(hit, cloneFood(f))
		}
		return nil
	})
	if err != nil {
		return []model.Food{}, 0, err
	}

	sort.Slice(hit, func(i, j int) bool { return hit[i].Name < hit[j].Name })
	return paginate(hit, q.Page, q.Limit), int64(len(hit)), nil
}
