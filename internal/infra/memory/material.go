package memory

import (
	"context"
	"sort"

	"restaurant/internal/domain/model"
	repo "restaurant/internal/repository"
)

type materialRepo struct {
	exec execFn
}

func (r *materialRepo) Create(ctx context.Context, m model.Material) (model.Material, error) {
	err := r.exec(ctx, func(st *state) error {
		if _, ok := st.materials[m.ID]; ok {
			return repo.ErrConflict
		}
		for _, other := range st.materials {
			if other.Name == m.Name {
				return repo.ErrConflict
			}
		}
		st.materials[m.ID] = m
		return nil
	})
	if err != nil {
		return model.Material{}, err
	}
	return m, nil
}

func (r *materialRepo) FindByID(ctx context.Context, materialID string) (model.Material, error) {
	var out model.Material
	err := r.exec(ctx, func(st *state) error {
		m, ok := st.materials[materialID]
		if !ok {
			return repo.ErrNotFound
		}
		out = m
		return nil
	})
	return out, err
}

func (r *materialRepo) FindByName(ctx context.Context, name string) (model.Material, error) {
	canonical := model.CanonicalMaterialName(name)
	var out model.Material
	err := r.exec(ctx, func(st *state) error {
		for _, m := range st.materials {
			if m.Name == canonical {
				out = m
				return nil
			}
		}
		return repo.ErrNotFound
	})
	return out, err
}

func (r *materialRepo) List(ctx context.Context) ([]model.Material, error) {
	var out []model.Material
	err := r.exec(ctx, func(st *state) error {
		out = make([]model.Material, 0, len(st.materials))
		for _, m := range st.materials {
			out = append(out, m)
		}
		return nil
	})
	if err != nil {
		return []model.Material{}, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *materialRepo) Rename(ctx context.Context, materialID string, name string, displayName string) error {
	return r.exec(ctx, func(st *state) error {
		m, ok := st.materials[materialID]
		if !ok {
			return repo.ErrNotFound
		}
		for id, other := range st.materials {
			if id != materialID && other.Name == name {
				return repo.ErrConflict
			}
		}
		m.Name = name
		m.DisplayName = displayName
		st.materials[materialID] = m
		return nil
	})
}

func (r *materialRepo) Delete(ctx context.Context, materialID string) error {
	return r.exec(ctx, func(st *state) error {
		if _, ok := st.materials[materialID]; !ok {
			return repo.ErrNotFound
		}
		for _, e := range st.entries {
			if e.MaterialID == materialID {
				return repo.ErrReferenced
			}
		}
		for _, f := range st.foods {
			for _, line := range f.Recipe {
				if line.MaterialID == materialID {
					return repo.ErrReferenced
				}
			}
		}
		delete(st.materials, materialID)
		return nil
	})
}

// Txは全部順番に動くのでロックは不要。存在する材料だけID順で返す
func (r *materialRepo) LockForUpdate(ctx context.Context, materialIDs []string) ([]model.Material, error) {
	out := []model.Material{}
	err := r.exec(ctx, func(st *state) error {
		for _, id := range materialIDs {
			if m, ok := st.materials[id]; ok {
				out = append(out, m)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}
