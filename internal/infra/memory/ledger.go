package memory

import (
	"context"
	"sort"
	"strings"

	"restaurant/internal/domain/model"
	repo "restaurant/internal/repository"

	"github.com/shopspring/decimal"
)

type ledgerRepo struct {
	exec execFn
}

func (r *ledgerRepo) Append(ctx context.Context, entry model.StockEntry) (model.StockEntry, error) {
	entry.Material = nil
	err := r.exec(ctx, func(st *state) error {
		if _, ok := st.materials[entry.MaterialID]; !ok {
			return repo.ErrReferenced
		}
		for _, e := range st.entries {
			if e.ID == entry.ID {
				return repo.ErrConflict
			}
		}
		st.entries = append(st.entries, entry)
		return nil
	})
	if err != nil {
		return model.StockEntry{}, err
	}
	return entry, nil
}

func (r *ledgerRepo) DeleteByReason(ctx context.Context, reason string) (int64, error) {
	var n int64
	err := r.exec(ctx, func(st *state) error {
		kept := st.entries[:0]
		for _, e := range st.entries {
			if e.Message == reason {
				n++
				continue
			}
			kept = append(kept, e)
		}
		st.entries = kept
		return nil
	})
	return n, err
}

func (r *ledgerRepo) FindByID(ctx context.Context, entryID string) (model.StockEntry, error) {
	var out model.StockEntry
	err := r.exec(ctx, func(st *state) error {
		for _, e := range st.entries {
			if e.ID == entryID {
				out = withMaterial(st, e)
				return nil
			}
		}
		return repo.ErrNotFound
	})
	return out, err
}

func (r *ledgerRepo) List(ctx context.Context, f repo.LedgerFilter) ([]model.StockEntry, int64, error) {
	f.Page, f.Limit = normalizePage(f.Page, f.Limit, 100, 20)
	name := model.CanonicalMaterialName(f.Name)

	var (
		items []model.StockEntry
		total int64
	)
	err := r.exec(ctx, func(st *state) error {
		var hit []model.StockEntry
		for _, e := range st.entries {
			if !matchEntry(st, e, f, name) {
				continue
			}
			hit = append(hit, withMaterial(st, e))
		}

		//新しい順
		sort.SliceStable(hit, func(i, j int) bool {
			if !hit[i].CreatedAt.Equal(hit[j].CreatedAt) {
				return hit[i].CreatedAt.After(hit[j].CreatedAt)
			}
			return hit[i].ID < hit[j].ID
		})

		total = int64(len(hit))
		items = paginate(hit, f.Page, f.Limit)
		return nil
	})
	if err != nil {
		return []model.StockEntry{}, 0, err
	}
	return items, total, nil
}

func matchEntry(st *state, e model.StockEntry, f repo.LedgerFilter, name string) bool {
	if f.MaterialID != "" && e.MaterialID != f.MaterialID {
		return false
	}
	if name != "" && !strings.Contains(st.materials[e.MaterialID].Name, name) {
		return false
	}
	if f.Message != "" && e.Message != f.Message {
		return false
	}
	if f.MinQuantity != nil && e.Quantity.LessThan(*f.MinQuantity) {
		return false
	}
	if f.MaxQuantity != nil && e.Quantity.GreaterThan(*f.MaxQuantity) {
		return false
	}
	if f.From != nil && e.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && e.CreatedAt.After(*f.To) {
		return false
	}
	return true
}

func withMaterial(st *state, e model.StockEntry) model.StockEntry {
	if m, ok := st.materials[e.MaterialID]; ok {
		e.Material = &m
	}
	return e
}

func (r *ledgerRepo) Update(ctx context.Context, entry model.StockEntry) error {
	return r.exec(ctx, func(st *state) error {
		for i := range st.entries {
			if st.entries[i].ID == entry.ID {
				st.entries[i].Quantity = entry.Quantity
				st.entries[i].Message = entry.Message
				return nil
			}
		}
		return repo.ErrNotFound
	})
}

func (r *ledgerRepo) Delete(ctx context.Context, entryID string) error {
	return r.exec(ctx, func(st *state) error {
		for i := range st.entries {
			if st.entries[i].ID == entryID {
				st.entries = append(st.entries[:i], st.entries[i+1:]...)
				return nil
			}
		}
		return repo.ErrNotFound
	})
}

type stockRepo struct {
	exec execFn
}

func (r *stockRepo) CurrentStock(ctx context.Context, materialID string) (decimal.Decimal, error) {
	m, err := r.CurrentStockOf(ctx, []string{materialID})
	if err != nil {
		return decimal.Zero, err
	}
	return m[materialID], nil
}

func (r *stockRepo) CurrentStockAll(ctx context.Context) (map[string]decimal.Decimal, error) {
	var out map[string]decimal.Decimal
	err := r.exec(ctx, func(st *state) error {
		out = model.SumStock(st.entries)
		return nil
	})
	return out, err
}

func (r *stockRepo) CurrentStockOf(ctx context.Context, materialIDs []string) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal, len(materialIDs))
	err := r.exec(ctx, func(st *state) error {
		want := make(map[string]bool, len(materialIDs))
		for _, id := range materialIDs {
			want[id] = true
			out[id] = decimal.Zero
		}
		for _, e := range st.entries {
			if want[e.MaterialID] {
				out[e.MaterialID] = out[e.MaterialID].Add(e.Quantity)
			}
		}
		return nil
	})
	return out, err
}
