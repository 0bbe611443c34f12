package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"restaurant/internal/domain/model"
	repo "restaurant/internal/repository"
)

type orderRepo struct {
	exec execFn
}

func (r *orderRepo) Create(ctx context.Context, order model.Order) (model.Order, error) {
	order = cloneOrder(order)
	for i := range order.OrderedProducts {
		order.OrderedProducts[i].OrderID = order.ID
	}
	err := r.exec(ctx, func(st *state) error {
		if _, ok := st.orders[order.ID]; ok {
			return repo.ErrConflict
		}
		st.orderSeq++
		order.OrderNumber = st.orderSeq
		st.orders[order.ID] = order
		return nil
	})
	if err != nil {
		return model.Order{}, err
	}
	return cloneOrder(order), nil
}

func (r *orderRepo) FindByID(ctx context.Context, orderID string) (model.Order, error) {
	var out model.Order
	err := r.exec(ctx, func(st *state) error {
		o, ok := st.orders[orderID]
		if !ok {
			return repo.ErrNotFound
		}
		out = cloneOrder(o)
		return nil
	})
	return out, err
}

func (r *orderRepo) List(ctx context.Context, f repo.OrderListFilter) ([]model.Order, int64, error) {
	f.Page, f.Limit = normalizePage(f.Page, f.Limit, 100, 50)

	var hit []model.Order
	err := r.exec(ctx, func(st *state) error {
		for _, o := range st.orders {
			if f.CostumerID != "" && o.CostumerID != f.CostumerID {
				continue
			}
			if f.Unfinished && (o.FinishedCokingTime != nil || o.FinishedTime != nil) {
				continue
			}
			if f.From != nil && o.OrderedTime.Before(*f.From) {
				continue
			}
			if f.To != nil && o.OrderedTime.After(*f.To) {
				continue
			}
			hit = append(hit, cloneOrder(o))
		}
		return nil
	})
	if err != nil {
		return []model.Order{}, 0, err
	}

	sort.Slice(hit, func(i, j int) bool { return hit[i].OrderNumber < hit[j].OrderNumber })
	return paginate(hit, f.Page, f.Limit), int64(len(hit)), nil
}

// 0件でもOK
func (r *orderRepo) Delete(ctx context.Context, orderID string) error {
	return r.exec(ctx, func(st *state) error {
		delete(st.orders, orderID)
		return nil
	})
}

func (r *orderRepo) MarkTime(ctx context.Context, orderID string, field model.OrderTimeField, at time.Time) (bool, error) {
	var set bool
	err := r.exec(ctx, func(st *state) error {
		o, ok := st.orders[orderID]
		if !ok {
			return repo.ErrNotFound
		}
		if o.TimeOf(field) != nil {
			return nil
		}
		if err := setTime(&o, field, cloneTime(&at)); err != nil {
			return err
		}
		st.orders[orderID] = o
		set = true
		return nil
	})
	return set, err
}

func (r *orderRepo) ClearTime(ctx context.Context, orderID string, field model.OrderTimeField) error {
	return r.exec(ctx, func(st *state) error {
		o, ok := st.orders[orderID]
		if !ok {
			return repo.ErrNotFound
		}
		if err := setTime(&o, field, nil); err != nil {
			return err
		}
		st.orders[orderID] = o
		return nil
	})
}

func setTime(o *model.Order, field model.OrderTimeField, v *time.Time) error {
	switch field {
	case model.OrderFinishedCokingTime:
		o.FinishedCokingTime = v
	case model.OrderFinishedTime:
		o.FinishedTime = v
	default:
		return fmt.Errorf("unknown order time field %q", field)
	}
	return nil
}
