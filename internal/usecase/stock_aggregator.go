package usecase

import (
	"context"
	"errors"
	"sort"

	"restaurant/internal/domain/model"
	repo "restaurant/internal/repository"
	"restaurant/internal/validator"

	"github.com/shopspring/decimal"
)

// 材料と現在庫
type MaterialStock struct {
	Material model.Material  `json:"material"`
	Stock    decimal.Decimal `json:"stock"`
}

// StockAggregator は台帳の集計を返す。読むだけ
type StockAggregator struct {
	stock     repo.StockRepository
	materials repo.MaterialRepository
}

func NewStockAggregator(stock repo.StockRepository, materials repo.MaterialRepository) *StockAggregator {
	return &StockAggregator{stock: stock, materials: materials}
}

func (a *StockAggregator) StockOf(ctx context.Context, materialID string) (MaterialStock, error) {
	if err := validator.ParseID(materialID); err != nil {
		return MaterialStock{}, NewHTTPError(ErrInvalidInput, "id.invalid")
	}

	m, err := a.materials.FindByID(ctx, materialID)
	if errors.Is(err, repo.ErrNotFound) {
		return MaterialStock{}, NewHTTPError(ErrNotFound, "inventory.material_not_found", materialID)
	}
	if err != nil {
		return MaterialStock{}, dbError(err)
	}

	qty, err := a.stock.CurrentStock(ctx, materialID)
	if err != nil {
		return MaterialStock{}, dbError(err)
	}
	return MaterialStock{Material: m, Stock: qty}, nil
}

// StockAll は全材料の在庫。台帳は1回で集計する
func (a *StockAggregator) StockAll(ctx context.Context) ([]MaterialStock, error) {
	materials, err := a.materials.List(ctx)
	if err != nil {
		return nil, dbError(err)
	}
	sums, err := a.stock.CurrentStockAll(ctx)
	if err != nil {
		return nil, dbError(err)
	}

	out := make([]MaterialStock, 0, len(materials))
	for _, m := range materials {
		out = append(out, MaterialStock{Material: m, Stock: sums[m.ID]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Material.Name < out[j].Material.Name })
	return out, nil
}

// LowStock は在庫がしきい値以下の材料
// thresholdがnilなら材料ごとのしきい値を使う（ない材料は対象外）
func (a *StockAggregator) LowStock(ctx context.Context, threshold *decimal.Decimal) ([]MaterialStock, error) {
	if threshold != nil && threshold.IsNegative() {
		return nil, NewHTTPError(ErrInvalidInput, "inventory.threshold_invalid")
	}

	all, err := a.StockAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]MaterialStock, 0)
	for _, ms := range all {
		limit := threshold
		if limit == nil {
			if !ms.Material.LowStockThreshold.Valid {
				continue
			}
			limit = &ms.Material.LowStockThreshold.Decimal
		}
		if ms.Stock.LessThanOrEqual(*limit) {
			out = append(out, ms)
		}
	}
	return out, nil
}
