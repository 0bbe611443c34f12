package repository

import (
	"context"

	"restaurant/internal/domain/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type StockGormRepository struct {
	db *gorm.DB
}

func NewStockGormRepository(db *gorm.DB) *StockGormRepository {
	return &StockGormRepository{db: db}
}

type stockRow struct {
	MaterialID string
	Total      decimal.Decimal
}

func (r *StockGormRepository) CurrentStock(ctx context.Context, materialID string) (decimal.Decimal, error) {
	m, err := r.CurrentStockOf(ctx, []string{materialID})
	if err != nil {
		return decimal.Zero, err
	}
	return m[materialID], nil
}

// 1回のGROUP BYで集計
func (r *StockGormRepository) CurrentStockAll(ctx context.Context) (map[string]decimal.Decimal, error) {
	return r.sum(r.db.WithContext(ctx).Model(&model.StockEntry{}))
}

func (r *StockGormRepository) CurrentStockOf(ctx context.Context, materialIDs []string) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal, len(materialIDs))
	if len(materialIDs) == 0 {
		return out, nil
	}

	sums, err := r.sum(r.db.WithContext(ctx).Model(&model.StockEntry{}).Where("material_id IN ?", materialIDs))
	if err != nil {
		return nil, err
	}
	//行がない材料は0
	for _, id := range materialIDs {
		out[id] = sums[id]
	}
	return out, nil
}

func (r *StockGormRepository) sum(q *gorm.DB) (map[string]decimal.Decimal, error) {
	var rows []stockRow
	err := q.Select("material_id, COALESCE(SUM(quantity), 0) AS total").
		Group("material_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		out[row.MaterialID] = row.Total
	}
	return out, nil
}
