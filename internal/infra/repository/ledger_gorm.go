package repository

import (
	"context"

	"restaurant/internal/domain/model"
	repo "restaurant/internal/repository"

	"gorm.io/gorm"
)

type LedgerGormRepository struct {
	db *gorm.DB
}

func NewLedgerGormRepository(db *gorm.DB) *LedgerGormRepository {
	return &LedgerGormRepository{db: db}
}

// 1件追記
func (r *LedgerGormRepository) Append(ctx context.Context, entry model.StockEntry) (model.StockEntry, error) {
	if err := r.db.WithContext(ctx).Omit("Material").Create(&entry).Error; err != nil {
		return model.StockEntry{}, mapErr(err)
	}
	return entry, nil
}

// 取り消し。0件でもOK
func (r *LedgerGormRepository) DeleteByReason(ctx context.Context, reason string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("message = ?", reason).
		Delete(&model.StockEntry{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *LedgerGormRepository) FindByID(ctx context.Context, entryID string) (model.StockEntry, error) {
	var e model.StockEntry
	err := r.db.WithContext(ctx).
		Preload("Material").
		Where("id = ?", entryID).
		First(&e).Error
	if err != nil {
		return model.StockEntry{}, mapErr(err)
	}
	return e, nil
}

func (r *LedgerGormRepository) List(ctx context.Context, f repo.LedgerFilter) ([]model.StockEntry, int64, error) {
	f.Page, f.Limit = normalizePage(f.Page, f.Limit, 100, 20)

	q := r.db.WithContext(ctx).Model(&model.StockEntry{})

	//材料で絞り込み
	if f.MaterialID != "" {
		q = q.Where("stock_entries.material_id = ?", f.MaterialID)
	}
	if f.Name != "" {
		q = q.Joins("JOIN materials ON materials.id = stock_entries.material_id").
			Where(`materials.name LIKE ? ESCAPE '\'`, containsPattern(model.CanonicalMaterialName(f.Name)))
	}
	if f.Message != "" {
		q = q.Where("stock_entries.message = ?", f.Message)
	}

	//数量の範囲
	if f.MinQuantity != nil {
		q = q.Where("stock_entries.quantity >= ?", *f.MinQuantity)
	}
	if f.MaxQuantity != nil {
		q = q.Where("stock_entries.quantity <= ?", *f.MaxQuantity)
	}

	//期間絞り込み
	if f.From != nil {
		q = q.Where("stock_entries.created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("stock_entries.created_at <= ?", *f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.StockEntry{}, 0, err
	}

	var items []model.StockEntry
	offset := (f.Page - 1) * f.Limit
	err := q.Preload("Material").
		Order("stock_entries.created_at desc, stock_entries.id").
		Limit(f.Limit).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return []model.StockEntry{}, 0, err
	}
	return items, total, nil
}

// 数量とメッセージだけ更新
func (r *LedgerGormRepository) Update(ctx context.Context, entry model.StockEntry) error {
	res := r.db.WithContext(ctx).
		Model(&model.StockEntry{}).
		Where("id = ?", entry.ID).
		Updates(map[string]any{
			"quantity": entry.Quantity,
			"message":  entry.Message,
		})
	if res.Error != nil {
		return mapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *LedgerGormRepository) Delete(ctx context.Context, entryID string) error {
	res := r.db.WithContext(ctx).
		Where("id = ?", entryID).
		Delete(&model.StockEntry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
