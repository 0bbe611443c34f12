package repository

import (
	"context"
	"fmt"
	"time"

	"restaurant/internal/domain/model"
	repo "restaurant/internal/repository"

	"gorm.io/gorm"
)

type OrderGormRepository struct {
	db *gorm.DB
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

func linesByLine(db *gorm.DB) *gorm.DB { return db.Order("line") }

func (r *OrderGormRepository) FindByID(ctx context.Context, orderID string) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Preload("OrderedProducts", linesByLine).
		Where("id = ?", orderID).
		First(&o).Error
	if err != nil {
		return model.Order{}, mapErr(err)
	}
	return o, nil
}

func (r *OrderGormRepository) List(ctx context.Context, f repo.OrderListFilter) ([]model.Order, int64, error) {
	f.Page, f.Limit = normalizePage(f.Page, f.Limit, 100, 50)

	q := r.db.WithContext(ctx).Model(&model.Order{})

	//注文者で絞り込み
	if f.CostumerID != "" {
		q = q.Where("costumer_id = ?", f.CostumerID)
	}

	//調理も受け渡しもまだのものだけ
	if f.Unfinished {
		q = q.Where("finished_coking_time IS NULL AND finished_time IS NULL")
	}

	//期間絞り込み
	if f.From != nil {
		q = q.Where("ordered_time >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("ordered_time <= ?", *f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.Order{}, 0, err
	}

	var items []model.Order
	offset := (f.Page - 1) * f.Limit
	err := q.Preload("OrderedProducts", linesByLine).
		Order("order_number asc").
		Limit(f.Limit).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return []model.Order{}, 0, err
	}
	return items, total, nil
}

// 明細ごと作成。order_numberはRETURNINGで埋まる
func (r *OrderGormRepository) Create(ctx context.Context, order model.Order) (model.Order, error) {
	for i := range order.OrderedProducts {
		order.OrderedProducts[i].OrderID = order.ID
	}
	if err := r.db.WithContext(ctx).Create(&order).Error; err != nil {
		return model.Order{}, mapErr(err)
	}
	return order, nil
}

// 明細→注文の順で消す。0件でもOK
func (r *OrderGormRepository) Delete(ctx context.Context, orderID string) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("order_id = ?", orderID).Delete(&model.OrderedProduct{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", orderID).Delete(&model.Order{}).Error
}

// nullのときだけセット（同時に2回完了させない）
func (r *OrderGormRepository) MarkTime(ctx context.Context, orderID string, field model.OrderTimeField, at time.Time) (bool, error) {
	col, err := timeColumn(field)
	if err != nil {
		return false, err
	}

	res := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ? AND "+col+" IS NULL", orderID).
		Update(col, at)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 1 {
		return true, nil
	}

	//0件なら「ない」か「もう入ってる」
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Order{}).Where("id = ?", orderID).Count(&n).Error; err != nil {
		return false, err
	}
	if n == 0 {
		return false, repo.ErrNotFound
	}
	return false, nil
}

func (r *OrderGormRepository) ClearTime(ctx context.Context, orderID string, field model.OrderTimeField) error {
	col, err := timeColumn(field)
	if err != nil {
		return err
	}

	res := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ?", orderID).
		Update(col, gorm.Expr("NULL"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// カラム名はホワイトリストで
func timeColumn(field model.OrderTimeField) (string, error) {
	switch field {
	case model.OrderFinishedCokingTime, model.OrderFinishedTime:
		return string(field), nil
	default:
		return "", fmt.Errorf("unknown order time field %q", field)
	}
}
