package repository

import (
	"context"
	"strings"

	"restaurant/internal/domain/model"
	repo "restaurant/internal/repository"

	"gorm.io/gorm"
)

type FoodGormRepository struct {
	db *gorm.DB
}

func NewFoodGormRepository(db *gorm.DB) *FoodGormRepository {
	return &FoodGormRepository{db: db}
}

// レシピごと作成
func (r *FoodGormRepository) Create(ctx context.Context, f model.Food) (model.Food, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipe := f.Recipe
		f.Recipe = nil
		if err := tx.Create(&f).Error; err != nil {
			return err
		}
		for i := range recipe {
			recipe[i].FoodID = f.ID
		}
		if len(recipe) > 0 {
			if err := tx.Omit("Material").Create(&recipe).Error; err != nil {
				return err
			}
		}
		f.Recipe = recipe
		return nil
	})
	if err != nil {
		return model.Food{}, mapErr(err)
	}
	return f, nil
}

func (r *FoodGormRepository) FindByID(ctx context.Context, foodID string) (model.Food, error) {
	var f model.Food
	err := r.db.WithContext(ctx).
		Preload("Recipe", func(db *gorm.DB) *gorm.DB { return db.Order("material_id") }).
		Where("id = ?", foodID).
		First(&f).Error
	if err != nil {
		return model.Food{}, mapErr(err)
	}
	return f, nil
}

func (r *FoodGormRepository) List(ctx context.Context, q repo.FoodListQuery) ([]model.Food, int64, error) {
	q.Page, q.Limit = normalizePage(q.Page, q.Limit, 100, 20)

	db := r.db.WithContext(ctx).Model(&model.Food{})
	if q.ActiveOnly {
		db = db.Where("is_active = ?", true)
	}
	if s := strings.TrimSpace(q.Q); s != "" {
		db = db.Where(`LOWER(name) LIKE ? ESCAPE '\'`, containsPattern(strings.ToLower(s)))
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return []model.Food{}, 0, err
	}

	var items []model.Food
	offset := (q.Page - 1) * q.Limit
	err := db.Preload("Recipe").
		Order("name").
		Limit(q.Limit).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return []model.Food{}, 0, err
	}
	return items, total, nil
}
