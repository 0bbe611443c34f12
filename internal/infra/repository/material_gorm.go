package repository

import (
	"context"
	"errors"

	"restaurant/internal/domain/model"
	repo "restaurant/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MaterialGormRepository struct {
	db *gorm.DB
}

func NewMaterialGormRepository(db *gorm.DB) *MaterialGormRepository {
	return &MaterialGormRepository{db: db}
}

func (r *MaterialGormRepository) Create(ctx context.Context, m model.Material) (model.Material, error) {
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return model.Material{}, mapErr(err)
	}
	return m, nil
}

func (r *MaterialGormRepository) FindByID(ctx context.Context, materialID string) (model.Material, error) {
	var m model.Material
	if err := r.db.WithContext(ctx).Where("id = ?", materialID).First(&m).Error; err != nil {
		return model.Material{}, mapErr(err)
	}
	return m, nil
}

func (r *MaterialGormRepository) FindByName(ctx context.Context, name string) (model.Material, error) {
	var m model.Material
	err := r.db.WithContext(ctx).
		Where("name = ?", model.CanonicalMaterialName(name)).
		First(&m).Error
	if err != nil {
		return model.Material{}, mapErr(err)
	}
	return m, nil
}

func (r *MaterialGormRepository) List(ctx context.Context) ([]model.Material, error) {
	var items []model.Material
	if err := r.db.WithContext(ctx).Order("name").Find(&items).Error; err != nil {
		return []model.Material{}, err
	}
	return items, nil
}

func (r *MaterialGormRepository) Rename(ctx context.Context, materialID string, name string, displayName string) error {
	res := r.db.WithContext(ctx).
		Model(&model.Material{}).
		Where("id = ?", materialID).
		Updates(map[string]any{
			"name":         name,
			"display_name": displayName,
		})
	if res.Error != nil {
		return mapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 台帳・レシピから参照されていたら消さない
func (r *MaterialGormRepository) Delete(ctx context.Context, materialID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var refs int64
		if err := tx.Model(&model.StockEntry{}).Where("material_id = ?", materialID).Count(&refs).Error; err != nil {
			return err
		}
		if refs == 0 {
			if err := tx.Model(&model.FoodMaterial{}).Where("material_id = ?", materialID).Count(&refs).Error; err != nil {
				return err
			}
		}
		if refs > 0 {
			return repo.ErrReferenced
		}

		res := tx.Where("id = ?", materialID).Delete(&model.Material{})
		if res.Error != nil {
			err := mapErr(res.Error)
			if errors.Is(err, repo.ErrReferenced) {
				return repo.ErrReferenced
			}
			return err
		}
		if res.RowsAffected == 0 {
			return repo.ErrNotFound
		}
		return nil
	})
}

// 行ロック。ID順でロックを取る
func (r *MaterialGormRepository) LockForUpdate(ctx context.Context, materialIDs []string) ([]model.Material, error) {
	if len(materialIDs) == 0 {
		return []model.Material{}, nil
	}

	var items []model.Material
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", materialIDs).
		Order("id").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
