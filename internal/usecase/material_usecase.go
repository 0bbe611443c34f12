package usecase

import (
	"context"
	"errors"
	"strings"

	"restaurant/internal/domain/model"
	repo "restaurant/internal/repository"
	"restaurant/internal/validator"

	"github.com/shopspring/decimal"
)

var allowedUnits = map[string]struct{}{
	"kg":  {},
	"g":   {},
	"l":   {},
	"ml":  {},
	"pcs": {},
}

type MaterialUsecase struct {
	materials repo.MaterialRepository
	stock     *StockAggregator
	idGen     IDGenerator
	clock     Clock
}

func NewMaterialUsecase(materials repo.MaterialRepository, stock *StockAggregator, idGen IDGenerator, clock Clock) *MaterialUsecase {
	return &MaterialUsecase{materials: materials, stock: stock, idGen: idGen, clock: clock}
}

type CreateMaterialInput struct {
	Name              string           `json:"name"`
	Unit              string           `json:"unit"`
	LowStockThreshold *decimal.Decimal `json:"lowStockThreshold"`
}

func (u *MaterialUsecase) Create(ctx context.Context, in CreateMaterialInput) (model.Material, error) {
	display := strings.TrimSpace(in.Name)
	if display == "" || len(display) > 255 {
		return model.Material{}, NewHTTPError(ErrInvalidInput, "material.name_invalid")
	}
	unit := strings.ToLower(strings.TrimSpace(in.Unit))
	if _, ok := allowedUnits[unit]; !ok {
		return model.Material{}, NewHTTPError(ErrInvalidInput, "material.unit_invalid")
	}

	m := model.Material{
		ID:          u.idGen.NewID(),
		Name:        model.CanonicalMaterialName(display),
		DisplayName: display,
		Unit:        unit,
	}
	if in.LowStockThreshold != nil {
		if in.LowStockThreshold.IsNegative() {
			return model.Material{}, NewHTTPError(ErrInvalidInput, "inventory.threshold_invalid")
		}
		m.LowStockThreshold = decimal.NewNullDecimal(*in.LowStockThreshold)
	}
	now := u.clock.Now()
	m.CreatedAt = now
	m.UpdatedAt = now

	created, err := u.materials.Create(ctx, m)
	if errors.Is(err, repo.ErrConflict) {
		return model.Material{}, NewHTTPError(ErrConflict, "material.name_taken", display)
	}
	if err != nil {
		return model.Material{}, dbError(err)
	}
	return created, nil
}

// List は材料と現在庫
func (u *MaterialUsecase) List(ctx context.Context) ([]MaterialStock, error) {
	return u.stock.StockAll(ctx)
}

// Rename は材料名を変える。台帳はIDで持っているので影響しない
func (u *MaterialUsecase) Rename(ctx context.Context, materialID string, name string) (model.Material, error) {
	if validator.ParseID(materialID) != nil {
		return model.Material{}, NewHTTPError(ErrInvalidInput, "id.invalid")
	}
	display := strings.TrimSpace(name)
	if display == "" || len(display) > 255 {
		return model.Material{}, NewHTTPError(ErrInvalidInput, "material.name_invalid")
	}

	err := u.materials.Rename(ctx, materialID, model.CanonicalMaterialName(display), display)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return model.Material{}, NewHTTPError(ErrNotFound, "inventory.material_not_found", materialID)
	case errors.Is(err, repo.ErrConflict):
		return model.Material{}, NewHTTPError(ErrConflict, "material.name_taken", display)
	case err != nil:
		return model.Material{}, dbError(err)
	}

	m, err := u.materials.FindByID(ctx, materialID)
	if err != nil {
		return model.Material{}, dbError(err)
	}
	return m, nil
}

// Delete は台帳やレシピで使われていない材料だけ消す
func (u *MaterialUsecase) Delete(ctx context.Context, materialID string) error {
	if validator.ParseID(materialID) != nil {
		return NewHTTPError(ErrInvalidInput, "id.invalid")
	}

	err := u.materials.Delete(ctx, materialID)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return NewHTTPError(ErrNotFound, "inventory.material_not_found", materialID)
	case errors.Is(err, repo.ErrReferenced):
		return NewHTTPError(ErrInvalidInput, "material.in_use")
	case err != nil:
		return dbError(err)
	}
	return nil
}
