package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Food struct {
	ID       string          `gorm:"type:uuid;primaryKey" json:"_id"`
	Name     string          `gorm:"type:varchar(255);not null;uniqueIndex" json:"name"`
	Price    decimal.Decimal `gorm:"type:numeric(20,4);not null" json:"price"`
	IsActive bool            `gorm:"not null" json:"isActive"`

	//レシピ（1個あたりに使う材料）
	Recipe []FoodMaterial `gorm:"foreignKey:FoodID;constraint:OnDelete:CASCADE" json:"materials"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

// レシピの1行
type FoodMaterial struct {
	FoodID     string          `gorm:"type:uuid;primaryKey" json:"-"`
	MaterialID string          `gorm:"type:uuid;primaryKey" json:"materialId"`
	Material   *Material       `gorm:"foreignKey:MaterialID;constraint:OnDelete:RESTRICT" json:"-"`
	Quantity   decimal.Decimal `gorm:"type:numeric(20,4);not null" json:"quantity"`
}
