package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// 材料（小麦粉、牛乳など）。在庫は台帳から集計する
type Material struct {
	ID string `gorm:"type:uuid;primaryKey" json:"_id"`

	//正規化した名前（小文字・前後空白なし）
	Name string `gorm:"type:varchar(255);not null;uniqueIndex" json:"name"`

	//表示名
	DisplayName string `gorm:"type:varchar(255);not null" json:"displayName"`

	//単位（kg / l / pcs）
	Unit string `gorm:"type:varchar(20);not null" json:"unit"`

	//在庫少なめ判定のしきい値（任意）
	LowStockThreshold decimal.NullDecimal `gorm:"type:numeric(20,4)" json:"lowStockThreshold"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

// CanonicalMaterialName は材料名を検索用の形にそろえる
func CanonicalMaterialName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
