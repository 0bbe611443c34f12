package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 在庫台帳の1行。プラスは入荷、マイナスは消費
// 注文による消費はMessageに注文IDを入れる（取り消し時の目印）
type StockEntry struct {
	ID         string          `gorm:"type:uuid;primaryKey" json:"_id"`
	MaterialID string          `gorm:"type:uuid;not null;index" json:"materialId"`
	Material   *Material       `gorm:"foreignKey:MaterialID;constraint:OnDelete:RESTRICT" json:"material,omitempty"`
	Quantity   decimal.Decimal `gorm:"type:numeric(20,4);not null" json:"quantity"`
	Message    string          `gorm:"type:varchar(255);not null;index" json:"message"`
	CreatedAt  time.Time       `gorm:"not null;index" json:"createdAt"`
}

func (StockEntry) TableName() string { return "stock_entries" }

// SumStock は台帳を材料ごとに合計する。順番には依存しない
func SumStock(entries []StockEntry) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, e := range entries {
		out[e.MaterialID] = out[e.MaterialID].Add(e.Quantity)
	}
	return out
}
