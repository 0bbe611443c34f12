package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 注文の時刻カラム（キッチン完了 / 受け渡し）
type OrderTimeField string

const (
	OrderFinishedCokingTime OrderTimeField = "finished_coking_time"
	OrderFinishedTime       OrderTimeField = "finished_time"
)

type Order struct {
	ID string `gorm:"type:uuid;primaryKey" json:"_id"`

	//連番（DBのシーケンス）
	OrderNumber int64 `gorm:"autoIncrement;not null;uniqueIndex" json:"orderNumber"`

	CostumerID      string           `gorm:"type:uuid;not null;index" json:"costumerId"`
	OrderedProducts []OrderedProduct `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"orderedProducts"`
	OrderedTime     time.Time        `gorm:"not null;index" json:"orderedTime"`
	TotalPrice      decimal.Decimal  `gorm:"type:numeric(20,4);not null" json:"totalPrice"`

	//キッチンで作り終わった時刻（未完了ならnull）
	FinishedCokingTime *time.Time `gorm:"index" json:"finishedCokingTime"`

	//受け渡した時刻（未完了ならnull）
	FinishedTime *time.Time `gorm:"index" json:"finishedTime"`
}

// 注文明細。注文時点の単価を保存
type OrderedProduct struct {
	OrderID   string          `gorm:"type:uuid;primaryKey" json:"-"`
	Line      int             `gorm:"primaryKey;autoIncrement:false" json:"line"`
	FoodID    string          `gorm:"type:uuid;not null;index" json:"_id"`
	Quantity  int64           `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(20,4);not null" json:"unitPrice"`
}

// TimeOf は指定カラムの現在値を返す
func (o Order) TimeOf(f OrderTimeField) *time.Time {
	switch f {
	case OrderFinishedCokingTime:
		return o.FinishedCokingTime
	case OrderFinishedTime:
		return o.FinishedTime
	default:
		return nil
	}
}
