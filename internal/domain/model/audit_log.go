package model

import (
	"time"

	"gorm.io/datatypes"
)

type AuditAction string

const (
	//在庫台帳に手動で追加した操作
	AuditActionStockEntry AuditAction = "STOCK_ENTRY"
	//在庫台帳を修正・削除した操作
	AuditActionStockCorrection AuditAction = "STOCK_CORRECTION"
	//キッチン完了 / 取り消し
	AuditActionKitchenFinished AuditAction = "KITCHEN_FINISHED"
	//受け渡し / 取り消し
	AuditActionHandedOver AuditAction = "HANDED_OVER"
)

// 何に対する操作か
type AuditResourceType string

const (
	AuditResourceStockEntry AuditResourceType = "stock_entry"
	AuditResourceOrder      AuditResourceType = "order"
)

// 監査ログ。「誰が」「何を」「どの対象に」「どう変えたか」を残す
type AuditLog struct {
	ID           string            `gorm:"type:uuid;primaryKey" json:"_id"`
	ActorUserID  string            `gorm:"type:uuid;not null;index" json:"actorUserId"`
	Action       AuditAction       `gorm:"type:varchar(50);not null;index" json:"action"`
	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resourceType"`
	ResourceID   string            `gorm:"type:uuid;not null;index" json:"resourceId"`
	Before       datatypes.JSON    `gorm:"type:jsonb" json:"before"`
	After        datatypes.JSON    `gorm:"type:jsonb" json:"after"`
	CreatedAt    time.Time         `gorm:"not null;index" json:"createdAt"`
}
