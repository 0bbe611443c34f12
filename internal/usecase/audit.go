package usecase

import (
	"encoding/json"

	"restaurant/internal/domain/model"

	"gorm.io/datatypes"
)

// 監査ログを組み立てる。before/afterはJSONで残す
func newAuditLog(
	idGen IDGenerator,
	clock Clock,
	actorID string,
	action model.AuditAction,
	resourceType model.AuditResourceType,
	resourceID string,
	before any,
	after any,
) (model.AuditLog, error) {
	b, err := toJSON(before)
	if err != nil {
		return model.AuditLog{}, err
	}
	a, err := toJSON(after)
	if err != nil {
		return model.AuditLog{}, err
	}

	return model.AuditLog{
		ID:           idGen.NewID(),
		ActorUserID:  actorID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Before:       b,
		After:        a,
		CreatedAt:    clock.Now(),
	}, nil
}

func toJSON(v any) (datatypes.JSON, error) {
	if v == nil {
		return nil, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
