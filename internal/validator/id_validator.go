package validator

import (
	"errors"

	"github.com/google/uuid"
)

var ErrInvalidID = errors.New("invalid id")

// ParseID はパスやボディのIDがUUIDか確かめる
func ParseID(id string) error {
	if id == "" {
		return ErrInvalidID
	}
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidID
	}
	return nil
}
