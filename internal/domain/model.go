package domain

import (
	"time"

	"gorm.io/gorm"
)

// Model is embedded by every persisted entity. DeletedAt gives soft delete.
type Model struct {
	ID        int64          `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}

// Base exposes the embedded Model so generic code can reach the identity
// and timestamp columns.
func (m *Model) Base() *Model { return m }

// Entity is implemented by pointers to every model embedding Model.
type Entity interface {
	Base() *Model
}
