// Package suppliers manages the supplier catalog.
package suppliers

import (
	"time"

	"github.com/google/uuid"
)

// Supplier represents a supplier entity.
type Supplier struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	ContactEmail *string   `json:"contactEmail"`
	Phone        *string   `json:"phone"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Input carries the writable supplier fields.
type Input struct {
	Name         string  `json:"name" validate:"required,max=200"`
	ContactEmail *string `json:"contactEmail" validate:"omitempty,email,max=320"`
	Phone        *string `json:"phone" validate:"omitempty,max=50"`
}
