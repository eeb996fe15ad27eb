package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// SavedCart is a BA user's unsubmitted cart. There is at most one per user;
// saving again overwrites it in place.
type SavedCart struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	UserID    uuid.UUID       `json:"-" db:"user_id"`
	Cart      json.RawMessage `json:"cart" db:"cart_data"`
	Name      string          `json:"name" db:"name"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}
