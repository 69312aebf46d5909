package model

import "time"

type BaseModel struct {
	ID        string    `db:"id" json:"id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Lifecycle status shared by products and variants.
const (
	StatusActive = "ACTIVE"
	StatusHidden = "HIDDEN"
)
