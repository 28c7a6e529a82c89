package entity

import (
	"time"

	"github.com/google/uuid"
)

// Brand is a storefront whose insights have been extracted at least once.
type Brand struct {
	ID         uuid.UUID `json:"id"`
	WebsiteURL string    `json:"website_url"`
	CreatedAt  time.Time `json:"created_at"`
}
