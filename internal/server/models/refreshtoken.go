package models

import "time"

type RefreshToken struct {
	ID        string
	ProfileID string
	Token     string
	Expires   time.Time
	CreatedAt time.Time
}
