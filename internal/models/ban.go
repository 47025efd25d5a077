package models

import "time"

// Ban marks a client id as barred from writing.
// ViolationCount grows by one for every write attempted while banned.
type Ban struct {
	ClientID       string    `json:"client_id" db:"client_id"`
	ViolationCount int       `json:"violation_count" db:"violation_count"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// BanRequest is the JSON body of POST /admin/bans
type BanRequest struct {
	ClientID string `json:"client_id" binding:"required"`
}
