package models

import "time"

// MaxTokenLength bounds a push device token; FCM tokens are far shorter.
const MaxTokenLength = 4096

// Subscriber is a registered push-messaging device token
type Subscriber struct {
	Token     string    `json:"token" db:"token"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Notification is the message fanned out to every subscriber
type Notification struct {
	Title string `json:"title" binding:"required"`
	Body  string `json:"body" binding:"required"`
}

// BroadcastSummary tallies a fan-out. Failed tokens stay registered.
type BroadcastSummary struct {
	SuccessCount int `json:"success_count"`
	FailureCount int `json:"failure_count"`
	Total        int `json:"total"`
}
