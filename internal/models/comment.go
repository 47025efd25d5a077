package models

import (
	"time"
)

// Length bounds on comment content, counted in characters (runes).
const (
	MaxUsernameLength = 8
	MaxCommentLength  = 40
)

// Pagination bounds for the daily comment listing
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Comment represents a single board comment.
// ID and CreatedAt are always assigned by the server.
type Comment struct {
	ID        string     `json:"id" db:"id"`
	Username  string     `json:"username" db:"username"`
	Text      string     `json:"comment" db:"text"`
	ClientID  string     `json:"uuid" db:"client_id"`
	SourceIP  string     `json:"-" db:"source_ip"`
	CreatedAt time.Time  `json:"date" db:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// SignedRequest carries the client pseudo-identity and its signature proof
type SignedRequest struct {
	ClientID  string
	Timestamp string // unix milliseconds, as sent in X-Timestamp
	Signature string // hex HMAC-SHA256 of "{ClientID}:{Timestamp}"
}

// SubmitCommentRequest is the input of the submit use case
type SubmitCommentRequest struct {
	Username string
	Text     string
	SourceIP string
	Auth     SignedRequest
}

// EditCommentRequest is the input of the edit use case
type EditCommentRequest struct {
	ID   string
	Text string
	Auth SignedRequest
}

// CreateCommentBody is the JSON body of POST /comments.
// UUID is the legacy in-body client id, used only when X-UUID is absent.
type CreateCommentBody struct {
	Username string `json:"username"`
	Comment  string `json:"comment"`
	UUID     string `json:"uuid,omitempty"`
}

// EditCommentBody is the JSON body of PUT /comments/:id
type EditCommentBody struct {
	Comment string `json:"comment"`
}

// CommentCreatedResponse is returned after a successful submit
type CommentCreatedResponse struct {
	ID       string    `json:"id"`
	Username string    `json:"username"`
	Comment  string    `json:"comment"`
	Date     time.Time `json:"date"`
	IP       string    `json:"ip"`
}
