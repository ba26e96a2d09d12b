package entity

import (
	"net/http"
	"time"
)

// IdempotencyRecord is a captured response replayed for repeated requests with the same key.
type IdempotencyRecord struct {
	Key         string    `json:"key"`
	StatusCode  int       `json:"status_code"`
	ContentType string    `json:"content_type"`
	Body        []byte    `json:"body"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// IsSuccess reports whether the captured status is in the 2xx class.
func (r *IdempotencyRecord) IsSuccess() bool {
	return r != nil && r.StatusCode >= http.StatusOK && r.StatusCode < http.StatusMultipleChoices
}

// Expired reports whether the record must no longer be replayed.
func (r *IdempotencyRecord) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}
