package entity

import "time"

// IdempotencyKey stores the response of a processed write so a retried
// request with the same key replays it instead of running again.
type IdempotencyKey struct {
	Key          string    `json:"key"`
	Client       string    `json:"client"`
	Endpoint     string    `json:"endpoint"`
	ResponseCode int       `json:"response_code"`
	ResponseBody string    `json:"response_body"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// IsExpired checks if the idempotency key has expired at now.
func (i *IdempotencyKey) IsExpired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
