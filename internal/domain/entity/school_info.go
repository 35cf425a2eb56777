package entity

import "time"

// SchoolInfo is the single document under the "schoolInfo" key. It heads
// every printed receipt.
type SchoolInfo struct {
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	EIIN      string    `json:"eiin,omitempty"`
	Currency  string    `json:"currency,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}
