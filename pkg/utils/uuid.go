package utils

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// NewID returns a random UUID string used as a record id.
func NewID() string {
	return uuid.NewString()
}

// GenerateReceiptNo builds a printable receipt number from the collection serial.
func GenerateReceiptNo(prefix string, serial int64) string {
	return fmt.Sprintf("%s-%06d-%s", prefix, serial, strings.ToUpper(uuid.NewString()[:4]))
}

// GenerateReferenceNo generates a unique reference number
func GenerateReferenceNo(prefix string) string {
	return prefix + "-" + strings.ToUpper(uuid.NewString()[:8])
}

// SameID compares record identifiers the way operators type them:
// surrounding whitespace and letter case are ignored.
func SameID(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
