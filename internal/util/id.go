package util

import "github.com/google/uuid"

// NewID returns a new random identifier for sessions and trace records.
func NewID() string {
	return uuid.NewString()
}
