package domain

import "github.com/google/uuid"

// IDGenerator produces fresh opaque identifiers.
type IDGenerator func() string

// NewID generates a random UUID string.
func NewID() string {
	return uuid.New().String()
}

func (g IDGenerator) next() string {
	if g == nil {
		return NewID()
	}
	return g()
}
