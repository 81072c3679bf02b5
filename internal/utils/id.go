package utils

import "github.com/google/uuid"

// NewID returns a time-ordered record identifier
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
