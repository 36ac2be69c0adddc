package util

import (
	"log"

	"github.com/google/uuid"
)

// GenerateUUID returns a random 128-bit identifier used for user and account ids.
func GenerateUUID() string {
	id, err := uuid.NewRandom()
	if err != nil {
		log.Fatalf("Failed to generate UUID: %v", err)
	}
	return id.String()
}
