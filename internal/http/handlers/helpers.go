package handlers

import (
	"strings"

	"github.com/google/uuid"
)

// parseUUIDField parses a UUID carried in a JSON body field.
func parseUUIDField(raw string) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(raw))
}
