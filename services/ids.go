package services

import (
	"strings"

	"github.com/google/uuid"
)

// parseID validates a caller-supplied identifier. field names the argument in
// the error message.
func parseID(field, raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, invalidArgument("%s is required", field)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, invalidArgument("invalid %s: %q is not a valid id", field, raw)
	}
	return id, nil
}

// optionalString trims s and maps blank values to nil.
func optionalString(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
