package middleware

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// MaxListLimit caps an explicit ?limit= value.
const MaxListLimit = 1000

var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ValidateID checks identifier format (alphanumeric, dash, underscore, max 64 chars).
// Generated ids are UUIDs; anything else that fits the pattern is still looked up.
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("id cannot be empty")
	}
	if !idPattern.MatchString(id) {
		return fmt.Errorf("invalid id format")
	}
	return nil
}

// ValidateLimit parses the list limit. Empty means no limit (0).
// Values above MaxListLimit are capped.
func ValidateLimit(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("limit must be a non-negative integer")
	}
	if n > MaxListLimit {
		return MaxListLimit, nil
	}
	return n, nil
}

