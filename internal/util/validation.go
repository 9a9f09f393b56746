package util

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ParseDuration parses a duration string with support for common formats.
// A bare number is read as seconds.
func ParseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(s)
	if err == nil {
		return d, nil
	}

	s = strings.TrimSpace(s)
	if isNumeric(s) {
		return time.ParseDuration(s + "s")
	}

	return 0, fmt.Errorf("invalid duration format: %s", s)
}

// isNumeric checks if a string contains only digits.
func isNumeric(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return s != ""
}

// ValidateDuration validates a duration is not negative.
func ValidateDuration(d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("duration cannot be negative: %v", d)
	}
	return nil
}

// ValidateRegex validates a regex pattern.
func ValidateRegex(pattern string) error {
	if pattern == "" {
		return nil
	}

	_, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid regex pattern: %w", err)
	}

	return nil
}

// ValidateNonEmpty validates that a string is not empty.
func ValidateNonEmpty(value, name string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s cannot be empty", name)
	}
	return nil
}

// ValidateRange validates that optional bounds are ordered.
func ValidateRange(minValue, maxValue *int64) error {
	if minValue != nil && maxValue != nil && *minValue > *maxValue {
		return fmt.Errorf("min (%d) must not exceed max (%d)", *minValue, *maxValue)
	}
	return nil
}
