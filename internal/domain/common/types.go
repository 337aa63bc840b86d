package common

import (
	"slices"
	"strconv"
	"strings"
)

// ParseID parses a positive serial identifier taken from a path or body field.
func ParseID(raw, fieldName string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, Validation("%s must be a positive integer", fieldName)
	}
	return uint(id), nil
}

// NormalizeEmail trims surrounding whitespace. Identity comparisons stay exact.
func NormalizeEmail(email string) string {
	return strings.TrimSpace(email)
}

// CleanList trims entries and drops empty ones, preserving order.
func CleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// ContainsExact reports whether list has an entry equal to value after trimming.
func ContainsExact(list []string, value string) bool {
	value = strings.TrimSpace(value)
	return slices.ContainsFunc(list, func(entry string) bool {
		return strings.TrimSpace(entry) == value
	})
}
