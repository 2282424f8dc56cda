// Package cli provides CLI infrastructure for kanban.
package cli

import (
	"fmt"
	"strings"

	"github.com/jacksmith/kanban/internal/model"
)

// MatchPrefix finds a unique candidate from a prefix. An exact match wins
// over prefix matches. kind names the candidates in error messages.
func MatchPrefix(kind, prefix string, candidates []string) (string, error) {
	prefix = strings.ToLower(prefix)

	for _, c := range candidates {
		if strings.ToLower(c) == prefix {
			return c, nil
		}
	}

	var matches []string
	for _, c := range candidates {
		if strings.HasPrefix(strings.ToLower(c), prefix) {
			matches = append(matches, c)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("unknown %s %q", kind, prefix)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("ambiguous %s %q matches: %s", kind, prefix, strings.Join(matches, ", "))
	}
}

// MatchStatus resolves a status name or unique prefix ("comp", "in-prog").
func MatchStatus(prefix string) (model.TaskStatus, error) {
	names := make([]string, len(model.Statuses))
	for i, s := range model.Statuses {
		names[i] = string(s)
	}

	prefix = strings.ReplaceAll(strings.TrimSpace(prefix), "-", "_")
	if prefix == "" {
		return "", &ValidationError{Field: "status", Message: "must not be empty"}
	}
	name, err := MatchPrefix("status", prefix, names)
	if err != nil {
		return "", &ValidationError{Field: "status", Message: err.Error()}
	}
	return model.TaskStatus(name), nil
}
