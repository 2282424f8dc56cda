package main

import (
	"strconv"

	"github.com/jacksmith/kanban/internal/cli"
)

// parseID parses a positive numeric id argument.
func parseID(field, arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, &cli.ValidationError{Field: field, Message: "must be a positive number, got " + strconv.Quote(arg)}
	}
	return id, nil
}
