package commands

import (
	"errors"
	"fmt"
	"strings"
)

// Errors for ID arguments.
var (
	ErrTaskIDRequired = errors.New("task id required")
	ErrListRequired   = errors.New("list required")
)

// ParseTaskID extracts a single task ID from positional args.
// IDs are opaque server strings; only surrounding whitespace is removed.
func ParseTaskID(args []string) (string, error) {
	return parseID(args, ErrTaskIDRequired, "task id")
}

// ParseListRef extracts a single list reference (ID or name) from args.
// Names with spaces may be given unquoted; the args are joined.
func ParseListRef(args []string) (string, error) {
	ref := strings.TrimSpace(strings.Join(args, " "))
	if ref == "" {
		return "", ErrListRequired
	}
	return ref, nil
}

func parseID(args []string, missing error, what string) (string, error) {
	if len(args) == 0 {
		return "", missing
	}
	if len(args) > 1 {
		return "", fmt.Errorf("too many arguments: expected one %s", what)
	}
	id := strings.TrimSpace(args[0])
	if id == "" {
		return "", missing
	}
	return id, nil
}
