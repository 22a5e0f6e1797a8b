package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"todo/internal/service"
)

var (
	errListNotFound  = errors.New("list not found")
	errAmbiguousList = errors.New("ambiguous list name")
)

// resolveList finds a list by exact ID, or else by name
// (case-insensitive, trimmed). A name shared by several lists is an error.
func resolveList(ctx context.Context, svc service.Service, ref string) (service.List, error) {
	lists, err := svc.ListLists(ctx)
	if err != nil {
		return service.List{}, err
	}

	for _, l := range lists {
		if l.ID == ref {
			return l, nil
		}
	}

	name := strings.ToLower(strings.TrimSpace(ref))
	var matches []service.List
	for _, l := range lists {
		if strings.ToLower(strings.TrimSpace(l.Name)) == name {
			matches = append(matches, l)
		}
	}

	switch len(matches) {
	case 0:
		return service.List{}, fmt.Errorf("%w: %s", errListNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return service.List{}, fmt.Errorf("%w: %s", errAmbiguousList, ref)
	}
}

// isListLookupError reports whether err came from resolveList's matching
// rather than from the server.
func isListLookupError(err error) bool {
	return errors.Is(err, errListNotFound) || errors.Is(err, errAmbiguousList)
}
