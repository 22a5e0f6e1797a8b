package apiclient

import (
	"encoding/json"
	"fmt"
	"strings"

	"todo/internal/service"
)

// ErrUnauthorized matches any error caused by a 401 response.
var ErrUnauthorized = service.ErrUnauthorized

type (
	APIError        = service.APIError
	ValidationError = service.ValidationError
	NetworkError    = service.NetworkError
)

// extractMessage returns a human-readable message from an error body.
// It understands {"detail": "..."} and the validation form
// {"detail": [{"msg": "..."}, ...]}; anything else yields a generic message.
func extractMessage(body []byte, status int) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Detail) > 0 {
		var s string
		if err := json.Unmarshal(payload.Detail, &s); err == nil && strings.TrimSpace(s) != "" {
			return s
		}
		var items []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(payload.Detail, &items); err == nil {
			var msgs []string
			for _, it := range items {
				if it.Msg != "" {
					msgs = append(msgs, it.Msg)
				}
			}
			if len(msgs) > 0 {
				return strings.Join(msgs, "; ")
			}
		}
	}
	return fmt.Sprintf("request failed with status %d", status)
}
