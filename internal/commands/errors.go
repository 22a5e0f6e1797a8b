package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"todo/internal/exitcode"
	"todo/internal/service"
)

// classify maps an error from the service to the message printed after
// "error: " and the process exit code.
func classify(err error) (string, int) {
	var validation *service.ValidationError
	var apiErr *service.APIError
	var netErr *service.NetworkError

	switch {
	case errors.As(err, &validation):
		return validation.Message, exitcode.UserError
	case errors.Is(err, errListNotFound), errors.Is(err, errAmbiguousList):
		return err.Error(), exitcode.UserError
	case errors.Is(err, service.ErrUnauthorized):
		return "auth error: " + err.Error(), exitcode.AuthError
	case errors.As(err, &apiErr) && apiErr.ClientError():
		return apiErr.Message, exitcode.UserError
	case errors.Is(err, context.Canceled):
		return "cancelled", exitcode.BackendError
	case errors.As(err, &netErr):
		return fmt.Sprintf("network error: %v", netErr.Err), exitcode.BackendError
	default:
		return fmt.Sprintf("backend error: %v", err), exitcode.BackendError
	}
}

// fail prints err and returns its exit code.
func fail(errOut io.Writer, err error) int {
	msg, code := classify(err)
	fmt.Fprintf(errOut, "error: %s\n", msg)
	return code
}
