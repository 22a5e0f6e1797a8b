// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, not found, local validation).
	UserError = 1

	// AuthError indicates a missing, rejected or expired credential.
	AuthError = 2

	// BackendError indicates a server, API or network error.
	BackendError = 3
)
