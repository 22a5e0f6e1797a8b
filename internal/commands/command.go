// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"io"

	"go.uber.org/zap"

	"todo/internal/config"
	"todo/internal/service"
	"todo/internal/storage"
)

// SourceOpener opens the provider that import-google reads from.
type SourceOpener func(ctx context.Context, dir string) (service.ImportSource, error)

// SourceAuthorizer runs the provider's interactive login and stores its
// token in dir. Instructions go to prompt.
type SourceAuthorizer func(ctx context.Context, dir string, prompt io.Writer) error

// Env is what a command runs against.
type Env struct {
	// Config is always provided (config dir, paths, flags).
	Config *config.Config

	// Service is the task server. Always set; commands that need a
	// credential are only run once one is stored.
	Service service.Service

	// Store holds the credential and cached user.
	Store storage.Store

	Logger *zap.Logger

	// In supplies passwords when they are not given as flags.
	In io.Reader

	// OpenSource is used by import-google. Nil disables the command.
	OpenSource SourceOpener

	// AuthorizeSource is used by google-login. Nil disables the command.
	AuthorizeSource SourceAuthorizer
}

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsAuth returns true if the command requires a stored credential.
	// Commands like help, version, login, logout return false.
	NeedsAuth() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int
}
