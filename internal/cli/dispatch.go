package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"

	"todo/internal/auth"
	"todo/internal/commands"
	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/logging"
	"todo/internal/perf"
	"todo/internal/service"
	"todo/internal/storage"
)

// Backend is what a ServiceFactory builds for one command run.
type Backend struct {
	Service service.Service
	Store   storage.Store

	// OpenSource and AuthorizeSource back the Google import. Optional.
	OpenSource      commands.SourceOpener
	AuthorizeSource commands.SourceAuthorizer

	// Close, when set, is called after the command finishes.
	Close func() error
}

// Hooks are handed to the factory so the service it builds reports back
// to this run.
type Hooks struct {
	Logger  *zap.Logger
	Monitor *perf.Monitor

	// OnUnauthorized must be invoked after the session is cleared
	// because of a 401, with the login entry point.
	OnUnauthorized func(path string)
}

// ServiceFactory creates the backend from config.
// Used to inject the backend during dispatch.
type ServiceFactory func(ctx context.Context, cfg *config.Config, hooks Hooks) (*Backend, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
	in       io.Reader
}

// NewDispatcher creates a new dispatcher with the given registry and service factory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// SetInput sets where commands read passwords from.
func (d *Dispatcher) SetInput(in io.Reader) {
	d.in = in
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> overview of every list
	if len(args) == 0 {
		return d.dispatch(ctx, "overview", nil, out, errOut)
	}

	cmdName := args[0]

	// If first token starts with -, it's an error (flags require a command)
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		if hints := d.registry.Suggest(cmdName); len(hints) > 0 {
			fmt.Fprintf(errOut, "error: unknown command: %s (did you mean %s?)\n", cmdName, strings.Join(hints, " or "))
		} else {
			fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		}
		return exitcode.UserError
	}

	return d.dispatchCommand(ctx, cmd, args[1:], out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	// Common flags
	var configDir string
	var quiet, debug, timings bool

	fs.StringVar(&configDir, "config", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")
	fs.BoolVar(&timings, "timings", false, "")

	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		return flagError(err, errOut)
	}

	// Check if first positional arg starts with - (should have been parsed as flag)
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	cfg, err := config.New(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	cfg.Quiet = quiet
	cfg.Debug = debug
	cfg.Timings = timings

	logger := logging.New(debug, errOut)
	defer logger.Sync() //nolint:errcheck
	monitor := perf.NewMonitor(logger)

	if d.factory == nil {
		fmt.Fprintln(errOut, "error: no backend configured")
		return exitcode.BackendError
	}
	backend, err := d.factory(ctx, cfg, Hooks{
		Logger:         logger,
		Monitor:        monitor,
		OnUnauthorized: navigator(cmd, logger, errOut),
	})
	if err != nil {
		fmt.Fprintf(errOut, "error: backend error: %s\n", err)
		return exitcode.BackendError
	}
	if backend.Close != nil {
		defer func() {
			if err := backend.Close(); err != nil {
				logger.Warn("close backend", zap.Error(err))
			}
		}()
	}

	if cmd.NeedsAuth() && !auth.HasToken(ctx, backend.Store) {
		fmt.Fprintln(errOut, "error: not logged in (run: todo login)")
		return exitcode.AuthError
	}

	env := &commands.Env{
		Config:          cfg,
		Service:         backend.Service,
		Store:           backend.Store,
		Logger:          logger,
		In:              d.in,
		OpenSource:      backend.OpenSource,
		AuthorizeSource: backend.AuthorizeSource,
	}
	code := cmd.Run(ctx, env, positionalArgs, out, errOut)

	if timings {
		monitor.Stats().Report(errOut)
	}
	return code
}

// navigator is the CLI's reaction to a 401: there is no page to go to, so
// commands that need a session tell the user to log in again. It prints
// once per run even when concurrent requests are rejected together.
func navigator(cmd commands.Command, logger *zap.Logger, errOut io.Writer) func(path string) {
	var once sync.Once
	return func(path string) {
		logger.Debug("session cleared", zap.String("navigate", path), zap.String("command", cmd.Name()))
		if !cmd.NeedsAuth() {
			return
		}
		once.Do(func() {
			fmt.Fprintln(errOut, "session expired (run: todo login)")
		})
	}
}

func flagError(err error, errOut io.Writer) int {
	errStr := err.Error()

	// Missing flag value
	if strings.Contains(errStr, "needs a value") || strings.Contains(errStr, "flag needs an argument") {
		parts := strings.Split(errStr, ":")
		if len(parts) > 0 {
			flagPart := strings.TrimSpace(parts[len(parts)-1])
			fmt.Fprintf(errOut, "error: flag needs an argument: %s\n", flagPart)
			return exitcode.UserError
		}
	}

	if strings.HasPrefix(errStr, "flag provided but not defined:") {
		flagName := strings.TrimPrefix(errStr, "flag provided but not defined: ")
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", flagName)
		return exitcode.UserError
	}

	fmt.Fprintf(errOut, "error: %s\n", errStr)
	return exitcode.UserError
}
