// Package main is the entry point for the todo CLI.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"todo/internal/apiclient"
	"todo/internal/backend/googletasks"
	"todo/internal/cli"
	"todo/internal/commands"
	"todo/internal/config"
	"todo/internal/service"
	"todo/internal/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, newBackend)
	dispatcher.SetInput(os.Stdin)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// newBackend wires the API client to the configured credential store.
func newBackend(ctx context.Context, cfg *config.Config, hooks cli.Hooks) (*cli.Backend, error) {
	store, err := storage.Open(cfg)
	if err != nil {
		return nil, err
	}

	client, err := apiclient.New(apiclient.Options{
		BaseURL:        cfg.BaseURL,
		Store:          store,
		OnUnauthorized: hooks.OnUnauthorized,
		Timeout:        time.Duration(cfg.Timeout),
		Logger:         hooks.Logger,
		Monitor:        hooks.Monitor,
	})
	if err != nil {
		return nil, err
	}

	backend := &cli.Backend{
		Service: client,
		Store:   store,
		OpenSource: func(ctx context.Context, dir string) (service.ImportSource, error) {
			src, err := googletasks.New(ctx, dir)
			if err != nil {
				return nil, err
			}
			return src, nil
		},
		AuthorizeSource: googletasks.Authorize,
	}
	if c, ok := store.(io.Closer); ok {
		backend.Close = c.Close
	}
	return backend, nil
}
