package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"todo/internal/exitcode"
	"todo/internal/service"
)

// importedDescription marks lists created by import-google.
const importedDescription = "Imported from Google Tasks"

func init() {
	Register(&ImportGoogleCmd{})
}

// ImportGoogleCmd copies Google Tasks lists and their open tasks to the server.
type ImportGoogleCmd struct {
	googleDir string
	dryRun    bool
}

func (c *ImportGoogleCmd) Name() string      { return "import-google" }
func (c *ImportGoogleCmd) Aliases() []string { return nil }
func (c *ImportGoogleCmd) Synopsis() string  { return "Import lists and open tasks from Google Tasks" }
func (c *ImportGoogleCmd) Usage() string {
	return "todo import-google [common flags] [--google-dir <dir>] [--dry-run]"
}
func (c *ImportGoogleCmd) NeedsAuth() bool { return true }

func (c *ImportGoogleCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.googleDir, "google-dir", "", "")
	fs.BoolVar(&c.dryRun, "dry-run", false, "")
}

func (c *ImportGoogleCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if env.OpenSource == nil {
		fmt.Fprintln(errOut, "error: google import not available")
		return exitcode.UserError
	}

	dir := c.googleDir
	if dir == "" {
		dir = env.Config.GoogleDir()
	}
	src, err := env.OpenSource(ctx, dir)
	if err != nil {
		fmt.Fprintf(errOut, "error: google: %v\n", err)
		return exitcode.AuthError
	}

	remote, err := src.ListLists(ctx)
	if err != nil {
		fmt.Fprintf(errOut, "error: google: %v\n", err)
		return exitcode.BackendError
	}

	var nLists, nTasks int
	for _, rl := range remote {
		tasks, err := src.ListOpenTasks(ctx, rl.ID)
		if err != nil {
			fmt.Fprintf(errOut, "error: google: %v\n", err)
			return exitcode.BackendError
		}

		name := strings.TrimSpace(rl.Name)
		if name == "" {
			name = "(untitled)"
		}
		if c.dryRun {
			fmt.Fprintf(out, "%s: %d tasks\n", name, len(tasks))
			nLists++
			nTasks += len(tasks)
			continue
		}

		list, err := env.Service.CreateList(ctx, service.CreateListRequest{
			Name:        name,
			Description: importedDescription,
		})
		if err != nil {
			return fail(errOut, err)
		}
		nLists++
		env.Logger.Debug("imported list", zap.String("google_id", rl.ID), zap.String("id", list.ID))

		for _, t := range tasks {
			if strings.TrimSpace(t.Title) == "" {
				continue
			}
			if _, err := env.Service.CreateTask(ctx, service.CreateTaskRequest{
				Title:       t.Title,
				Description: t.Description,
				ListID:      list.ID,
			}); err != nil {
				return fail(errOut, err)
			}
			nTasks++
		}
	}

	if !env.Config.Quiet {
		fmt.Fprintf(out, "imported %d lists, %d tasks\n", nLists, nTasks)
	}
	return exitcode.Success
}
