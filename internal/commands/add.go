package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"todo/internal/exitcode"
	"todo/internal/output"
	"todo/internal/service"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	listRef     string
	description string
}

// SetListRef sets the target list (for testing).
func (c *AddCmd) SetListRef(ref string) {
	c.listRef = ref
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string {
	return "todo add [common flags] --list <list> [--description <text>] <title...>"
}
func (c *AddCmd) NeedsAuth() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.listRef, "list", "", "")
	fs.StringVar(&c.listRef, "l", "", "")
	fs.StringVar(&c.description, "description", "", "")
	fs.StringVar(&c.description, "d", "", "")
}

func (c *AddCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}
	if strings.TrimSpace(c.listRef) == "" {
		fmt.Fprintln(errOut, "error: --list required")
		return exitcode.UserError
	}

	list, err := resolveList(ctx, env.Service, strings.TrimSpace(c.listRef))
	if err != nil {
		return fail(errOut, err)
	}

	task, err := env.Service.CreateTask(ctx, service.CreateTaskRequest{
		Title:       title,
		Description: strings.TrimSpace(c.description),
		ListID:      list.ID,
	})
	if err != nil {
		return fail(errOut, err)
	}

	if !env.Config.Quiet {
		output.FormatTask(out, task)
	}
	return exitcode.Success
}
