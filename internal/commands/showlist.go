package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todo/internal/exitcode"
	"todo/internal/output"
)

func init() {
	Register(&ShowListCmd{})
}

// ShowListCmd prints one list and its tasks.
type ShowListCmd struct{}

func (c *ShowListCmd) Name() string      { return "show-list" }
func (c *ShowListCmd) Aliases() []string { return nil }
func (c *ShowListCmd) Synopsis() string  { return "Print one list with its tasks" }
func (c *ShowListCmd) Usage() string     { return "todo show-list [common flags] <list>" }
func (c *ShowListCmd) NeedsAuth() bool   { return true }

func (c *ShowListCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ShowListCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	ref, err := ParseListRef(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	list, err := resolveList(ctx, env.Service, ref)
	if err != nil {
		return fail(errOut, err)
	}

	tasks, err := env.Service.ListTasks(ctx, list.ID)
	if err != nil {
		return fail(errOut, err)
	}

	output.FormatListHeader(out, list)
	if len(tasks) == 0 && !env.Config.Quiet {
		fmt.Fprintln(out, "no tasks found")
	}
	for _, task := range tasks {
		output.FormatTaskIndented(out, task)
	}
	return exitcode.Success
}
