package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todo/internal/exitcode"
	"todo/internal/output"
	"todo/internal/service"
)

func init() {
	Register(&TasksCmd{})
}

// TasksCmd prints the tasks of one list, or every task when no list is given.
type TasksCmd struct {
	open bool
}

func (c *TasksCmd) Name() string      { return "tasks" }
func (c *TasksCmd) Aliases() []string { return nil }
func (c *TasksCmd) Synopsis() string  { return "Print tasks" }
func (c *TasksCmd) Usage() string     { return "todo tasks [common flags] [--open] [<list>]" }
func (c *TasksCmd) NeedsAuth() bool   { return true }

func (c *TasksCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.open, "open", false, "")
}

func (c *TasksCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	var tasks []service.Task
	if len(args) == 0 {
		all, err := env.Service.ListAllTasks(ctx)
		if err != nil {
			return fail(errOut, err)
		}
		tasks = all
	} else {
		ref, err := ParseListRef(args)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		list, err := resolveList(ctx, env.Service, ref)
		if err != nil {
			return fail(errOut, err)
		}
		tasks, err = env.Service.ListTasks(ctx, list.ID)
		if err != nil {
			return fail(errOut, err)
		}
	}

	printed := 0
	for _, task := range tasks {
		if c.open && task.Completed {
			continue
		}
		output.FormatTask(out, task)
		printed++
	}
	if printed == 0 && !env.Config.Quiet {
		fmt.Fprintln(out, "no tasks found")
	}
	return exitcode.Success
}
