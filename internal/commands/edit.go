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
	Register(&EditCmd{})
}

// EditCmd applies a partial update to a task. Only the flags given are sent.
type EditCmd struct {
	title       optString
	description optString
	completed   optBool
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Change a task" }
func (c *EditCmd) Usage() string {
	return "todo edit [common flags] [--title <t>] [--description <d>] [--completed[=false]] <task-id>"
}
func (c *EditCmd) NeedsAuth() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	c.title, c.description, c.completed = optString{}, optString{}, optBool{}
	fs.Var(&c.title, "title", "")
	fs.Var(&c.description, "description", "")
	fs.Var(&c.completed, "completed", "")
}

func (c *EditCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	id, err := ParseTaskID(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	update := service.TaskUpdate{
		Title:       c.title.ptr(),
		Description: c.description.ptr(),
		Completed:   c.completed.ptr(),
	}
	if update.Title == nil && update.Description == nil && update.Completed == nil {
		fmt.Fprintln(errOut, "error: nothing to update (use --title, --description or --completed)")
		return exitcode.UserError
	}
	if update.Title != nil && strings.TrimSpace(*update.Title) == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}

	task, err := env.Service.UpdateTask(ctx, id, update)
	if err != nil {
		return fail(errOut, err)
	}

	if !env.Config.Quiet {
		output.FormatTask(out, task)
	}
	return exitcode.Success
}
