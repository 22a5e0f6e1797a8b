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
	Register(&EditListCmd{})
}

// EditListCmd applies a partial update to a list.
type EditListCmd struct {
	name        optString
	description optString
}

func (c *EditListCmd) Name() string      { return "editlist" }
func (c *EditListCmd) Aliases() []string { return nil }
func (c *EditListCmd) Synopsis() string  { return "Rename a list or change its description" }
func (c *EditListCmd) Usage() string {
	return "todo editlist [common flags] [--name <name>] [--description <text>] <list>"
}
func (c *EditListCmd) NeedsAuth() bool { return true }

func (c *EditListCmd) RegisterFlags(fs *flag.FlagSet) {
	c.name, c.description = optString{}, optString{}
	fs.Var(&c.name, "name", "")
	fs.Var(&c.description, "description", "")
}

func (c *EditListCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	ref, err := ParseListRef(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	update := service.ListUpdate{
		Name:        c.name.ptr(),
		Description: c.description.ptr(),
	}
	if update.Name == nil && update.Description == nil {
		fmt.Fprintln(errOut, "error: nothing to update (use --name or --description)")
		return exitcode.UserError
	}
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		fmt.Fprintln(errOut, "error: list name required")
		return exitcode.UserError
	}

	list, err := resolveList(ctx, env.Service, ref)
	if err != nil {
		return fail(errOut, err)
	}

	updated, err := env.Service.UpdateList(ctx, list.ID, update)
	if err != nil {
		return fail(errOut, err)
	}

	if !env.Config.Quiet {
		output.FormatListName(out, updated)
	}
	return exitcode.Success
}
