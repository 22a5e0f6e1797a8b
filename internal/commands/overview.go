package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"todo/internal/exitcode"
	"todo/internal/output"
	"todo/internal/service"
)

// maxConcurrentFetches bounds the per-list task requests in flight.
const maxConcurrentFetches = 8

func init() {
	Register(&OverviewCmd{})
}

// OverviewCmd prints every list with its tasks. It is what a bare
// "todo" runs.
type OverviewCmd struct{}

func (c *OverviewCmd) Name() string      { return "overview" }
func (c *OverviewCmd) Aliases() []string { return nil }
func (c *OverviewCmd) Synopsis() string  { return "Print all lists with their tasks" }
func (c *OverviewCmd) Usage() string     { return "todo [overview] [common flags]" }
func (c *OverviewCmd) NeedsAuth() bool   { return true }

func (c *OverviewCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *OverviewCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	lists, err := env.Service.ListLists(ctx)
	if err != nil {
		return fail(errOut, err)
	}

	if len(lists) == 0 {
		if !env.Config.Quiet {
			fmt.Fprintln(out, "no lists found")
		}
		return exitcode.Success
	}

	tasks, err := fetchTasks(ctx, env.Service, lists)
	if err != nil {
		return fail(errOut, err)
	}

	for i, list := range lists {
		output.FormatListHeader(out, list)
		for _, task := range tasks[i] {
			output.FormatTaskIndented(out, task)
		}
	}
	return exitcode.Success
}

// fetchTasks loads the tasks of every list concurrently. The result is
// indexed like lists. The first error cancels the remaining requests.
func fetchTasks(ctx context.Context, svc service.Service, lists []service.List) ([][]service.Task, error) {
	result := make([][]service.Task, len(lists))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)
	for i, list := range lists {
		i, list := i, list
		g.Go(func() error {
			tasks, err := svc.ListTasks(ctx, list.ID)
			if err != nil {
				return err
			}
			result[i] = tasks
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}
