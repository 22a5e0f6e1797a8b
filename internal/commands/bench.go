package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"todo/internal/exitcode"
	"todo/internal/perf"
)

const (
	benchSequential = "tasks-sequential"
	benchConcurrent = "tasks-concurrent"
)

func init() {
	Register(&BenchCmd{})
}

// BenchCmd times fetching every list's tasks one list at a time against the
// concurrent fetch the overview uses, and reports the difference.
type BenchCmd struct {
	runs int
	now  func() time.Time
}

// SetNow sets the clock (for testing).
func (c *BenchCmd) SetNow(now func() time.Time) {
	c.now = now
}

func (c *BenchCmd) Name() string      { return "bench" }
func (c *BenchCmd) Aliases() []string { return nil }
func (c *BenchCmd) Synopsis() string  { return "Compare sequential and concurrent task fetching" }
func (c *BenchCmd) Usage() string     { return "todo bench [common flags] [--runs <n>]" }
func (c *BenchCmd) NeedsAuth() bool   { return true }

func (c *BenchCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.runs, "runs", 3, "")
	fs.IntVar(&c.runs, "n", 3, "")
}

func (c *BenchCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}
	if c.runs < 1 {
		fmt.Fprintln(errOut, "error: --runs must be at least 1")
		return exitcode.UserError
	}
	now := time.Now
	if c.now != nil {
		now = c.now
	}

	lists, err := env.Service.ListLists(ctx)
	if err != nil {
		return fail(errOut, err)
	}
	if len(lists) == 0 {
		fmt.Fprintln(out, "no lists found")
		return exitcode.Success
	}

	stats := perf.NewComparison()
	for i := 0; i < c.runs; i++ {
		start := now()
		for _, list := range lists {
			if _, err := env.Service.ListTasks(ctx, list.ID); err != nil {
				return fail(errOut, err)
			}
		}
		stats.Record(benchSequential, now().Sub(start))

		start = now()
		if _, err := fetchTasks(ctx, env.Service, lists); err != nil {
			return fail(errOut, err)
		}
		stats.Record(benchConcurrent, now().Sub(start))
	}
	env.Logger.Debug("bench finished", zap.Int("runs", c.runs), zap.Int("lists", len(lists)))

	stats.Report(out)
	fmt.Fprintln(out)
	stats.CompareBeforeAfter(out, benchSequential, benchConcurrent)
	return exitcode.Success
}
