package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todo/internal/exitcode"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "todo help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  todo                                               Print all lists with their tasks
  todo register [common flags] [--password <pw>] <username> <email>
  todo login [common flags] [--password <pw>] <username>
  todo logout [common flags]
  todo whoami [common flags]
  todo status [common flags]
  todo passwd [common flags] [--current <pw>] [--new <pw>]
  todo config [common flags] [set <key> <value>]
  todo bench [common flags] [--runs <n>]
  todo lists [common flags]
  todo show-list [common flags] <list>
  todo createlist [common flags] [--description <text>] <list-name>
  todo editlist [common flags] [--name <name>] [--description <text>] <list>
  todo rmlist [common flags] [--force] <list>
  todo tasks [common flags] [--open] [<list>]
  todo add [common flags] --list <list> [--description <text>] <title...>
  todo show [common flags] <task-id>
  todo edit [common flags] [--title <t>] [--description <d>] [--completed[=false]] <task-id>
  todo toggle [common flags] <task-id>
  todo rm [common flags] <task-id>
  todo google-login [common flags] [--google-dir <dir>]
  todo import-google [common flags] [--google-dir <dir>] [--dry-run]
  todo help
  todo version

A <list> is a list ID or a list name. Passwords not given as flags are read
from stdin, one per line (passwd reads the current password first).

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
  --timings        Print request timings to stderr
`
