package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"todo/internal/config"
	"todo/internal/exitcode"
)

func init() {
	Register(&ConfigCmd{})
}

// ConfigCmd shows the effective settings or edits config.yaml.
type ConfigCmd struct{}

func (c *ConfigCmd) Name() string      { return "config" }
func (c *ConfigCmd) Aliases() []string { return nil }
func (c *ConfigCmd) Synopsis() string  { return "Show or change settings" }
func (c *ConfigCmd) Usage() string {
	return "todo config [common flags] [set <key> <value>]"
}
func (c *ConfigCmd) NeedsAuth() bool { return false }

func (c *ConfigCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ConfigCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		return c.show(env.Config, out)
	}
	if args[0] != "set" {
		fmt.Fprintf(errOut, "error: unknown config action: %s (use: todo config set <key> <value>)\n", args[0])
		return exitcode.UserError
	}
	if len(args) != 3 {
		fmt.Fprintln(errOut, "error: usage: todo config set <key> <value>")
		return exitcode.UserError
	}

	// Edit the file alone so environment overrides are not written back.
	cfg, err := config.LoadFile(env.Config.Dir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if err := cfg.Set(args[1], args[2]); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if err := cfg.Save(); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	env.Logger.Debug("config saved", zap.String("path", cfg.FilePath()), zap.String("key", args[1]))

	if !env.Config.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

func (c *ConfigCmd) show(cfg *config.Config, out io.Writer) int {
	fmt.Fprintf(out, "%-16s %s\n", "file:", cfg.FilePath())
	for _, key := range config.Keys {
		v, _ := cfg.Get(key)
		fmt.Fprintln(out, strings.TrimRight(fmt.Sprintf("%-16s %s", key+":", v), " "))
	}
	return exitcode.Success
}
