package history

import (
	"context"
	"flag"
	"fmt"

	"github.com/mitchellh/cli"

	"github.com/hashicorp-forge/infobip-go/internal/cmd/base"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Inspect the local send history"
}

func (c *Command) Help() string {
	return `Usage: infobip history <subcommand> [options] [args]

  This command groups subcommands for the local record of sent messages
  and PINs. History is kept only when a history block or INFOBIP_HISTORY_DSN
  is configured.`
}

func (c *Command) Run(args []string) int {
	return cli.RunResultHelp
}

type ListCommand struct {
	*base.Command

	api       base.APIFlags
	flagKind  string
	flagLimit int
}

func (c *ListCommand) Synopsis() string {
	return "List recorded messages and PINs"
}

func (c *ListCommand) Help() string {
	return `Usage: infobip history list [options]

  Lists recorded entries, newest first.` + c.Flags().Help()
}

func (c *ListCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("history list", flag.ContinueOnError))
	c.api.Register(f)
	f.StringVar(&c.flagKind, "kind", "", "Only entries of this kind: sms or pin.")
	f.IntVar(&c.flagLimit, "limit", 20, "Maximum number of entries. 0 lists all.")
	return f
}

func (c *ListCommand) Run(args []string) int {
	if err := c.Flags().Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	cfg, err := c.LoadConfig(&c.api)
	if err != nil {
		return c.Fail(c.api.Output, err)
	}

	store, err := c.OpenHistory(cfg)
	if err != nil {
		return c.Fail(c.api.Output, err)
	}
	if store == nil {
		c.UI.Error("no history configured")
		return 1
	}
	defer store.Close()

	entries, err := store.List(context.Background(), c.flagKind, c.flagLimit)
	if err != nil {
		return c.Fail(c.api.Output, err)
	}

	if err := c.Render(c.api.Output, entries); err != nil {
		return c.Fail(c.api.Output, err)
	}
	return 0
}
