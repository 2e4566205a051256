package status

import (
	"context"
	"flag"
	"fmt"

	"github.com/hashicorp-forge/infobip-go/internal/cmd/base"
	"github.com/hashicorp-forge/infobip-go/pkg/status"
)

type Command struct {
	*base.Command

	api base.APIFlags
}

func (c *Command) Synopsis() string {
	return "Check that the API is reachable with the configured credential"
}

func (c *Command) Help() string {
	return `Usage: infobip status [options]

  Calls the provider's status endpoint and prints the response.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("status", flag.ContinueOnError))
	c.api.Register(f)
	return f
}

func (c *Command) Run(args []string) int {
	if err := c.Flags().Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	cfg, err := c.LoadConfig(&c.api)
	if err != nil {
		return c.Fail(c.api.Output, err)
	}

	svc, err := status.New(c.WithTransport(cfg.StatusConfig(c.Log)))
	if err != nil {
		return c.Fail(c.api.Output, err)
	}
	if err := c.Authorize(svc, cfg); err != nil {
		return c.Fail(c.api.Output, err)
	}

	resp, err := svc.Check(context.Background(), c.api.CallOptions()...)
	if err != nil {
		return c.Fail(c.api.Output, err)
	}

	if err := c.Render(c.api.Output, resp.Data); err != nil {
		return c.Fail(c.api.Output, err)
	}
	return 0
}
