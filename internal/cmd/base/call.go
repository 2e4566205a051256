package base

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/hashicorp-forge/infobip-go/internal/config"
	"github.com/hashicorp-forge/infobip-go/pkg/auth"
	"github.com/hashicorp-forge/infobip-go/pkg/service"
)

// Input is what a CallCommand passes to its run function.
type Input struct {
	// Args holds the values of the command's argument flags by name.
	Args map[string]string

	// Params holds repeated -param name=value flags.
	Params Params

	Options []service.CallOption

	// APIVersion is the -api-version override, 0 if none.
	APIVersion int

	// Config is the loaded configuration.
	Config *config.Config
}

// Arg describes a string flag passed to the run function.
type Arg struct {
	Name  string
	Usage string
}

// CallCommand is a subcommand that makes one API call through a service of
// type S and prints the response. Argument flags are not checked here; the
// service reports missing ones by name.
type CallCommand[S Authorizer] struct {
	*Command

	Name       string
	Summary    string
	Usage      string
	Args       []Arg
	WithParams bool

	// NewService builds the service from the loaded configuration.
	NewService func(c *Command, cfg *config.Config) (S, error)

	// Call makes the API call.
	Call func(ctx context.Context, svc S, in Input) (*auth.Response, error)

	// Extra registers additional flags; their values are read by Call
	// through closures.
	Extra func(f *FlagSet)

	api    APIFlags
	args   map[string]*string
	params Params
}

func (c *CallCommand[S]) Synopsis() string {
	return c.Summary
}

func (c *CallCommand[S]) Help() string {
	return "Usage: infobip " + c.Name + " [options]\n\n  " +
		strings.ReplaceAll(c.Usage, "\n", "\n  ") + c.Flags().Help()
}

func (c *CallCommand[S]) Flags() *FlagSet {
	f := NewFlagSet(flag.NewFlagSet(c.Name, flag.ContinueOnError))
	c.api.Register(f)

	c.args = make(map[string]*string, len(c.Args))
	for _, a := range c.Args {
		c.args[a.Name] = f.String(a.Name, "", a.Usage)
	}
	if c.WithParams {
		if c.params == nil {
			c.params = make(Params)
		}
		f.Var(c.params, "param",
			"Request field as name=value. Repeatable. Use dots for nested fields, e.g. configuration.pin-attempts=5.")
	}
	if c.Extra != nil {
		c.Extra(f)
	}
	return f
}

func (c *CallCommand[S]) Run(args []string) int {
	if err := c.Flags().Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	cfg, err := c.LoadConfig(&c.api)
	if err != nil {
		return c.Fail(c.api.Output, err)
	}

	svc, err := c.NewService(c.Command, cfg)
	if err != nil {
		return c.Fail(c.api.Output, err)
	}
	if err := c.Authorize(svc, cfg); err != nil {
		return c.Fail(c.api.Output, err)
	}

	in := Input{
		Args:       make(map[string]string, len(c.args)),
		Params:     c.params,
		Options:    c.api.CallOptions(),
		APIVersion: c.api.APIVersion,
		Config:     cfg,
	}
	for name, v := range c.args {
		in.Args[name] = *v
	}
	if in.Params == nil {
		in.Params = Params{}
	}

	resp, err := c.Call(context.Background(), svc, in)
	if err != nil {
		return c.Fail(c.api.Output, err)
	}

	if err := c.Render(c.api.Output, resp.Data); err != nil {
		return c.Fail(c.api.Output, err)
	}
	return 0
}
