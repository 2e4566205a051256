package settings

import (
	"context"
	"strconv"

	"github.com/mitchellh/cli"

	"github.com/hashicorp-forge/infobip-go/internal/cmd/base"
	"github.com/hashicorp-forge/infobip-go/internal/config"
	"github.com/hashicorp-forge/infobip-go/pkg/auth"
	"github.com/hashicorp-forge/infobip-go/pkg/settings"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Manage account settings"
}

func (c *Command) Help() string {
	return `Usage: infobip settings <subcommand> [options] [args]

  This command groups subcommands for account settings.`
}

func (c *Command) Run(args []string) int {
	return cli.RunResultHelp
}

type APIKeysCommand struct {
	*base.Command
}

func (c *APIKeysCommand) Synopsis() string {
	return "Manage API keys"
}

func (c *APIKeysCommand) Help() string {
	return `Usage: infobip settings api-keys <subcommand> [options] [args]

  This command groups subcommands for the API keys of the configured account.`
}

func (c *APIKeysCommand) Run(args []string) int {
	return cli.RunResultHelp
}

// Call is a settings subcommand.
type Call = base.CallCommand[*settings.Service]

func newService(c *base.Command, cfg *config.Config) (*settings.Service, error) {
	sc := cfg.SettingsConfig(c.Log)
	sc.Config = c.WithTransport(sc.Config)
	return settings.New(sc)
}

var argKey = base.Arg{Name: "key", Usage: "(Required) API key ID."}

// Commands returns the settings command factories keyed by command path.
func Commands(b *base.Command) map[string]cli.CommandFactory {
	call := func(c *Call) cli.CommandFactory {
		return func() (cli.Command, error) {
			c.Command = b
			c.NewService = newService
			return c, nil
		}
	}

	return map[string]cli.CommandFactory{
		"settings": func() (cli.Command, error) {
			return &Command{Command: b}, nil
		},
		"settings api-keys": func() (cli.Command, error) {
			return &APIKeysCommand{Command: b}, nil
		},
		"settings api-keys list": call(listCommand()),
		"settings api-keys get": call(&Call{
			Name:    "settings api-keys get",
			Summary: "Show an API key",
			Usage:   "Shows one API key.",
			Args:    []base.Arg{argKey},
			Call: func(ctx context.Context, svc *settings.Service, in base.Input) (*auth.Response, error) {
				return svc.GetAPIKey(ctx, in.Args["key"], in.Options...)
			},
		}),
		"settings api-keys create": call(&Call{
			Name:       "settings api-keys create",
			Summary:    "Create an API key",
			Usage:      "Creates an API key, e.g.\n\n  infobip settings api-keys create -param name=ci -param allowed-ips=10.0.0.1,10.0.0.2",
			WithParams: true,
			Call: func(ctx context.Context, svc *settings.Service, in base.Input) (*auth.Response, error) {
				var key settings.APIKey
				if err := in.Params.Decode(&key); err != nil {
					return nil, err
				}
				return svc.CreateAPIKey(ctx, key, in.Options...)
			},
		}),
		"settings api-keys update": call(&Call{
			Name:       "settings api-keys update",
			Summary:    "Update an API key",
			Usage:      "Replaces the settings of an API key.",
			Args:       []base.Arg{argKey},
			WithParams: true,
			Call: func(ctx context.Context, svc *settings.Service, in base.Input) (*auth.Response, error) {
				var key settings.APIKey
				if err := in.Params.Decode(&key); err != nil {
					return nil, err
				}
				return svc.UpdateAPIKey(ctx, in.Args["key"], key, in.Options...)
			},
		}),
	}
}

func listCommand() *Call {
	var filter settings.ListFilter
	var enabled string

	return &Call{
		Name:    "settings api-keys list",
		Summary: "List API keys",
		Usage:   "Lists the API keys of the configured account.",
		Extra: func(f *base.FlagSet) {
			f.StringVar(&enabled, "enabled", "", "Only enabled (true) or disabled (false) keys.")
			f.StringVar(&filter.PublicAPIKey, "public-api-key", "", "Only the key with this public value.")
			f.StringVar(&filter.Name, "name", "", "Only keys with this name.")
		},
		Call: func(ctx context.Context, svc *settings.Service, in base.Input) (*auth.Response, error) {
			if enabled != "" {
				v, err := strconv.ParseBool(enabled)
				if err != nil {
					return nil, err
				}
				filter.Enabled = &v
			}
			return svc.ListAPIKeys(ctx, filter, in.Options...)
		},
	}
}
