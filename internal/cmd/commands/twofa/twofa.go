package twofa

import (
	"context"
	"strings"

	"github.com/mitchellh/cli"

	"github.com/hashicorp-forge/infobip-go/internal/cmd/base"
	"github.com/hashicorp-forge/infobip-go/internal/config"
	"github.com/hashicorp-forge/infobip-go/pkg/auth"
	"github.com/hashicorp-forge/infobip-go/pkg/history"
	"github.com/hashicorp-forge/infobip-go/pkg/twofa"
)

// Group is a command that only lists its subcommands.
type Group struct {
	*base.Command

	Name    string
	Summary string
}

func (c *Group) Synopsis() string {
	return c.Summary
}

func (c *Group) Help() string {
	return "Usage: infobip " + c.Name + " <subcommand> [options] [args]\n\n  " + c.Summary + "."
}

func (c *Group) Run(args []string) int {
	return cli.RunResultHelp
}

// Call is a 2FA subcommand.
type Call = base.CallCommand[*twofa.Service]

func newService(c *base.Command, cfg *config.Config) (*twofa.Service, error) {
	return twofa.New(c.WithTransport(cfg.TwoFAConfig(c.Log)))
}

var (
	argApp     = base.Arg{Name: "app-id", Usage: "(Required) Application ID."}
	argMessage = base.Arg{Name: "message-id", Usage: "(Required) Message template ID."}
	argPin     = base.Arg{Name: "pin-id", Usage: "(Required) PIN ID returned by pin send."}
)

// Commands returns the 2FA command factories keyed by command path.
func Commands(b *base.Command) map[string]cli.CommandFactory {
	group := func(name, summary string) cli.CommandFactory {
		return func() (cli.Command, error) {
			return &Group{Command: b, Name: name, Summary: summary}, nil
		}
	}
	call := func(c *Call) cli.CommandFactory {
		return func() (cli.Command, error) {
			c.Command = b
			c.NewService = newService
			return c, nil
		}
	}

	return map[string]cli.CommandFactory{
		"2fa":          group("2fa", "Manage two-factor authentication"),
		"2fa apps":     group("2fa apps", "Manage 2FA applications"),
		"2fa messages": group("2fa messages", "Manage PIN message templates"),
		"2fa pin":      group("2fa pin", "Send and verify PINs"),

		"2fa apps list": call(&Call{
			Name:    "2fa apps list",
			Summary: "List 2FA applications",
			Usage:   "Lists every 2FA application of the account.",
			Call: func(ctx context.Context, svc *twofa.Service, in base.Input) (*auth.Response, error) {
				return svc.ListApplications(ctx, in.Options...)
			},
		}),
		"2fa apps get": call(&Call{
			Name:    "2fa apps get",
			Summary: "Show a 2FA application",
			Usage:   "Shows one 2FA application.",
			Args:    []base.Arg{argApp},
			Call: func(ctx context.Context, svc *twofa.Service, in base.Input) (*auth.Response, error) {
				return svc.GetApplication(ctx, in.Args["app-id"], in.Options...)
			},
		}),
		"2fa apps create": call(&Call{
			Name:       "2fa apps create",
			Summary:    "Create a 2FA application",
			Usage:      "Creates a 2FA application, e.g.\n\n  infobip 2fa apps create -param name=login -param configuration.pin-attempts=5",
			WithParams: true,
			Call: func(ctx context.Context, svc *twofa.Service, in base.Input) (*auth.Response, error) {
				var app twofa.Application
				if err := in.Params.Decode(&app); err != nil {
					return nil, err
				}
				return svc.CreateApplication(ctx, app, in.Options...)
			},
		}),
		"2fa apps update": call(&Call{
			Name:       "2fa apps update",
			Summary:    "Update a 2FA application",
			Usage:      "Replaces the settings of a 2FA application.",
			Args:       []base.Arg{argApp},
			WithParams: true,
			Call: func(ctx context.Context, svc *twofa.Service, in base.Input) (*auth.Response, error) {
				var app twofa.Application
				if err := in.Params.Decode(&app); err != nil {
					return nil, err
				}
				return svc.UpdateApplication(ctx, in.Args["app-id"], app, in.Options...)
			},
		}),

		"2fa messages list": call(&Call{
			Name:    "2fa messages list",
			Summary: "List PIN message templates",
			Usage:   "Lists the message templates of an application.",
			Args:    []base.Arg{argApp},
			Call: func(ctx context.Context, svc *twofa.Service, in base.Input) (*auth.Response, error) {
				return svc.ListMessages(ctx, in.Args["app-id"], in.Options...)
			},
		}),
		"2fa messages get": call(&Call{
			Name:    "2fa messages get",
			Summary: "Show a PIN message template",
			Usage:   "Shows one message template.",
			Args:    []base.Arg{argApp, argMessage},
			Call: func(ctx context.Context, svc *twofa.Service, in base.Input) (*auth.Response, error) {
				return svc.GetMessage(ctx, in.Args["app-id"], in.Args["message-id"], in.Options...)
			},
		}),
		"2fa messages create": call(&Call{
			Name:       "2fa messages create",
			Summary:    "Create a PIN message template",
			Usage:      "Creates a message template, e.g.\n\n  infobip 2fa messages create -app-id=ID -param pin-type=NUMERIC -param pin-length=4 -param message-text='Your PIN is {{pin}}'",
			Args:       []base.Arg{argApp},
			WithParams: true,
			Call: func(ctx context.Context, svc *twofa.Service, in base.Input) (*auth.Response, error) {
				var msg twofa.MessageTemplate
				if err := in.Params.Decode(&msg); err != nil {
					return nil, err
				}
				msg.PinType = strings.ToUpper(msg.PinType)
				return svc.CreateMessage(ctx, in.Args["app-id"], msg, in.Options...)
			},
		}),
		"2fa messages update": call(&Call{
			Name:       "2fa messages update",
			Summary:    "Update a PIN message template",
			Usage:      "Replaces a message template.",
			Args:       []base.Arg{argApp, argMessage},
			WithParams: true,
			Call: func(ctx context.Context, svc *twofa.Service, in base.Input) (*auth.Response, error) {
				var msg twofa.MessageTemplate
				if err := in.Params.Decode(&msg); err != nil {
					return nil, err
				}
				msg.PinType = strings.ToUpper(msg.PinType)
				return svc.UpdateMessage(ctx, in.Args["app-id"], in.Args["message-id"], msg, in.Options...)
			},
		}),

		"2fa pin send": call(sendPinCommand(b)),
		"2fa pin resend": call(&Call{
			Name:       "2fa pin resend",
			Summary:    "Resend a PIN",
			Usage:      "Sends the same PIN again. Placeholders can be set with -param placeholders.name=value.",
			Args:       []base.Arg{argPin},
			WithParams: true,
			Call: func(ctx context.Context, svc *twofa.Service, in base.Input) (*auth.Response, error) {
				var req twofa.ResendRequest
				if err := in.Params.Decode(&req); err != nil {
					return nil, err
				}
				return svc.ResendPin(ctx, in.Args["pin-id"], req, in.Options...)
			},
		}),
		"2fa pin verify": call(&Call{
			Name:    "2fa pin verify",
			Summary: "Verify a PIN",
			Usage:   "Checks a PIN entered by the user.",
			Args:    []base.Arg{argPin, {Name: "pin", Usage: "(Required) PIN entered by the user."}},
			Call: func(ctx context.Context, svc *twofa.Service, in base.Input) (*auth.Response, error) {
				return svc.VerifyPin(ctx, in.Args["pin-id"], in.Args["pin"], in.Options...)
			},
		}),
		"2fa pin status": call(&Call{
			Name:    "2fa pin status",
			Summary: "Show the verification status of a number",
			Usage:   "Lists the verification state of a phone number within an application.",
			Args:    []base.Arg{argApp, {Name: "msisdn", Usage: "(Required) Phone number."}},
			Call: func(ctx context.Context, svc *twofa.Service, in base.Input) (*auth.Response, error) {
				return svc.VerificationStatus(ctx, in.Args["app-id"], in.Args["msisdn"], twofa.VerificationFilter{}, in.Options...)
			},
		}),
	}
}

// sendPinCommand sends a PIN and records it in the send history when one is
// configured.
func sendPinCommand(b *base.Command) *Call {
	var ncNeeded bool
	c := &Call{
		Name:       "2fa pin send",
		Summary:    "Send a PIN",
		Usage:      "Sends a PIN, e.g.\n\n  infobip 2fa pin send -param application-id=ID -param message-id=ID -param to=41793026727",
		WithParams: true,
		Extra: func(f *base.FlagSet) {
			f.BoolVar(&ncNeeded, "nc-needed", false, "Run a number lookup before sending.")
		},
	}

	c.Call = func(ctx context.Context, svc *twofa.Service, in base.Input) (*auth.Response, error) {
		var req twofa.PinRequest
		if err := in.Params.Decode(&req); err != nil {
			return nil, err
		}

		resp, err := svc.SendPin(ctx, req, ncNeeded, in.Options...)
		if err != nil {
			return nil, err
		}
		version := in.APIVersion
		if version == 0 {
			version = svc.APIVersion()
		}
		recordPin(ctx, b, in.Config, resp, req, version)
		return resp, nil
	}
	return c
}

func recordPin(ctx context.Context, b *base.Command, cfg *config.Config, resp *auth.Response, req twofa.PinRequest, version int) {
	store := b.RecordingHistory(cfg)
	if store == nil {
		return
	}
	defer store.Close()

	var out twofa.PinResponse
	if err := resp.Decode(&out); err != nil || out.PinID == "" {
		return
	}

	err := store.Record(ctx, &history.Entry{
		Kind:       history.KindPin,
		ExternalID: out.PinID,
		To:         req.To,
		From:       req.From,
		Status:     out.SMSStatus,
		APIVersion: version,
	})
	if err != nil {
		b.Log.Warn("failed to record pin", "pin_id", out.PinID, "error", err)
	}
}
