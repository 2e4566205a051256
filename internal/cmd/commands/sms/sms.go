package sms

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/mitchellh/cli"

	"github.com/hashicorp-forge/infobip-go/internal/cmd/base"
	"github.com/hashicorp-forge/infobip-go/internal/config"
	"github.com/hashicorp-forge/infobip-go/pkg/auth"
	"github.com/hashicorp-forge/infobip-go/pkg/history"
	"github.com/hashicorp-forge/infobip-go/pkg/sms"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Send SMS messages and read delivery reports"
}

func (c *Command) Help() string {
	return `Usage: infobip sms <subcommand> [options] [args]

  This command groups subcommands for the SMS API.`
}

func (c *Command) Run(args []string) int {
	return cli.RunResultHelp
}

// newService loads the configuration and returns an authorized SMS service.
func newService(c *base.Command, api *base.APIFlags) (*sms.Service, *config.Config, error) {
	cfg, err := c.LoadConfig(api)
	if err != nil {
		return nil, nil, err
	}

	smsCfg := cfg.SMSConfig(c.Log)
	smsCfg.Config = c.WithTransport(smsCfg.Config)
	svc, err := sms.New(smsCfg)
	if err != nil {
		return nil, nil, err
	}
	if err := c.Authorize(svc, cfg); err != nil {
		return nil, nil, err
	}
	return svc, cfg, nil
}

type SendCommand struct {
	*base.Command

	api      base.APIFlags
	flagTo   string
	flagText string
	flagFrom string
}

func (c *SendCommand) Synopsis() string {
	return "Send a single text message"
}

func (c *SendCommand) Help() string {
	return `Usage: infobip sms send -to=<number> -text=<text> [options]

  Sends one message. Without -from the configured default sender ID is used.` +
		c.Flags().Help()
}

func (c *SendCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("sms send", flag.ContinueOnError))
	c.api.Register(f)
	f.StringVar(&c.flagTo, "to", "", "(Required) Destination number in international format.")
	f.StringVar(&c.flagText, "text", "", "(Required) Message text.")
	f.StringVar(&c.flagFrom, "from", "", "Sender ID for this message.")
	return f
}

func (c *SendCommand) Run(args []string) int {
	if err := c.Flags().Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	svc, cfg, err := newService(c.Command, &c.api)
	if err != nil {
		return c.Fail(c.api.Output, err)
	}

	ctx := context.Background()
	resp, err := svc.Send(ctx, c.flagTo, c.flagText, c.flagFrom, c.api.CallOptions()...)
	if err != nil {
		return c.Fail(c.api.Output, err)
	}

	if store := c.RecordingHistory(cfg); store != nil {
		defer store.Close()
		from := c.flagFrom
		if from == "" {
			from = svc.DefaultSenderID()
		}
		if err := recordSent(ctx, store, resp, from, c.version(svc)); err != nil {
			c.Log.Warn("failed to record sent message", "error", err)
		}
	}

	if err := c.Render(c.api.Output, resp.Data); err != nil {
		return c.Fail(c.api.Output, err)
	}
	return 0
}

func (c *SendCommand) version(svc *sms.Service) int {
	if c.api.APIVersion != 0 {
		return c.api.APIVersion
	}
	return svc.APIVersion()
}

func recordSent(ctx context.Context, store *history.Store, resp *auth.Response, from string, version int) error {
	var out sms.SendResponse
	if err := resp.Decode(&out); err != nil {
		return err
	}
	for _, m := range out.Messages {
		if m.MessageID == "" {
			continue
		}
		err := store.Record(ctx, &history.Entry{
			Kind:       history.KindSMS,
			ExternalID: m.MessageID,
			To:         m.To,
			From:       from,
			Status:     m.Status.Name,
			APIVersion: version,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

type ReportsCommand struct {
	*base.Command

	api           base.APIFlags
	flagMessageID string
}

func (c *ReportsCommand) Synopsis() string {
	return "Fetch the delivery report of a message"
}

func (c *ReportsCommand) Help() string {
	return `Usage: infobip sms reports -message-id=<id> [options]

  Fetches the delivery report of one message. When send history is
  configured, the recorded status is updated.` + c.Flags().Help()
}

func (c *ReportsCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("sms reports", flag.ContinueOnError))
	c.api.Register(f)
	f.StringVar(&c.flagMessageID, "message-id", "", "(Required) Message ID returned by send.")
	return f
}

func (c *ReportsCommand) Run(args []string) int {
	if err := c.Flags().Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	svc, cfg, err := newService(c.Command, &c.api)
	if err != nil {
		return c.Fail(c.api.Output, err)
	}

	ctx := context.Background()
	resp, err := svc.Reports(ctx, c.flagMessageID, c.api.CallOptions()...)
	if err != nil {
		return c.Fail(c.api.Output, err)
	}

	if store := c.RecordingHistory(cfg); store != nil {
		defer store.Close()
		var out sms.ReportsResponse
		if err := resp.Decode(&out); err == nil {
			for _, r := range out.Results {
				entry, err := store.Find(ctx, r.MessageID)
				if err != nil {
					continue
				}
				entry.Status = r.Status.Name
				if err := store.Record(ctx, entry); err != nil {
					c.Log.Warn("failed to update history", "message_id", r.MessageID, "error", err)
				}
			}
		}
	}

	if err := c.Render(c.api.Output, resp.Data); err != nil {
		return c.Fail(c.api.Output, err)
	}
	return 0
}

type LogsCommand struct {
	*base.Command

	api    base.APIFlags
	filter sms.LogsFilter
	since  time.Duration
}

func (c *LogsCommand) Synopsis() string {
	return "List sent messages"
}

func (c *LogsCommand) Help() string {
	return `Usage: infobip sms logs [options]

  Lists sent messages, optionally filtered.` + c.Flags().Help()
}

func (c *LogsCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("sms logs", flag.ContinueOnError))
	c.api.Register(f)
	f.StringVar(&c.filter.From, "from", "", "Only messages from this sender.")
	f.StringVar(&c.filter.To, "to", "", "Only messages to this number.")
	f.StringVar(&c.filter.BulkID, "bulk-id", "", "Only messages of this bulk.")
	f.StringVar(&c.filter.MessageID, "message-id", "", "Only this message.")
	f.StringVar(&c.filter.GeneralStatus, "status", "", "Only messages in this status group, e.g. DELIVERED.")
	f.DurationVar(&c.since, "since", 0, "Only messages sent within this duration, e.g. 24h.")
	f.IntVar(&c.filter.Limit, "limit", 0, "Maximum number of messages.")
	return f
}

func (c *LogsCommand) Run(args []string) int {
	if err := c.Flags().Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	svc, _, err := newService(c.Command, &c.api)
	if err != nil {
		return c.Fail(c.api.Output, err)
	}

	if c.since > 0 {
		c.filter.SentSince = time.Now().Add(-c.since)
	}

	resp, err := svc.Logs(context.Background(), c.filter, c.api.CallOptions()...)
	if err != nil {
		return c.Fail(c.api.Output, err)
	}

	if err := c.Render(c.api.Output, resp.Data); err != nil {
		return c.Fail(c.api.Output, err)
	}
	return 0
}
