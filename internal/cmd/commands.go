package cmd

import (
	"maps"

	"github.com/mitchellh/cli"

	"github.com/hashicorp-forge/infobip-go/internal/cmd/base"
	"github.com/hashicorp-forge/infobip-go/internal/cmd/commands/history"
	"github.com/hashicorp-forge/infobip-go/internal/cmd/commands/settings"
	"github.com/hashicorp-forge/infobip-go/internal/cmd/commands/sms"
	"github.com/hashicorp-forge/infobip-go/internal/cmd/commands/status"
	"github.com/hashicorp-forge/infobip-go/internal/cmd/commands/twofa"
	"github.com/hashicorp-forge/infobip-go/internal/cmd/commands/version"
)

// Commands returns the factories for every CLI command.
func Commands(b *base.Command) map[string]cli.CommandFactory {
	commands := map[string]cli.CommandFactory{
		"status": func() (cli.Command, error) {
			return &status.Command{Command: b}, nil
		},
		"sms": func() (cli.Command, error) {
			return &sms.Command{Command: b}, nil
		},
		"sms send": func() (cli.Command, error) {
			return &sms.SendCommand{Command: b}, nil
		},
		"sms reports": func() (cli.Command, error) {
			return &sms.ReportsCommand{Command: b}, nil
		},
		"sms logs": func() (cli.Command, error) {
			return &sms.LogsCommand{Command: b}, nil
		},
		"history": func() (cli.Command, error) {
			return &history.Command{Command: b}, nil
		},
		"history list": func() (cli.Command, error) {
			return &history.ListCommand{Command: b}, nil
		},
		"version": func() (cli.Command, error) {
			return &version.Command{Command: b}, nil
		},
	}

	maps.Copy(commands, twofa.Commands(b))
	maps.Copy(commands, settings.Commands(b))
	return commands
}
