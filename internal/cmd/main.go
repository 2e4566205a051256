package cmd

import (
	"bufio"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/hashicorp-forge/infobip-go/internal/cmd/base"
	"github.com/hashicorp-forge/infobip-go/internal/version"
)

// Main runs the CLI with the given arguments and returns the exit code.
func Main(args []string) int {
	cliName := args[0]

	log := hclog.New(&hclog.LoggerOptions{
		Name:  cliName,
		Level: hclog.LevelFromString(os.Getenv("INFOBIP_LOG_LEVEL")),
	})

	if len(args) == 2 &&
		(args[1] == "-version" ||
			args[1] == "-v") {
		args = []string{cliName, "version"}
	}

	ui := &cli.BasicUi{
		Reader:      bufio.NewReader(os.Stdin),
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
	}

	return Run(base.New(log, ui), args)
}

// Run executes the command line args with the given command base. Tests use
// it to inject a filesystem, environment and transport.
func Run(b *base.Command, args []string) int {
	c := &cli.CLI{
		Name:       args[0],
		Args:       args[1:],
		Version:    version.Full(),
		Commands:   Commands(b),
		HelpWriter: os.Stderr,
	}

	exitCode, err := c.Run()
	if err != nil {
		b.UI.Error(err.Error())
		return 1
	}

	return exitCode
}
