package version

import (
	"github.com/hashicorp-forge/infobip-go/internal/cmd/base"
	"github.com/hashicorp-forge/infobip-go/internal/version"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Print the version"
}

func (c *Command) Help() string {
	return "Usage: infobip version"
}

func (c *Command) Run(args []string) int {
	c.UI.Output("infobip " + version.Full())
	return 0
}
