package base

import (
	"bytes"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/spf13/afero"

	"github.com/hashicorp-forge/infobip-go/internal/config"
	"github.com/hashicorp-forge/infobip-go/pkg/auth"
)

// Command is embedded by every CLI command.
type Command struct {
	Log hclog.Logger
	UI  cli.Ui

	// FS is where configuration and .env files are read from.
	FS afero.Fs

	// Env looks up environment overrides.
	Env config.LookupFunc

	// HTTPClient is the transport for provider requests.
	HTTPClient auth.Doer
}

// New returns a Command using the OS filesystem and environment.
func New(log hclog.Logger, ui cli.Ui) *Command {
	return &Command{
		Log:        log,
		UI:         ui,
		FS:         afero.NewOsFs(),
		Env:        os.LookupEnv,
		HTTPClient: http.DefaultClient,
	}
}

// FlagSet wraps flag.FlagSet with help rendering.
type FlagSet struct {
	*flag.FlagSet
}

// NewFlagSet wraps f. Flag output is discarded; errors are reported by the
// command through its UI.
func NewFlagSet(f *flag.FlagSet) *FlagSet {
	f.SetOutput(new(bytes.Buffer))
	return &FlagSet{FlagSet: f}
}

// Help renders the flags for a command's help text.
func (f *FlagSet) Help() string {
	var b strings.Builder
	first := true
	f.VisitAll(func(fl *flag.Flag) {
		if first {
			b.WriteString("\n\nOptions:\n")
			first = false
		}
		name, usage := flag.UnquoteUsage(fl)
		fmt.Fprintf(&b, "\n  -%s", fl.Name)
		if name != "" {
			fmt.Fprintf(&b, "=<%s>", name)
		}
		if fl.DefValue != "" && fl.DefValue != "false" && fl.DefValue != "0" {
			fmt.Fprintf(&b, " (default: %s)", fl.DefValue)
		}
		fmt.Fprintf(&b, "\n      %s\n", usage)
	})
	return b.String()
}
