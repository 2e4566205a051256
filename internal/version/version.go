package version

// Version is the CLI version. It is overridden at build time with
// -ldflags "-X github.com/hashicorp-forge/infobip-go/internal/version.Version=...".
var Version = "0.1.0-dev"

// GitCommit is the commit the binary was built from, if known.
var GitCommit = ""

// Full returns the version with the commit, if known.
func Full() string {
	if GitCommit == "" {
		return Version
	}
	return Version + " (" + GitCommit + ")"
}
