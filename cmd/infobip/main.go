package main

import (
	"os"

	"github.com/hashicorp-forge/infobip-go/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}
