package main

import (
	"os"

	"github.com/lnr-cli/lnr/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
