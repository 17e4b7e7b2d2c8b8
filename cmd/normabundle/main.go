// Command normabundle manages scraped-document bundle directories.
package main

import (
	"os"

	"github.com/custodia-labs/normabundle/internal/adapters/driving/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	os.Exit(cli.Execute())
}
