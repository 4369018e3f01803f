// Command vedika answers questions about ISRO records from a local vector index.
package main

import (
	"os"

	"github.com/custodia-labs/vedika/internal/adapters/driving/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
