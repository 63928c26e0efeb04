// Command famlink searches a family catalogue held by a worker process.
package main

import "github.com/custodia-labs/famlink/internal/adapters/driving/cli"

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.Execute()
}
