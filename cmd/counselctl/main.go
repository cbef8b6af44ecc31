package main

import (
	"context"
	"fmt"
	"os"

	"github.com/chrimztech/unza-counseling-console/internal/cli"
)

// Set at build time with -ldflags "-X main.version=... -X main.buildDate=...".
var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "counselctl:", cli.Describe(err))
		os.Exit(1)
	}
}

func run() error {
	return cli.Execute(context.Background(), version, buildDate)
}
