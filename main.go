package main

import (
	"context"
	"fmt"
	"os"

	"github.com/km-arc/go-forms/app/console"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := console.New(version).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
