// Formdialog loads dialog definitions and runs them in a terminal.
//
// Usage:
//
//	formdialog [command] [flags]
//
// Dialog definitions are JSON or YAML files under --dir. See
// 'formdialog --help' for available commands.
package main

import (
	"fmt"
	"os"
)

// version is set at build time with
// -ldflags "-X main.version=v1.2.3".
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
