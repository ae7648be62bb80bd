// Command qixctl talks to a QIX engine from the command line.
package main

import (
	"os"

	"github.com/wagiedev/enigma-go/cmd/qixctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
