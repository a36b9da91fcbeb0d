// Command kiosk runs the memory exhibit in a terminal.
//
// Usage:
//
//	kiosk [flags] <command>
//
// Commands:
//
//	run             - run the exhibit
//	themes          - print a generated theme set
//	archive export  - upload pending conversations
//	config schema   - print the configuration JSON schema
//	version         - show version information
package main

import (
	"fmt"
	"os"

	"github.com/koscakluka/ema-kiosk/cmd/kiosk/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
