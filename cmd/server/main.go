// Command uploadsvc runs the streaming multipart upload server.
package main

import (
	"fmt"
	"os"

	"github.com/a1exx55/server-backend-sub000/cmd/server/commands"
)

// Build-time variables injected via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.Version = version
	commands.Commit = commit
	commands.Date = date

	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
