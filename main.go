package main

import (
	"fmt"
	"os"

	"github.com/dtnitsch/changelog-mcp/internal/commands"
)

var version = "dev"

func main() {
	app := commands.NewApp(version)
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
