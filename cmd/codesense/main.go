package main

import (
	"fmt"
	"log"
	"os"
)

func main() {
	// stdout is reserved for MCP protocol and command output
	log.SetOutput(os.Stderr)

	if err := Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
