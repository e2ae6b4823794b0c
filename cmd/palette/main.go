// Command palette inspects and serves the node template catalog.
package main

import "os"

// Version information set by ldflags.
var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
	goVersion = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
