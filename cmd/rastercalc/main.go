package main

import (
	"fmt"
	"log"
	"os"

	"github.com/sintrastes/mapalgebra/internal/cli"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("rastercalc %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		}
	}

	// Diagnostics go to stderr; stdout carries command output only.
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := cli.ParseConfig()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	if cfg.LogLevel == "debug" {
		log.Printf("rastercalc %s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	if err := cli.Run(os.Args[1:], cfg, os.Stdout, os.Stderr); err != nil {
		log.Fatalf("Command error: %v", err)
	}
}
