package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hpungsan/scrapedash/internal/config"
	"github.com/hpungsan/scrapedash/internal/logging"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
                                   _           _
   ___  ___ _ __ __ _ _ __   ___  __| | __ _ ___| |__
  / __|/ __| '__/ _' | '_ \ / _ \/ _' |/ _' / __| '_ \
  \__ \ (__| | | (_| | |_) |  __/ (_| | (_| \__ \ | | |
  |___/\___|_|  \__,_| .__/ \___|\__,_|\__,_|___/_| |_|
                     |_|

  Dashboard for scraped content

  Usage: scrapedash <command> [options]
         scrapedash --help

  MCP server mode requires piped input.`)
}

// loadConfig reads ~/.scrapedash/config.json, the nearest repo
// .scrapedash/config.json, then the environment.
func loadConfig() (*config.Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("could not determine home directory: %w", err)
	}
	cwd, err := os.Getwd()
	if err != nil {
		cwd = ""
	}

	cfg, err := config.LoadWithRepo(filepath.Join(homeDir, ".scrapedash"), cwd)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return config.ApplyEnv(cfg)
}

func main() {
	args := os.Args

	// No args + interactive terminal → show banner and exit
	if len(args) < 2 {
		if isTerminal() {
			printBanner()
			return
		}
		// Piped stdin without a command → MCP server
		args = append(args, "mcp")
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	app := newCLIApp(cfg, logger)
	if err := app.Run(args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
