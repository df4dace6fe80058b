package main

import (
	"fmt"
	"os"

	"github.com/rsaarelm/otlbook/internal/commands"
	"github.com/rsaarelm/otlbook/internal/config"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "serve":
		commands.Serve(os.Args[2:])
	case "browse":
		commands.Browse()
	case "save":
		commands.Save(os.Args[2:])
	case "tags":
		commands.Tags()
	case "fmt":
		commands.Fmt()
	case "diff":
		commands.Diff()
	case "install":
		commands.Install()
	case "uninstall":
		commands.Uninstall()
	case "version", "-v", "--version":
		fmt.Printf("otlbook v%s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	usage := fmt.Sprintf(`otlbook - Plain text outline notebook

Usage:
  otlbook <command> [options]

Commands:
  serve       Serve the notebook as a wiki site
  browse      Browse notebook pages in the terminal
  save        Capture a bookmark for a URL
  tags        Write a vi tags file for wiki words
  fmt         Rewrite note files into canonical form
  diff        Preview what fmt would change
  install     Generate system service files
  uninstall   Remove system service files
  version     Show version information
  help        Show this help message

Examples:
  otlbook serve --addr localhost:8080
  otlbook browse
  otlbook save https://example.com/article
  otlbook tags
  otlbook fmt
  otlbook diff

Configuration:
  Config file: %s
`, config.ConfigPath())
	fmt.Print(usage)
}
