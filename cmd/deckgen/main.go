package main

import (
	"fmt"
	"io"
	"os"
)

const version = "0.1.0"

const usage = `deckgen turns a description into a self-contained HTML slide deck.

Usage:
  deckgen create [flags] "description"
  deckgen list-themes
  deckgen theme-info <name>
  deckgen serve [-addr :8080]
  deckgen mcp

Run "deckgen <command> -h" for command flags.
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}
	var err error
	switch args[0] {
	case "create":
		err = runCreate(args[1:], stdout, stderr)
	case "list-themes", "themes":
		err = runListThemes(stdout)
	case "theme-info":
		err = runThemeInfo(args[1:], stdout)
	case "serve":
		err = runServe(args[1:], stderr)
	case "mcp":
		err = runMCP(stderr)
	case "version":
		fmt.Fprintln(stdout, "deckgen", version)
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", args[0], usage)
		return 2
	}
	if err != nil {
		fmt.Fprintln(stderr, errorStyle.Render("error: ")+err.Error())
		return 1
	}
	return 0
}
