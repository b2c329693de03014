package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/gnana997/appportal/pkg/catalog"
	"github.com/gnana997/appportal/pkg/portal"
)

const maxWidth = 80

// printAppsHuman prints one block per app, mirroring a portal card.
func printAppsHuman(w io.Writer, apps []catalog.AppRecord) {
	if len(apps) == 0 {
		fmt.Fprintln(w, "No apps found for this filter.")
		return
	}

	for i, app := range apps {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s  [%s]\n", app.Name, app.Key())
		fmt.Fprintf(w, "  %s\n", portal.Caption(app))

		if app.Description != "" {
			printWrapped(w, app.Description, 2, maxWidth)
		}

		open := app.AppURL
		if open == "" {
			open = "(not deployed)"
		}
		fmt.Fprintf(w, "  app:    %s\n", open)
		fmt.Fprintf(w, "  source: %s\n", app.GithubURL)
	}
}

func printAppsJSON(w io.Writer, apps []catalog.AppRecord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(apps)
}

// printWrapped prints text word-wrapped at width with the given left indent.
func printWrapped(w io.Writer, text string, indent, width int) {
	words := strings.Fields(text)
	prefix := strings.Repeat(" ", indent)
	line := prefix
	for _, word := range words {
		if len(line)+len(word)+1 > width && line != prefix {
			fmt.Fprintln(w, line)
			line = prefix + word
		} else {
			if line == prefix {
				line += word
			} else {
				line += " " + word
			}
		}
	}
	if line != prefix {
		fmt.Fprintln(w, line)
	}
}
