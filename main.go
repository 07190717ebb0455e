package main

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/money-is-time/internal/annotate"
	"github.com/dtnitsch/money-is-time/internal/history"
	"github.com/dtnitsch/money-is-time/internal/rates"
	"github.com/dtnitsch/money-is-time/internal/serve"
	"github.com/dtnitsch/money-is-time/internal/settings"
	"github.com/dtnitsch/money-is-time/internal/watch"
)

func main() {
	app := &cli.App{
		Name:  "mit",
		Usage: "show what prices on a web page cost in hours of your work",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML config file",
				EnvVars: []string{"MIT_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "SQLite database path (default: next to the binary)",
			},
			&cli.StringFlag{
				Name:  "cache-dir",
				Usage: "directory for persisted exchange rates",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "only log errors",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log debug output",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "annotate",
				Usage:  "annotate the prices of one page",
				Action: annotate.AnnotateAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "url", Aliases: []string{"u"}, Usage: "page to fetch"},
					&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "local HTML file"},
					&cli.StringFlag{Name: "domain", Usage: "domain used for the exclusion list (default: URL host)"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "write annotated HTML here (default: stdout)"},
					&cli.BoolFlag{Name: "report", Usage: "print a YAML report of every annotation"},
				},
			},
			{
				Name:   "watch",
				Usage:  "annotate a file and keep annotating fragments appended to it",
				Action: watch.WatchAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "HTML file to annotate", Required: true},
					&cli.StringFlag{Name: "dir", Aliases: []string{"d"}, Usage: "directory of .html fragments to append", Required: true},
					&cli.StringFlag{Name: "domain", Usage: "domain used for the exclusion list"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "write annotated HTML here on exit (default: overwrite --file)"},
				},
			},
			{
				Name:   "serve",
				Usage:  "serve the annotation HTTP API",
				Action: serve.ServeAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "addr", Value: ":8080", Usage: "listen address", EnvVars: []string{"MIT_ADDR"}},
					&cli.DurationFlag{Name: "request-timeout", Value: 30 * time.Second, Usage: "time each request may take to settle"},
				},
			},
			{
				Name:  "settings",
				Usage: "show or change salary settings and excluded sites",
				Subcommands: []*cli.Command{
					{Name: "show", Usage: "print current settings", Action: settings.ShowAction},
					{Name: "set", Usage: "set <key> <value>", ArgsUsage: "<key> <value>", Action: settings.SetAction},
					{Name: "exclude", Usage: "never annotate a domain", ArgsUsage: "<domain>", Action: settings.ExcludeAction},
					{Name: "include", Usage: "annotate a previously excluded domain", ArgsUsage: "<domain>", Action: settings.IncludeAction},
				},
			},
			{
				Name:      "rates",
				Usage:     "show exchange rates for a base currency",
				ArgsUsage: "<BASE>",
				Action:    rates.RatesAction,
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "to", Usage: "only these currencies"},
				},
			},
			{
				Name:   "history",
				Usage:  "list recorded scans",
				Action: history.HistoryAction,
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Value: 20, Usage: "number of scans"},
					&cli.BoolFlag{Name: "details", Usage: "list the annotations of each scan"},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
