package main

import (
	"io"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/MrSnakeDoc/linkbot/internal/version"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		log.Fatalf("❌ linkbot: %v", err)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:    "linkbot",
		Usage:   "Community link and job board",
		Version: version.Version,
		Writer:  out,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "env-file",
				Aliases: []string{"e"},
				Usage:   "Load environment from these files before reading LINKBOT_* variables",
				Value:   cli.NewStringSlice(".env"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Override LINKBOT_LOG_LEVEL (debug, info, warn, error)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API with the digest, import and retention schedulers",
				Action: serveCommand,
			},
			{
				Name:      "add",
				Usage:     "Add a link, or update it if an equivalent URL exists",
				ArgsUsage: "URL [DESCRIPTION...]",
				Action:    addCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "category",
						Aliases: []string{"c"},
						Usage:   "Explicit category (single word)",
					},
					&cli.StringFlag{
						Name:  "user",
						Usage: "Submitter id",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Search links (empty query lists the most recent)",
				ArgsUsage: "[QUERY...]",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of results",
						Value:   10,
					},
				},
			},
			{
				Name:      "ask",
				Usage:     "List the links of a category (no argument lists categories)",
				ArgsUsage: "[CATEGORY]",
				Action:    askCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of results",
						Value:   10,
					},
				},
			},
			{
				Name:   "categories",
				Usage:  "List every category in use",
				Action: categoriesCommand,
			},
			{
				Name:      "recategorize",
				Usage:     "Override the category of a stored link",
				ArgsUsage: "ID CATEGORY",
				Action:    recategorizeCommand,
			},
			{
				Name:      "remove",
				Usage:     "Delete a stored link",
				ArgsUsage: "ID",
				Action:    removeCommand,
			},
			{
				Name:  "job",
				Usage: "Manage job postings",
				Subcommands: []*cli.Command{
					{
						Name:      "add",
						Usage:     "Post a job (dates as DD-MM-YYYY or YYYY-MM-DD)",
						ArgsUsage: "TITLE URL START END [DESCRIPTION...]",
						Action:    jobAddCommand,
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "user",
								Usage: "Submitter id",
							},
						},
					},
				},
			},
			{
				Name:   "jobs",
				Usage:  "List open job postings",
				Action: jobsCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Include expired postings",
					},
					&cli.BoolFlag{
						Name:  "ending-soon",
						Usage: "Only postings ending within 7 days",
					},
					&cli.BoolFlag{
						Name:  "starting-soon",
						Usage: "Only postings starting within 7 days",
					},
				},
			},
			{
				Name:      "import",
				Usage:     "Import a Homepage bookmarks.yaml or services.yaml",
				ArgsUsage: "FILE",
				Action:    importCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "File format (bookmarks, services)",
						Value:   "bookmarks",
					},
					&cli.BoolFlag{
						Name:  "overwrite",
						Usage: "Resubmit links that already exist",
					},
				},
			},
			{
				Name:   "digest",
				Usage:  "Print the daily job reminder",
				Action: digestCommand,
			},
		},
	}
}
