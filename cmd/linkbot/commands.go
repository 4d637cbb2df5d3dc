package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/MrSnakeDoc/linkbot/internal/app"
	"github.com/MrSnakeDoc/linkbot/internal/config"
	"github.com/MrSnakeDoc/linkbot/internal/digest"
	"github.com/MrSnakeDoc/linkbot/internal/domain"
	"github.com/MrSnakeDoc/linkbot/internal/logger"
	"github.com/MrSnakeDoc/linkbot/internal/sources/homepage"
	"github.com/MrSnakeDoc/linkbot/internal/store"
)

func setup(c *cli.Context) (*config.Config, logger.Logger) {
	cfg := config.Load(c.StringSlice("env-file")...)
	if lvl := c.String("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	return cfg, logger.New(cfg.LogLevel, cfg.PrettyLog)
}

// withComponents opens the store for a one-shot command and closes it afterwards.
// One-shots must not run against a file store that a server is also writing.
func withComponents(c *cli.Context, fn func(comps *app.Components) error) error {
	cfg, log := setup(c)
	defer func() { _ = log.Sync() }()

	comps, err := app.Open(c.Context, cfg, log)
	if err != nil {
		return err
	}
	defer comps.Close()
	return fn(comps)
}

func usage(c *cli.Context) error {
	return fmt.Errorf("usage: linkbot %s %s", c.Command.FullName(), c.Command.ArgsUsage)
}

func serveCommand(c *cli.Context) error {
	cfg, log := setup(c)
	defer func() { _ = log.Sync() }()

	a, err := app.New(c.Context, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}
	return a.Run()
}

func addCommand(c *cli.Context) error {
	if c.NArg() < 1 {
		return usage(c)
	}
	in := store.AddResourceInput{
		URL:         c.Args().First(),
		Description: strings.Join(c.Args().Tail(), " "),
		UserID:      c.String("user"),
		Category:    c.String("category"),
	}

	return withComponents(c, func(comps *app.Components) error {
		res, err := comps.Store.AddResource(c.Context, in)
		if err != nil {
			return err
		}
		writeAddResult(c.App.Writer, res)
		return nil
	})
}

func searchCommand(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")

	return withComponents(c, func(comps *app.Components) error {
		out, err := comps.Search.Lookup(c.Context, query, c.Int("limit"))
		if err != nil {
			return err
		}
		writeOutcome(c.App.Writer, out)
		return nil
	})
}

func askCommand(c *cli.Context) error {
	return withComponents(c, func(comps *app.Components) error {
		if c.NArg() == 0 {
			cats, err := comps.Store.GetAllCategories(c.Context)
			if err != nil {
				return err
			}
			writeCategories(c.App.Writer, cats)
			return nil
		}

		category := domain.NormalizeCategory(c.Args().First())
		views, err := comps.Store.GetResourcesByCategory(c.Context, category, c.Int("limit"))
		if err != nil {
			return err
		}
		writeCategory(c.App.Writer, category, views)
		return nil
	})
}

func categoriesCommand(c *cli.Context) error {
	return withComponents(c, func(comps *app.Components) error {
		cats, err := comps.Store.GetAllCategories(c.Context)
		if err != nil {
			return err
		}
		writeCategories(c.App.Writer, cats)
		return nil
	})
}

func recategorizeCommand(c *cli.Context) error {
	if c.NArg() != 2 {
		return usage(c)
	}

	return withComponents(c, func(comps *app.Components) error {
		res, err := comps.Store.UpdateCategory(c.Context, c.Args().Get(0), c.Args().Get(1))
		if err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "✅ %s moved to category: %s\n", res.URL, res.Category)
		return nil
	})
}

func removeCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return usage(c)
	}

	return withComponents(c, func(comps *app.Components) error {
		if err := comps.Store.DeleteResource(c.Context, c.Args().First()); err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, "🗑️ Resource removed")
		return nil
	})
}

func jobAddCommand(c *cli.Context) error {
	if c.NArg() < 4 {
		return usage(c)
	}
	args := c.Args().Slice()
	in := store.AddJobInput{
		Title:       args[0],
		OfficialURL: args[1],
		StartDate:   args[2],
		EndDate:     args[3],
		Description: strings.Join(args[4:], " "),
		PostedBy:    c.String("user"),
	}

	return withComponents(c, func(comps *app.Components) error {
		job, err := comps.Store.AddJob(c.Context, in)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "✅ Job posted: %s (%s)\n", job.Title, formatRange(job))
		return nil
	})
}

func jobsCommand(c *cli.Context) error {
	if c.Bool("ending-soon") && c.Bool("starting-soon") {
		return errors.New("--ending-soon and --starting-soon are exclusive")
	}

	return withComponents(c, func(comps *app.Components) error {
		list, title := comps.Store.GetAllActiveJobs, "ACTIVE JOB POSTINGS"
		switch {
		case c.Bool("ending-soon"):
			list, title = comps.Store.GetJobsEndingSoon, "ENDING SOON"
		case c.Bool("starting-soon"):
			list, title = comps.Store.GetJobsStartingSoon, "STARTING SOON"
		case c.Bool("all"):
			list, title = comps.Store.GetAllJobs, "ALL JOB POSTINGS"
		}

		jobs, err := list(c.Context)
		if err != nil {
			return err
		}
		writeJobs(c.App.Writer, title, jobs, comps.Store.Now())
		return nil
	})
}

func importCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return usage(c)
	}
	format, err := homepage.ParseFormat(c.String("format"))
	if err != nil {
		return err
	}

	return withComponents(c, func(comps *app.Components) error {
		im := homepage.NewImporter(c.Args().First(), format, comps.Store, logger.NewNop())
		im.Overwrite = c.Bool("overwrite")

		report, err := im.Import(c.Context)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "✅ Import done: %d added, %d updated, %d skipped, %d invalid\n",
			report.Added, report.Updated, report.Skipped, report.Invalid)
		return nil
	})
}

func digestCommand(c *cli.Context) error {
	return withComponents(c, func(comps *app.Components) error {
		d, err := digest.Compose(c.Context, comps.Store, comps.Store.Now())
		if err != nil {
			return err
		}
		if d.Empty() {
			fmt.Fprintln(c.App.Writer, "📭 No active job postings.")
			return nil
		}
		fmt.Fprint(c.App.Writer, d.Text())
		return nil
	})
}
