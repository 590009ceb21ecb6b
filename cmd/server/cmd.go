package main

import "github.com/urfave/cli/v3"

func (r *Runner) register() []*cli.Command {
	return []*cli.Command{
		serveCommand(r),
		migrateCommand(r),
		loadIngredientsCommand(r),
		loadTagsCommand(r),
	}
}

func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Run the HTTP API (default)",
		Action: r.Serve,
	}
}

func migrateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "migrate",
		Usage:  "Create or update the relational schema",
		Action: r.Migrate,
	}
}

func loadIngredientsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "load-ingredients",
		Usage: "Bulk-load ingredients, skipping existing (name, unit) pairs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Aliases:  []string{"f"},
				Usage:    "Path to a .json or .csv file",
				Required: true,
			},
		},
		Action: r.LoadIngredients,
	}
}

func loadTagsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "load-tags",
		Usage: "Bulk-load tags, skipping existing names and slugs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Aliases:  []string{"f"},
				Usage:    "Path to a .json or .csv file",
				Required: true,
			},
		},
		Action: r.LoadTags,
	}
}
