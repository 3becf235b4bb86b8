package main

import (
	"os"
	"sort"

	"stock-portfolio/config"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

const version = "v1.0.0"

func main() {
	var cfg *config.Config

	app := &cli.App{
		Name:    "stock-portfolio",
		Usage:   "stock portfolio ledger and REST API",
		Version: version,
		Before: func(c *cli.Context) error {
			var err error
			if cfg, err = config.Load(); err != nil {
				return err
			}
			return config.SetupLogging(cfg)
		},
		Action: func(c *cli.Context) error {
			return serve(c.Context, cfg)
		},
		Commands: []*cli.Command{
			{
				Name:    "serve",
				Aliases: []string{"s"},
				Usage:   "migrate, start the scheduled jobs and serve the API",
				Action: func(c *cli.Context) error {
					return serve(c.Context, cfg)
				},
			},
			{
				Name:    "migrate",
				Aliases: []string{"m"},
				Usage:   "create or update the database schema",
				Action: func(c *cli.Context) error {
					return migrate(cfg)
				},
			},
			{
				Name:  "seed",
				Usage: "load users, stocks, prices and news from a JSON fixture",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "fixture `FILE`",
						Required: true,
					},
				},
				Action: func(c *cli.Context) error {
					return seed(c.Context, cfg, c.String("file"))
				},
			},
			{
				Name:    "audit",
				Aliases: []string{"a"},
				Usage:   "check stored balances and holdings against the transaction log",
				Action: func(c *cli.Context) error {
					return audit(c.Context, cfg)
				},
			},
		},
	}

	sort.Sort(cli.CommandsByName(app.Commands))

	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Fatal("exiting")
	}
}
