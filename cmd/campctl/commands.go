package main

import (
	"context"

	"github.com/Davidxcr/YelpCamp/internal/curator"
	"github.com/Davidxcr/YelpCamp/internal/db"
	"github.com/Davidxcr/YelpCamp/internal/logging"
	"github.com/Davidxcr/YelpCamp/internal/seed"
	"github.com/Davidxcr/YelpCamp/internal/server"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

func Migrate() cli.Command {
	return cli.Command{
		Name:  "migrate",
		Usage: "apply the database schema",
		Action: func(c *cli.Context) error {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			pool, err := connectPostgresFn(loadConfigFn())
			if err != nil {
				return errors.Wrap(err, "connect postgres")
			}
			defer pool.Close()

			if err := db.Migrate(ctx, pool); err != nil {
				return errors.Wrap(err, "apply schema")
			}
			logging.Info().Msg("schema applied")
			return nil
		},
	}
}

func Seed() cli.Command {
	const (
		countFlagName  = "count"
		authorFlagName = "author"
	)

	return cli.Command{
		Name:  "seed",
		Usage: "replace all campgrounds with generated listings",
		Flags: []cli.Flag{
			cli.IntFlag{
				Name:  countFlagName,
				Usage: "number of campgrounds to insert",
				Value: seed.DefaultCount,
			},
			cli.StringFlag{
				Name:  authorFlagName,
				Usage: "user id that owns the generated campgrounds (default: SEED_AUTHOR_ID)",
			},
		},
		Action: func(c *cli.Context) error {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			cfg := loadConfigFn()
			author := c.String(authorFlagName)
			if author == "" {
				author = cfg.SeedAuthorID
			}
			if author == "" {
				return seed.ErrNoAuthor
			}

			pool, err := connectPostgresFn(cfg)
			if err != nil {
				return errors.Wrap(err, "connect postgres")
			}
			defer pool.Close()

			cur := curator.New(nil, server.NewImageStore(cfg))
			n, err := seed.New(pool, cur).Run(ctx, seed.Options{Count: c.Int(countFlagName), AuthorID: author})
			if err != nil {
				return err
			}
			logging.Info().Int("count", n).Msg("seed complete")
			return nil
		},
	}
}

func Curate() cli.Command {
	return cli.Command{
		Name:  "curate",
		Usage: "print an image curation report for every category",
		Action: func(c *cli.Context) error {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			cfg := loadConfigFn()
			var strategist curator.Strategist
			if g, err := curator.NewGemini(cfg.GeminiAPIKey, cfg.GeminiModel); err == nil {
				strategist = g
			} else {
				logging.Warn().Err(err).Msg("using fallback strategies")
			}

			report, err := curator.New(strategist, server.NewImageStore(cfg)).Report(ctx)
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return err
			}
			_, err = c.App.Writer.Write(append(out, '\n'))
			return err
		},
	}
}
