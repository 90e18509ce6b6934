package main

import (
	"fmt"
	"os"

	"github.com/Davidxcr/YelpCamp/internal/config"
	"github.com/Davidxcr/YelpCamp/internal/db"
	"github.com/Davidxcr/YelpCamp/internal/logging"

	"github.com/urfave/cli"
)

var (
	loadConfigFn      = config.Load
	connectPostgresFn = db.ConnectPostgres
)

func main() {
	if err := buildApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildApp() *cli.App {
	app := cli.NewApp()
	app.Name = "campctl"
	app.Usage = "YelpCamp maintenance tasks"
	app.Before = func(c *cli.Context) error {
		cfg := loadConfigFn()
		logging.Init(logging.Config{Level: cfg.LogLevel, Format: "console", Output: os.Stderr})
		return nil
	}
	app.Commands = []cli.Command{
		Migrate(),
		Seed(),
		Curate(),
	}
	return app
}
