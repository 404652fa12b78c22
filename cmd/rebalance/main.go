package main

import (
	"embed"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func main() {
	app := &cli.App{
		Name:  "rebalance",
		Usage: "portfolio rebalancing service",
		Before: func(*cli.Context) error {
			// A missing .env file is fine; the environment may already be set.
			_ = godotenv.Load()
			return nil
		},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API and background workers",
				Action: serve,
			},
			{
				Name:  "suggest",
				Usage: "compute rebalance suggestions offline from local files",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "holdings", Usage: "JSON file with an array of holdings", Required: true},
					&cli.StringFlag{Name: "targets", Usage: "JSON file with symbol->percent, or an inline SYM:PCT,... list", Required: true},
					&cli.StringFlag{Name: "tolerance", Usage: "USD tolerance (default from REBALANCE_TOLERANCE_USD)"},
					&cli.StringFlag{Name: "xlsx", Usage: "also write the plan to this .xlsx file"},
				},
				Action: suggest,
			},
			{
				Name:   "migrate",
				Usage:  "apply database migrations and exit",
				Action: migrate,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
