package main

import (
	"log"
	"os"

	"github.com/matchday-pool/predictor/app"
	"github.com/matchday-pool/predictor/app/observability"
	"github.com/matchday-pool/predictor/config"
	"github.com/urfave/cli/v2"
)

func main() {
	cliApp := &cli.App{
		Name:  "predictor",
		Usage: "prediction pool scoring and ledger service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   "config.yaml",
				Usage:   "path to the configuration file",
				EnvVars: []string{"CONFIG_PATH"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "run the HTTP API and background jobs",
				Action: func(c *cli.Context) error {
					cfg, err := config.LoadConfig(c.String("config"))
					if err != nil {
						return err
					}
					obs := observability.New(cfg, os.Stdout)

					ctx, cancel := app.WithShutdownSignals(c.Context)
					defer cancel()

					application, err := app.New(ctx, cfg, obs)
					if err != nil {
						return err
					}
					defer application.Close()

					return application.Run(ctx)
				},
			},
		},
		DefaultCommand: "serve",
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
