package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/anicoll/mhihvac-integration/cmd"
	"github.com/anicoll/mhihvac-integration/pkg/hasher"
)

func main() {
	app := &cli.App{
		Name:   "mhihvac-controller",
		Usage:  "integration daemon for the MHI HVAC local API",
		Action: cmd.HvacCommand,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "hvac-host",
				EnvVars: []string{"HVAC_HOST"},
				Value:   "",
			},
			&cli.StringFlag{
				Name:    "hvac-username",
				EnvVars: []string{"HVAC_USERNAME"},
				Value:   "",
			},
			&cli.StringFlag{
				Name:    "hvac-password",
				EnvVars: []string{"HVAC_PASSWORD"},
				Value:   "",
			},
			&cli.IntFlag{
				Name:    "hvac-max-retries",
				EnvVars: []string{"HVAC_MAX_RETRIES"},
				Value:   3,
			},
			&cli.DurationFlag{
				Name:    "poll-interval",
				EnvVars: []string{"POLL_INTERVAL"},
				Value:   30 * time.Second,
			},
			&cli.StringFlag{
				Name:    "mqtt-host",
				EnvVars: []string{"MQTT_HOST"},
				Value:   "",
			},
			&cli.StringFlag{
				Name:    "mqtt-user",
				EnvVars: []string{"MQTT_USER"},
				Value:   "",
			},
			&cli.StringFlag{
				Name:    "mqtt-pass",
				EnvVars: []string{"MQTT_PASS"},
				Value:   "",
			},
			&cli.StringFlag{
				Name:    "database-url",
				EnvVars: []string{"DATABASE_URL"},
				Value:   "",
			},
			&cli.StringFlag{
				Name:    "migrations-folder",
				EnvVars: []string{"MIGRATIONS_FOLDER"},
				Value:   "",
			},
			&cli.StringFlag{
				Name:    "server-address",
				EnvVars: []string{"SERVER_ADDRESS"},
				Value:   "0.0.0.0:8000",
			},
			&cli.StringFlag{
				Name:    "server-secret-hash",
				EnvVars: []string{"SERVER_SECRET_HASH"},
				Value:   "",
			},
			&cli.StringFlag{
				Name:    "log-level",
				EnvVars: []string{"LOG_LEVEL"},
				Value:   "INFO",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "hash-secret",
				Usage: "print the bcrypt hash of a control API secret",
				Action: func(ctx *cli.Context) error {
					hash, err := hasher.HashSecret([]byte(ctx.Args().First()))
					if err != nil {
						return err
					}
					fmt.Println(hash)
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
