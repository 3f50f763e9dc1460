package api

import (
	"github.com/rs/zerolog/log"
	"github.com/travigo/tripplanner/pkg/directions"
	"github.com/travigo/tripplanner/pkg/planner"
	"github.com/travigo/tripplanner/pkg/routeapi"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "web-api",
		Usage: "Provides the map view web API",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run web api server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Value: ":8080",
						Usage: "listen target for the web server",
					},
					&cli.StringFlag{
						Name:  "config",
						Usage: "YAML file with travel mode and colour defaults",
					},
				},
				Action: func(c *cli.Context) error {
					config := planner.DefaultConfig()
					if path := c.String("config"); path != "" {
						var err error
						if config, err = planner.LoadConfig(path); err != nil {
							return err
						}
					}

					provider, err := directions.NewProviderFromEnvironment()
					if err != nil {
						return err
					}

					manager := planner.NewManager(routeapi.NewClientFromEnvironment(), provider, config)
					defer manager.CloseAll()

					log.Info().Str("listen", c.String("listen")).Msg("Starting web API")

					return SetupServer(c.String("listen"), manager)
				},
			},
		},
	}
}
