package planner

import (
	"context"

	"github.com/kr/pretty"
	"github.com/rs/zerolog/log"
	"github.com/travigo/tripplanner/pkg/directions"
	"github.com/travigo/tripplanner/pkg/routeapi"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "route",
		Usage: "Itinerary routes",
		Subcommands: []*cli.Command{
			{
				Name:  "compute",
				Usage: "compute the routes of a plan, or a single day of it",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "plan",
						Usage:    "plan identifier",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "day",
						Usage: "only compute this day of the plan",
					},
					&cli.StringFlag{
						Name:  "travel-mode",
						Usage: "DRIVING, WALKING, BICYCLING or TRANSIT",
					},
					&cli.StringFlag{
						Name:  "color",
						Usage: "route colour, defaults to the day colour",
					},
					&cli.BoolFlag{
						Name:  "preserve-order",
						Usage: "keep the item order of the plan instead of sorting by start time",
					},
					&cli.StringFlag{
						Name:  "config",
						Usage: "YAML file with travel mode and colour defaults",
					},
					&cli.BoolFlag{
						Name:  "dump",
						Usage: "print the full map state of every view",
					},
				},
				Action: func(c *cli.Context) error {
					config := DefaultConfig()
					if path := c.String("config"); path != "" {
						var err error
						if config, err = LoadConfig(path); err != nil {
							return err
						}
					}

					options := ViewOptions{
						PreserveOrder: c.Bool("preserve-order"),
						RouteColor:    c.String("color"),
					}
					if c.String("travel-mode") != "" {
						mode, err := directions.ParseTravelMode(c.String("travel-mode"))
						if err != nil {
							return err
						}
						options.TravelMode = mode
					}

					provider, err := directions.NewProviderFromEnvironment()
					if err != nil {
						return err
					}

					manager := NewManager(routeapi.NewClientFromEnvironment(), provider, config)
					defer manager.CloseAll()

					views, err := compute(c.Context, manager, c.String("plan"), c.String("day"), options)
					if err != nil {
						return err
					}

					for _, view := range views {
						snapshot := view.Map.Snapshot()

						event := log.Info().Str("view", view.ID).Int("markers", len(snapshot.Markers)).Int("connectors", len(snapshot.Connectors))
						if snapshot.Path != nil {
							event = event.Int("legs", len(snapshot.Path.Legs)).
								Int("distance", snapshot.Path.DistanceMeters).
								Int("duration", snapshot.Path.DurationSeconds)
						}
						event.Msg("Computed route")

						if c.Bool("dump") {
							pretty.Println(snapshot)
						}
					}

					return nil
				},
			},
		},
	}
}

func compute(ctx context.Context, manager *Manager, planID string, dayID string, options ViewOptions) ([]*View, error) {
	if dayID == "" {
		return manager.OpenPlan(ctx, planID, options)
	}

	view, err := manager.OpenDay(ctx, planID, dayID, options)
	if err != nil {
		return nil, err
	}

	return []*View{view}, nil
}
