package planner

import (
	"fmt"
	"os"

	"github.com/travigo/tripplanner/pkg/directions"
	"github.com/travigo/tripplanner/pkg/itinerary"
	"gopkg.in/yaml.v3"
)

type Config struct {
	TravelMode         string   `yaml:"travelMode"`
	RouteColor         string   `yaml:"routeColor"`
	DayColours         []string `yaml:"dayColours"`
	MaxConcurrentLoads int      `yaml:"maxConcurrentLoads"`
}

func DefaultConfig() Config {
	return Config{
		TravelMode:         string(directions.TravelModeDriving),
		DayColours:         itinerary.DayColours,
		MaxConcurrentLoads: 8,
	}
}

// LoadConfig reads a YAML config file, anything it leaves out keeps the default
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	contents, err := os.ReadFile(path)
	if err != nil {
		return config, err
	}

	if err := yaml.Unmarshal(contents, &config); err != nil {
		return config, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if _, err := directions.ParseTravelMode(config.TravelMode); err != nil {
		return config, err
	}
	if len(config.DayColours) == 0 {
		config.DayColours = itinerary.DayColours
	}
	if config.MaxConcurrentLoads <= 0 {
		config.MaxConcurrentLoads = 8
	}

	return config, nil
}

func (c Config) DayColour(dayIndex int) string {
	if len(c.DayColours) == 0 {
		return itinerary.DayColour(dayIndex)
	}

	return c.DayColours[dayIndex%len(c.DayColours)]
}
