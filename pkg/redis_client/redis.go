package redis_client

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/travigo/tripplanner/pkg/util"
)

var Client *redis.Client

const defaultConnectionAddress = "localhost:6379"
const defaultConnectionPassword = ""
const defaultDatabase = 0

func Options(env map[string]string) (*redis.Options, error) {
	address := defaultConnectionAddress
	password := defaultConnectionPassword
	database := defaultDatabase

	if env["TRIPPLANNER_REDIS_ADDRESS"] != "" {
		address = env["TRIPPLANNER_REDIS_ADDRESS"]
	}

	if env["TRIPPLANNER_REDIS_PASSWORD"] != "" {
		password = env["TRIPPLANNER_REDIS_PASSWORD"]
	}

	if env["TRIPPLANNER_REDIS_DATABASE"] != "" {
		n, err := strconv.Atoi(env["TRIPPLANNER_REDIS_DATABASE"])
		if err != nil {
			return nil, err
		}
		database = n
	}

	return &redis.Options{
		Addr:     address,
		Password: password,
		DB:       database,
	}, nil
}

func Connect() error {
	options, err := Options(util.GetEnvironmentVariables())
	if err != nil {
		return err
	}

	Client = redis.NewClient(options)

	return Client.Ping(context.Background()).Err()
}
