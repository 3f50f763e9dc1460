package routesync

import (
	"github.com/rs/zerolog/log"
)

// Notifier surfaces transient messages to the user
type Notifier interface {
	Success(message string)
	Failure(message string, err error)
}

type LogNotifier struct {
	View string
}

func (n LogNotifier) Success(message string) {
	log.Info().Str("view", n.View).Msg(message)
}

func (n LogNotifier) Failure(message string, err error) {
	log.Error().Err(err).Str("view", n.View).Msg(message)
}
