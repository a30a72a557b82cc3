// Command panel runs queries across a panel of specialist participants and
// keeps the local session and feedback history.
package main

import (
	"os"

	"github.com/rs/zerolog/log"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("panel failed")
		os.Exit(1)
	}
}
