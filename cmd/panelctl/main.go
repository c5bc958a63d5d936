package main

import (
	"os"

	"panelkit/internal/cli"

	"github.com/rs/zerolog/log"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("panelctl failed")
		os.Exit(1)
	}
}
