package main

import (
	"github.com/rs/zerolog/log"

	"github.com/kunori-kiku/textholder/ainit"
	"github.com/kunori-kiku/textholder/cmd"
)

func main() {
	log.Info().Bool("loaded", ainit.Loaded()).Msg("initializing services")
	cmd.Execute()
}
