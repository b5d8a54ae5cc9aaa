package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kunori-kiku/textholder/config"
	"github.com/kunori-kiku/textholder/healthcheck"
)

var (
	host           string
	useConfig      bool
	timeoutSeconds int
	ignoreBadTLS   bool
)

func init() {
	healthCheckCmd.Flags().StringVar(&host, "host", "", "host to check")
	healthCheckCmd.Flags().BoolVarP(&useConfig, "useconfig", "c", false, "read values from config file")
	healthCheckCmd.Flags().IntVarP(&timeoutSeconds, "timeout", "t", 3, "timeout (in seconds)")
	healthCheckCmd.Flags().BoolVar(&ignoreBadTLS, "ignore-bad-tls", false, "ignore bad certificates for HTTPS")
}

var healthCheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "checks the health of textholder",
	Long: "checks the health of a running textholder instance. This is best used as a " +
		"defined healthcheck inside a docker container",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !useConfig && host == "" {
			return fmt.Errorf("textholder: healthcheck: one of useconfig host must be specified")
		}

		hostToCheck := host

		if useConfig {
			err := config.Init()
			if err != nil {
				log.Error().Err(err).Msg("could not read config")
			}

			scheme := "http"
			if viper.GetBool(config.KeyServerTLSEnabled) {
				scheme = "https"
			}

			port := viper.GetInt(config.KeyServerPort)
			if port == 0 {
				port = config.DefaultServerPort
			}

			hostToCheck = fmt.Sprintf("%s://localhost:%d", scheme, port)
		}

		err := healthcheck.CheckHealth(hostToCheck, time.Duration(timeoutSeconds)*time.Second, ignoreBadTLS)
		if err != nil {
			log.Error().Err(err).Str("host", hostToCheck).Msg("health check failed")
			os.Exit(1)
		}

		log.Info().Str("host", hostToCheck).Msg("health check passed")

		return nil
	},
}
