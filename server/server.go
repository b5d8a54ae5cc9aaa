package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/kunori-kiku/textholder/config"
	"github.com/kunori-kiku/textholder/directory"
	"github.com/kunori-kiku/textholder/failban"
	"github.com/kunori-kiku/textholder/fetcher"
	"github.com/kunori-kiku/textholder/handlers"
	"github.com/kunori-kiku/textholder/kv/sqlite"
)

func RunServer() {
	err := config.Init()
	var fileNotFoundError viper.ConfigFileNotFoundError

	if errors.As(err, &fileNotFoundError) {
		log.Fatal().Msg("no config file found; create textholder.yaml or set CONFIG_FILE_PATH")
	}

	configErrors := config.ValidateConfig()
	if configErrors != nil {
		for _, curr := range configErrors {
			log.Error().Str("problem", curr).Msg("invalid configuration")
		}
		os.Exit(1)
	}

	config.Lock.RLock()
	port := viper.GetInt(config.KeyServerPort)
	if port == 0 {
		log.Warn().Int("default_port", config.DefaultServerPort).Msg("no port specified, using default")
		port = config.DefaultServerPort
	}
	config.Lock.RUnlock()

	store, err := sqlite.NewFromConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("could not initialize store")
	}

	e := handlers.Env{
		Directory:  directory.New(store),
		Tracker:    failban.NewTrackerFromConfig(store),
		Fetcher:    fetcher.NewGitHubFromConfig(),
		SuperToken: viper.GetString(config.KeySuperToken),
	}
	log.Info().Msg("services initialized")

	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", port),
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  15 * time.Second,
		Handler:      e.BuildRouter(),
	}

	log.Info().Int("port", port).Msg("starting server")
	go func() {
		if viper.GetBool(config.KeyServerTLSEnabled) {
			keyFile := viper.GetString(config.KeyServerTLSKeyFile)
			certFile := viper.GetString(config.KeyServerTLSCertFile)
			log.Info().Int("port", port).Str("key_file", keyFile).Str("cert_file", certFile).Msg("starting with tls enabled")
			if err := srv.ListenAndServeTLS(certFile, keyFile); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Panic().Err(err).Msg("error starting server")
			}
		} else {
			log.Info().Int("port", port).Msg("starting plain HTTP server")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Panic().Err(err).Msg("error starting server")
			}
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)

	<-c

	log.Warn().Msg("interrupt received")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		log.Info().Msg("shutting down server")
		err := srv.Shutdown(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("error shutting down server")
		}
		wg.Done()
	}()
	go func() {
		log.Info().Msg("closing store")
		err := store.Close()
		if err != nil {
			log.Warn().Err(err).Msg("error closing store")
		}
		wg.Done()
	}()
	wg.Wait()
	log.Info().Msg("shutdown complete")

	os.Exit(0)
}
