package config

import (
	"errors"
	"os"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

var (
	Lock sync.RWMutex

	initLock  sync.Mutex
	hasInit   bool
	initError error
)

func IsDocker() bool {
	return os.Getenv("TEXTHOLDER_MODE") == "docker"
}

func IsProductionMode() bool {
	return os.Getenv("ENVIRONMENT") == "prod"
}

func IsDebugLoggingEnabled() bool {
	return os.Getenv("DEBUG_LOG") == "true"
}

func Init() error {
	initLock.Lock()
	defer initLock.Unlock()

	if hasInit {
		return initError
	}

	Lock.Lock()
	defer Lock.Unlock()

	configFilePath := os.Getenv("CONFIG_FILE_PATH")
	if configFilePath == "" {
		viper.SetConfigName("textholder")
		viper.SetConfigType("yaml")
		viper.AddConfigPath("/config")
		viper.AddConfigPath(".")
	} else {
		viper.SetConfigFile(configFilePath)
	}

	err := viper.ReadInConfig()
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			initError = err
			return initError
		}

		log.Fatal().Str("config_file", viper.ConfigFileUsed()).Err(err).Msg("could not read config")
	}
	hasInit = true
	log.Info().Str("config_file_path", viper.ConfigFileUsed()).Msg("initialized configuration")
	viper.WatchConfig()

	return nil
}

func ValidateConfig() []string {
	var errorsFound []string

	if dbKind := viper.GetString(KeyDBKind); dbKind != "sqlite" {
		log.Error().Str("db.kind", dbKind).Msg("invalid db kind; must be sqlite")
		errorsFound = append(errorsFound, "invalid `db.kind`; must be `sqlite`")
	}

	if viper.GetString(KeyDBFile) == "" {
		log.Error().Msg("db.file is not set")
		errorsFound = append(errorsFound, "`db.file` is not set")
	}

	if viper.GetString(KeyGitHubToken) == "" {
		log.Error().Msg("github.token is not set")
		errorsFound = append(errorsFound, "`github.token` is not set")
	}

	if viper.GetString(KeyGitHubUsername) == "" {
		log.Error().Msg("github.username is not set")
		errorsFound = append(errorsFound, "`github.username` is not set")
	}

	if viper.GetString(KeyGitHubRepo) == "" {
		log.Error().Msg("github.repo is not set")
		errorsFound = append(errorsFound, "`github.repo` is not set")
	}

	if viper.GetString(KeySuperToken) == "" {
		log.Error().Msg("security.super_token is not set; no admin operation will be possible")
		errorsFound = append(errorsFound, "`security.super_token` is not set")
	}

	return errorsFound
}
