package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func setValidConfig() {
	viper.Set(KeyDBKind, "sqlite")
	viper.Set(KeyDBFile, "/data/textholder.db")
	viper.Set(KeyGitHubToken, "ghp_sometoken")
	viper.Set(KeyGitHubUsername, "someuser")
	viper.Set(KeyGitHubRepo, "somerepo")
	viper.Set(KeySuperToken, "supersecret")
}

func TestValidateConfig(t *testing.T) {
	t.Run("valid config has no errors", func(t *testing.T) {
		t.Cleanup(viper.Reset)
		setValidConfig()

		assert.Empty(t, ValidateConfig())
	})

	t.Run("missing everything", func(t *testing.T) {
		t.Cleanup(viper.Reset)

		errorsFound := ValidateConfig()
		assert.Contains(t, errorsFound, "invalid `db.kind`; must be `sqlite`")
		assert.Contains(t, errorsFound, "`db.file` is not set")
		assert.Contains(t, errorsFound, "`github.token` is not set")
		assert.Contains(t, errorsFound, "`security.super_token` is not set")
	})

	t.Run("wrong db kind", func(t *testing.T) {
		t.Cleanup(viper.Reset)
		setValidConfig()
		viper.Set(KeyDBKind, "postgres")

		errorsFound := ValidateConfig()
		assert.Equal(t, []string{"invalid `db.kind`; must be `sqlite`"}, errorsFound)
	})

	t.Run("missing super token", func(t *testing.T) {
		t.Cleanup(viper.Reset)
		setValidConfig()
		viper.Set(KeySuperToken, "")

		errorsFound := ValidateConfig()
		assert.Equal(t, []string{"`security.super_token` is not set"}, errorsFound)
	})
}
