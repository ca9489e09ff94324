package app

import (
	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/taskd/internal/config"
)

// ReadConfig reads the config from CONFIG_PATH if set, and from the
// environment (including a .env file in the working directory) otherwise.
func ReadConfig(logger zerolog.Logger) (config.Config, error) {
	cfg, err := config.NewReader().Read()
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to read config")
		return config.Config{}, err
	}
	logger.Info().
		Str("env", cfg.Env).
		Str("storage_driver", cfg.StorageDriver).
		Msg("read config")
	return cfg, nil
}
