package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// PathEnv names the variable that points at an optional config file.
const PathEnv = "CONFIG_PATH"

type Reader interface {
	Read() (Config, error)
}

type EnvReader struct{}

func NewEnvReader() EnvReader {
	return EnvReader{}
}

func (EnvReader) Read() (Config, error) {
	var cfg Config
	err := cleanenv.ReadEnv(&cfg)
	if err != nil {
		return Config{}, err
	}

	if err = cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FileReader reads a yaml, toml, json or env file. Environment variables
// override values from the file.
type FileReader struct {
	path string
}

func NewFileReader(path string) FileReader {
	return FileReader{path: path}
}

func (r FileReader) Read() (Config, error) {
	var cfg Config
	err := cleanenv.ReadConfig(r.path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", r.path, err)
	}

	if err = cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// NewReader picks a FileReader when CONFIG_PATH is set and an EnvReader
// otherwise.
func NewReader() Reader {
	if path := os.Getenv(PathEnv); path != "" {
		return NewFileReader(path)
	}
	return NewEnvReader()
}
