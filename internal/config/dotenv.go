package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
)

// DotEnvFile is read from the working directory before the config file.
const DotEnvFile = ".env"

// LoadDotEnv exports the variables in path that are not already set, so API
// keys can live in a project .env file. A missing file is not an error.
func LoadDotEnv(path string) (bool, error) {
	if path == "" {
		path = DotEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("load %s: %w", path, err)
	}
	return true, nil
}
