package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
)

// DefaultEnvFile is read when no env file is named explicitly.
const DefaultEnvFile = ".env"

// LoadEnvFile copies the variables of a dotenv file into the process
// environment without overriding variables that are already set. A missing
// default file is ignored; a missing explicit file is an error.
func LoadEnvFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}
