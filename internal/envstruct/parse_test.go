package envstruct

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPopulate(t *testing.T) {
	lookupEnv := func(key string) (string, bool) {
		switch key {
		case "SPECTER_ADDR":
			return "localhost:0", true
		default:
			return "", false
		}
	}

	type config struct {
		Addr      string `env:"SPECTER_ADDR"`
		SqliteURL string `env:"SPECTER_SQLITE_URL" envDefault:"./specter.sqlite"`
		untagged  string //nolint:unused // verifies untagged fields are skipped
	}

	var cfg config
	err := Populate(&cfg, lookupEnv)
	require.NoError(t, err)
	require.Equal(t, "localhost:0", cfg.Addr)
	require.Equal(t, "./specter.sqlite", cfg.SqliteURL)
}

func TestPopulate_missingEnv(t *testing.T) {
	lookupEnv := func(string) (string, bool) {
		return "", false
	}

	type config struct {
		Addr string `env:"SPECTER_ADDR"`
	}

	var cfg config
	err := Populate(&cfg, lookupEnv)
	require.ErrorIs(t, err, ErrEnvNotSet)
}

func TestPopulate_invalidValue(t *testing.T) {
	lookupEnv := func(string) (string, bool) {
		return "", false
	}

	require.ErrorIs(t, Populate("not a struct", lookupEnv), ErrInvalidValue)

	type config struct {
		Port int `env:"SPECTER_PORT" envDefault:"4000"`
	}
	var cfg config
	require.ErrorIs(t, Populate(&cfg, lookupEnv), ErrInvalidValue)
}
