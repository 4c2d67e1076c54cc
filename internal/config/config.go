package config

import (
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	DefaultPath = ".env"

	KeyLogLevel = "VISIM_LOG_LEVEL"
	KeySeed     = "VISIM_SEED"
	KeyWorkers  = "VISIM_WORKERS"
)

type Config struct {
	LogLevel logrus.Level
	// Seed fixes the random spot placement when nonzero.
	Seed int64
	// Workers sizes the batch pool; zero means one per processor.
	Workers int
}

func Default() Config {
	return Config{LogLevel: logrus.InfoLevel}
}

// Load reads path as a dotenv file, if it exists, and lets the process
// environment override any key in it.
func Load(path string) (Config, error) {
	env := map[string]string{}
	if path != "" {
		fileEnv, err := godotenv.Read(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return Config{}, errors.Wrapf(err, "read %s", path)
		default:
			env = fileEnv
		}
	}
	for _, key := range []string{KeyLogLevel, KeySeed, KeyWorkers} {
		if v, ok := os.LookupEnv(key); ok {
			env[key] = v
		}
	}
	return parse(env)
}

func parse(env map[string]string) (Config, error) {
	c := Default()
	if v := env[KeyLogLevel]; v != "" {
		lvl, err := logrus.ParseLevel(v)
		if err != nil {
			return Config{}, errors.Wrap(err, KeyLogLevel)
		}
		c.LogLevel = lvl
	}
	if v := env[KeySeed]; v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return Config{}, errors.Wrap(err, KeySeed)
		}
		c.Seed = seed
	}
	if v := env[KeyWorkers]; v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, errors.Wrap(err, KeyWorkers)
		}
		if n < 0 {
			return Config{}, errors.Errorf("%s must not be negative, got %d", KeyWorkers, n)
		}
		c.Workers = n
	}
	return c, nil
}
