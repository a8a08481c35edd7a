package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StorageMemory = "memory"
	StorageRedis  = "redis"

	StatsNone   = "none"
	StatsCSV    = "csv"
	StatsSQLite = "sqlite"
)

type Config struct {
	LogLevel    string   `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	Storage     string   `yaml:"storage" env:"STORAGE" env-default:"memory"`
	PlayerNames []string `yaml:"player-names" env:"PLAYER_NAMES" env-separator:"," env-default:"Player 0,Player 1"`
	Redis       Redis    `yaml:"redis"`
	Stats       Stats    `yaml:"stats"`
}

type Redis struct {
	Host     string        `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port     string        `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD" env-default:""`
	MatchTTL time.Duration `yaml:"match-ttl" env:"REDIS_MATCH_TTL" env-default:"24h"`
}

type Stats struct {
	Driver     string `yaml:"driver" env:"STATS_DRIVER" env-default:"csv"`
	CSVPath    string `yaml:"csv-path" env:"STATS_CSV_PATH" env-default:"game_stats.csv"`
	SQLitePath string `yaml:"sqlite-path" env:"STATS_SQLITE_PATH" env-default:"game_stats.db"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

// Load reads the config file at path, or only the environment when path is empty.
func Load(path string) (*Config, error) {
	config := &Config{}

	if path == "" {
		if err := cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("unable to read config from environment: %w", err)
		}
	} else if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (that *Config) validate() error {
	switch that.Storage {
	case StorageMemory, StorageRedis:
	default:
		return fmt.Errorf("unknown storage %q", that.Storage)
	}

	switch that.Stats.Driver {
	case StatsNone, StatsCSV, StatsSQLite:
	default:
		return fmt.Errorf("unknown stats driver %q", that.Stats.Driver)
	}

	if len(that.PlayerNames) != 2 {
		return fmt.Errorf("exactly two player names are required, got %d", len(that.PlayerNames))
	}

	return nil
}

// DefaultPlayerNames returns the configured names of player 0 and player 1.
func (that *Config) DefaultPlayerNames() [2]string {
	return [2]string{that.PlayerNames[0], that.PlayerNames[1]}
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
