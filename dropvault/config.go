package dropvault

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/pelletier/go-toml/v2"

	"github.com/dropvault/dropvault/dropvault/database"
	"github.com/dropvault/dropvault/dropvault/web"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type Config struct {
	Log     LogConfig               `toml:"log"`
	Bot     BotConfig               `toml:"bot"`
	Storage StorageConfig           `toml:"storage"`
	Audit   database.PostgresConfig `toml:"audit"`
	Economy EconomyConfig           `toml:"economy"`
	Web     web.Config              `toml:"web"`
	Spaces  SpacesConfig            `toml:"spaces"`
}

type BotConfig struct {
	DevGuilds []snowflake.ID `toml:"dev_guilds"`
	Token     string         `toml:"token"`
	Admins    []snowflake.ID `toml:"admins"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	Format    string     `toml:"format"`
	AddSource bool       `toml:"add_source"`
}

// StorageConfig selects the snapshot gateway. Driver is "mongo" or "file".
type StorageConfig struct {
	Driver       string               `toml:"driver"`
	FilePath     string               `toml:"file_path"`
	Mongo        database.MongoConfig `toml:"mongo"`
	FlushDelayMS int                  `toml:"flush_delay_ms"`
}

func (c StorageConfig) FlushDelay() time.Duration {
	if c.FlushDelayMS <= 0 {
		return 0
	}
	return time.Duration(c.FlushDelayMS) * time.Millisecond
}

// EconomyConfig tunes the daily grant. Timezone decides where midnight is.
type EconomyConfig struct {
	DailyAmount int64  `toml:"daily_amount"`
	Timezone    string `toml:"timezone"`
}

func (c EconomyConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.Timezone)
}

type SpacesConfig struct {
	Enabled  bool   `toml:"enabled"`
	Key      string `toml:"key"`
	Secret   string `toml:"secret"`
	Region   string `toml:"region"`
	Bucket   string `toml:"bucket"`
	ItemRoot string `toml:"itemroot"`
}
