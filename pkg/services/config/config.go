package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/de-tools/rampa-irr/pkg/models/domain"
	"github.com/de-tools/rampa-irr/pkg/services/calendar"
	"github.com/de-tools/rampa-irr/pkg/services/rampa"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

const envPrefix = "RAMPA"

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type UploadConfig struct {
	MaxBytes int64 `mapstructure:"max_bytes"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type ColumnsConfig struct {
	OpeningDate string `mapstructure:"opening_date"`
	Location    string `mapstructure:"location"`
	Outcome     string `mapstructure:"outcome"`
}

type RampaConfig struct {
	RepeatCap         float64       `mapstructure:"repeat_cap"`
	QualifyingOutcome string        `mapstructure:"qualifying_outcome"`
	Locale            string        `mapstructure:"locale"`
	Timezone          string        `mapstructure:"timezone"`
	Columns           ColumnsConfig `mapstructure:"columns"`
}

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Upload UploadConfig `mapstructure:"upload"`
	Log    LogConfig    `mapstructure:"log"`
	Rampa  RampaConfig  `mapstructure:"rampa"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("upload.max_bytes", 32<<20)
	v.SetDefault("log.level", "info")
	v.SetDefault("rampa.repeat_cap", rampa.DefaultRepeatCap)
	v.SetDefault("rampa.qualifying_outcome", rampa.DefaultQualifyingOutcome)
	v.SetDefault("rampa.locale", "pt-BR")
	v.SetDefault("rampa.timezone", "America/Sao_Paulo")
	v.SetDefault("rampa.columns.opening_date", "DATA_ABERTURA")
	v.SetDefault("rampa.columns.location", "CLUSTER")
	v.SetDefault("rampa.columns.outcome", "TRATATIVA")
}

// LoadConfig reads the optional config file at path and applies RAMPA_* environment overrides.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// Location resolves the configured time zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Rampa.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Rampa.Timezone, err)
	}
	return loc, nil
}

func (c *Config) Columns() domain.ColumnMapping {
	return domain.ColumnMapping{
		OpeningDate: c.Rampa.Columns.OpeningDate,
		Location:    c.Rampa.Columns.Location,
		Outcome:     c.Rampa.Columns.Outcome,
	}
}

func (c *Config) Settings() (rampa.Settings, error) {
	tag, err := calendar.ParseLocale(c.Rampa.Locale)
	if err != nil {
		return rampa.Settings{}, err
	}
	return rampa.Settings{
		RepeatCap:         c.Rampa.RepeatCap,
		QualifyingOutcome: c.Rampa.QualifyingOutcome,
		Locale:            tag,
	}, nil
}

func (c *Config) LogLevel() zerolog.Level {
	level, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}
