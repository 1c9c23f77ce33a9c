package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"

	"uniplanner/internal/model"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env string

	Solver  SolverConfig
	Weights WeightsConfig
	Log     LogConfig
}

// SolverConfig carries the three time budgets: one full generation, one
// alternative-slot search, and one swap validation.
type SolverConfig struct {
	SolveBudget   time.Duration
	SearchBudget  time.Duration
	SwapBudget    time.Duration
	CapacitySlack int
}

type WeightsConfig struct {
	IdealTimeslot     int
	IdealRoom         int
	ForbiddenTimeslot int
}

func (weights WeightsConfig) Model() model.Weights {
	return model.Weights{
		IdealTimeslot:     weights.IdealTimeslot,
		IdealRoom:         weights.IdealRoom,
		ForbiddenTimeslot: weights.ForbiddenTimeslot,
	}
}

type LogConfig struct {
	Level  string
	Format string
}

func Load(file string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(file)
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	// A missing configuration file is fine, defaults and environment apply
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}
	cfg.Env = v.GetString("ENV")

	cfg.Solver = SolverConfig{
		SolveBudget:   parseDuration(v.GetString("SOLVE_BUDGET"), 60*time.Second),
		SearchBudget:  parseDuration(v.GetString("SEARCH_BUDGET"), 120*time.Second),
		SwapBudget:    parseDuration(v.GetString("SWAP_BUDGET"), 10*time.Second),
		CapacitySlack: v.GetInt("CAPACITY_SLACK"),
	}

	cfg.Weights = WeightsConfig{
		IdealTimeslot:     v.GetInt("WEIGHT_IDEAL_TIMESLOT"),
		IdealRoom:         v.GetInt("WEIGHT_IDEAL_ROOM"),
		ForbiddenTimeslot: v.GetInt("WEIGHT_FORBIDDEN_TIMESLOT"),
	}
	if cfg.Weights.IdealTimeslot <= 0 || cfg.Weights.IdealRoom <= 0 || cfg.Weights.ForbiddenTimeslot <= 0 {
		return nil, fmt.Errorf("constraint weights must be positive: ideal timeslot %v, ideal room %v, forbidden timeslot %v",
			cfg.Weights.IdealTimeslot, cfg.Weights.IdealRoom, cfg.Weights.ForbiddenTimeslot)
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	defaults := model.DefaultWeights()

	v.SetDefault("ENV", EnvDevelopment)

	v.SetDefault("SOLVE_BUDGET", "60s")
	v.SetDefault("SEARCH_BUDGET", "120s")
	v.SetDefault("SWAP_BUDGET", "10s")
	v.SetDefault("CAPACITY_SLACK", 10)

	v.SetDefault("WEIGHT_IDEAL_TIMESLOT", defaults.IdealTimeslot)
	v.SetDefault("WEIGHT_IDEAL_ROOM", defaults.IdealRoom)
	v.SetDefault("WEIGHT_FORBIDDEN_TIMESLOT", defaults.ForbiddenTimeslot)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}
