// Package config loads server settings from the environment and an optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/scythe504/sketchroom/internal/game"
)

var Validate = validator.New()

type Config struct {
	Port           string   `validate:"required,number"`
	AllowedOrigins []string `validate:"required,min=1,dive,required"`
	LogLevel       string   `validate:"oneof=trace debug info warn error"`
	LogPretty      bool
	DatabaseURL    string `validate:"omitempty,url"`
	WordsFile      string `validate:"omitempty,file"`

	MaxRooms          int `validate:"gte=1,lte=10000"`
	MaxPlayersPerRoom int `validate:"gte=1,lte=50"`

	WordSelectionTime time.Duration `validate:"gte=1s"`
	RoundTime         time.Duration `validate:"gte=1s"`
	RoundEndTime      time.Duration `validate:"gte=1s"`
	GameEndTime       time.Duration `validate:"gte=1s"`

	InactivityTTL time.Duration `validate:"gt=0"`
	PressureTTL   time.Duration `validate:"gt=0,ltefield=InactivityTTL"`
	SweepInterval time.Duration `validate:"gt=0"`

	MemoryPressurePercent float64 `validate:"gt=0,lte=100"`
	EventsPerSecond       float64 `validate:"gte=0"`
	EventBurst            int     `validate:"gte=0"`
}

// LoadConfig reads .env when present, then the process environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	defaults := game.DefaultSettings()
	p := &parser{}

	config := &Config{
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogPretty:      p.bool("LOG_PRETTY", false),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		WordsFile:      os.Getenv("WORDS_FILE"),

		MaxRooms:          p.int("MAX_ROOMS", defaults.MaxRooms),
		MaxPlayersPerRoom: p.int("MAX_PLAYERS_PER_ROOM", defaults.MaxPlayersPerRoom),

		WordSelectionTime: p.seconds("WORD_SELECTION_SECONDS", defaults.WordSelectionTime),
		RoundTime:         p.seconds("ROUND_SECONDS", defaults.RoundTime),
		RoundEndTime:      p.seconds("ROUND_END_SECONDS", defaults.RoundEndTime),
		GameEndTime:       p.seconds("GAME_END_SECONDS", defaults.GameEndTime),

		InactivityTTL: p.duration("INACTIVITY_TTL", defaults.InactivityTTL),
		PressureTTL:   p.duration("PRESSURE_TTL", defaults.PressureTTL),
		SweepInterval: p.duration("SWEEP_INTERVAL", defaults.SweepInterval),

		MemoryPressurePercent: p.float("MEMORY_PRESSURE_PERCENT", 85),
		EventsPerSecond:       p.float("EVENTS_PER_SECOND", 60),
		EventBurst:            p.int("EVENT_BURST", 120),
	}

	if p.err != nil {
		return nil, p.err
	}
	if err := Validate.Struct(config); err != nil {
		return nil, err
	}

	return config, nil
}

// GameSettings maps the config onto registry settings.
func (c *Config) GameSettings() game.Settings {
	return game.Settings{
		MaxRooms:          c.MaxRooms,
		MaxPlayersPerRoom: c.MaxPlayersPerRoom,
		WordSelectionTime: c.WordSelectionTime,
		RoundTime:         c.RoundTime,
		RoundEndTime:      c.RoundEndTime,
		GameEndTime:       c.GameEndTime,
		InactivityTTL:     c.InactivityTTL,
		PressureTTL:       c.PressureTTL,
		SweepInterval:     c.SweepInterval,
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parser keeps the first conversion error so LoadConfig reports it once.
type parser struct {
	err error
}

func (p *parser) fail(key, raw string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("config %s=%q: %w", key, raw, err)
	}
}

func (p *parser) int(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.fail(key, raw, err)
		return fallback
	}
	return v
}

func (p *parser) float(key string, fallback float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.fail(key, raw, err)
		return fallback
	}
	return v
}

func (p *parser) bool(key string, fallback bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		p.fail(key, raw, err)
		return fallback
	}
	return v
}

func (p *parser) seconds(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.fail(key, raw, err)
		return fallback
	}
	return time.Duration(v) * time.Second
}

func (p *parser) duration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		p.fail(key, raw, err)
		return fallback
	}
	return v
}
