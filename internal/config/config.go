// Package config loads server settings from the environment. A .env file in
// the working directory is read first when present; real environment
// variables win over it.
package config

import (
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/geocards/geocards-api/internal/errors"
)

// Store backends
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Log formats
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config holds every server setting
type Config struct {
	GRPCPort          int
	RelayPort         int
	RelayPortAttempts int

	StoreBackend string
	RedisAddr    string

	JWTSecret string
	TokenTTL  time.Duration

	OpponentDelay   time.Duration
	TurnReturnDelay time.Duration

	NearbyRadiusMeters  float64
	CollectRadiusMeters float64

	LogLevel  string
	LogFormat string
}

// Default returns the settings used when nothing is configured
func Default() *Config {
	return &Config{
		GRPCPort:            50051,
		RelayPort:           3000,
		RelayPortAttempts:   10,
		StoreBackend:        BackendMemory,
		RedisAddr:           "localhost:6379",
		TokenTTL:            24 * time.Hour,
		OpponentDelay:       time.Second,
		TurnReturnDelay:     time.Second,
		NearbyRadiusMeters:  100,
		CollectRadiusMeters: 100,
		LogLevel:            "info",
		LogFormat:           FormatText,
	}
}

// Load reads the given .env files (default ".env"), then the process
// environment. Missing files are skipped.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, errors.Wrapf(err, "failed to load %s", f)
		}
		slog.Debug("Loaded environment file", "file", f)
	}

	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from lookup, starting from Default
func FromEnv(lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()
	p := &parser{lookup: lookup, vb: errors.NewValidationBuilder()}

	p.int("GRPC_PORT", &cfg.GRPCPort)
	p.int("RELAY_PORT", &cfg.RelayPort)
	p.int("RELAY_PORT_ATTEMPTS", &cfg.RelayPortAttempts)
	p.string("STORE_BACKEND", &cfg.StoreBackend)
	p.string("REDIS_ADDR", &cfg.RedisAddr)
	p.string("JWT_SECRET", &cfg.JWTSecret)
	p.duration("TOKEN_TTL", &cfg.TokenTTL)
	p.duration("OPPONENT_DELAY", &cfg.OpponentDelay)
	p.duration("TURN_RETURN_DELAY", &cfg.TurnReturnDelay)
	p.float("NEARBY_RADIUS_METERS", &cfg.NearbyRadiusMeters)
	p.float("COLLECT_RADIUS_METERS", &cfg.CollectRadiusMeters)
	p.string("LOG_LEVEL", &cfg.LogLevel)
	p.string("LOG_FORMAT", &cfg.LogFormat)

	if err := p.vb.Build(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges and enumerations
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	validPort := func(field string, port int) {
		if port <= 0 || port > 65535 {
			vb.Fieldf(field, "must be between 1 and 65535, got %d", port)
		}
	}
	validPort("GRPC_PORT", c.GRPCPort)
	validPort("RELAY_PORT", c.RelayPort)

	if c.RelayPortAttempts <= 0 {
		vb.Field("RELAY_PORT_ATTEMPTS", "must be positive")
	}

	switch c.StoreBackend {
	case BackendMemory:
	case BackendRedis:
		if c.RedisAddr == "" {
			vb.RequiredField("REDIS_ADDR")
		}
	default:
		vb.Fieldf("STORE_BACKEND", "must be %q or %q", BackendMemory, BackendRedis)
	}

	if c.TokenTTL <= 0 {
		vb.Field("TOKEN_TTL", "must be positive")
	}
	if c.OpponentDelay < 0 {
		vb.Field("OPPONENT_DELAY", "cannot be negative")
	}
	if c.TurnReturnDelay < 0 {
		vb.Field("TURN_RETURN_DELAY", "cannot be negative")
	}
	if c.NearbyRadiusMeters <= 0 {
		vb.Field("NEARBY_RADIUS_METERS", "must be positive")
	}
	if c.CollectRadiusMeters <= 0 {
		vb.Field("COLLECT_RADIUS_METERS", "must be positive")
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		vb.Fieldf("LOG_LEVEL", "unknown level %q", c.LogLevel)
	}
	if c.LogFormat != FormatText && c.LogFormat != FormatJSON {
		vb.Fieldf("LOG_FORMAT", "must be %q or %q", FormatText, FormatJSON)
	}

	return vb.Build()
}

// Logger builds the process logger described by LogLevel and LogFormat
func (c *Config) Logger(w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.LogFormat, FormatJSON) {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

type parser struct {
	lookup func(string) (string, bool)
	vb     *errors.ValidationBuilder
}

func (p *parser) get(key string) (string, bool) {
	v, ok := p.lookup(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func (p *parser) string(key string, dst *string) {
	if v, ok := p.get(key); ok {
		*dst = v
	}
}

func (p *parser) int(key string, dst *int) {
	v, ok := p.get(key)
	if !ok {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.vb.Fieldf(key, "not an integer: %q", v)
		return
	}
	*dst = n
}

func (p *parser) float(key string, dst *float64) {
	v, ok := p.get(key)
	if !ok {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.vb.Fieldf(key, "not a number: %q", v)
		return
	}
	*dst = f
}

func (p *parser) duration(key string, dst *time.Duration) {
	v, ok := p.get(key)
	if !ok {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.vb.Fieldf(key, "not a duration: %q", v)
		return
	}
	*dst = d
}
