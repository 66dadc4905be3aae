package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/geocards/geocards-api/internal/config"
	"github.com/geocards/geocards-api/internal/errors"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigTestSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func (s *ConfigTestSuite) TestDefaults() {
	cfg, err := config.FromEnv(lookupFrom(nil))
	s.Require().NoError(err)

	s.Equal(50051, cfg.GRPCPort)
	s.Equal(3000, cfg.RelayPort)
	s.Equal(10, cfg.RelayPortAttempts)
	s.Equal(config.BackendMemory, cfg.StoreBackend)
	s.Equal(time.Second, cfg.OpponentDelay)
	s.Equal(time.Second, cfg.TurnReturnDelay)
	s.Equal(100.0, cfg.NearbyRadiusMeters)
	s.Equal(100.0, cfg.CollectRadiusMeters)
	s.Empty(cfg.JWTSecret)
}

func (s *ConfigTestSuite) TestOverrides() {
	cfg, err := config.FromEnv(lookupFrom(map[string]string{
		"GRPC_PORT":             "6000",
		"STORE_BACKEND":         "redis",
		"REDIS_ADDR":            "redis:6379",
		"JWT_SECRET":            "s3cret",
		"TOKEN_TTL":             "1h",
		"OPPONENT_DELAY":        "250ms",
		"COLLECT_RADIUS_METERS": "42.5",
		"LOG_LEVEL":             "debug",
		"LOG_FORMAT":            "json",
		"RELAY_PORT":            "  ",
	}))
	s.Require().NoError(err)

	s.Equal(6000, cfg.GRPCPort)
	s.Equal(config.BackendRedis, cfg.StoreBackend)
	s.Equal("redis:6379", cfg.RedisAddr)
	s.Equal("s3cret", cfg.JWTSecret)
	s.Equal(time.Hour, cfg.TokenTTL)
	s.Equal(250*time.Millisecond, cfg.OpponentDelay)
	s.Equal(42.5, cfg.CollectRadiusMeters)
	s.Equal(3000, cfg.RelayPort)
}

func (s *ConfigTestSuite) TestInvalidValues() {
	testCases := []struct {
		name string
		env  map[string]string
	}{
		{name: "non-numeric port", env: map[string]string{"GRPC_PORT": "abc"}},
		{name: "port out of range", env: map[string]string{"RELAY_PORT": "70000"}},
		{name: "unknown backend", env: map[string]string{"STORE_BACKEND": "sqlite"}},
		{name: "bad duration", env: map[string]string{"TOKEN_TTL": "forever"}},
		{name: "negative delay", env: map[string]string{"OPPONENT_DELAY": "-1s"}},
		{name: "zero radius", env: map[string]string{"NEARBY_RADIUS_METERS": "0"}},
		{name: "unknown log level", env: map[string]string{"LOG_LEVEL": "chatty"}},
		{name: "unknown log format", env: map[string]string{"LOG_FORMAT": "xml"}},
		{name: "zero attempts", env: map[string]string{"RELAY_PORT_ATTEMPTS": "0"}},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := config.FromEnv(lookupFrom(tc.env))
			s.Require().Error(err)
			s.True(errors.IsInvalidArgument(err))
		})
	}
}

func (s *ConfigTestSuite) TestLoadReadsEnvFile() {
	dir := s.T().TempDir()
	path := filepath.Join(dir, "test.env")
	s.Require().NoError(os.WriteFile(path, []byte("NEARBY_RADIUS_METERS=250\n"), 0o600))

	s.T().Setenv("NEARBY_RADIUS_METERS", "")
	s.Require().NoError(os.Unsetenv("NEARBY_RADIUS_METERS"))

	cfg, err := config.Load(path)
	s.Require().NoError(err)
	s.Equal(250.0, cfg.NearbyRadiusMeters)
}

func (s *ConfigTestSuite) TestLoadSkipsMissingFile() {
	_, err := config.Load(filepath.Join(s.T().TempDir(), "missing.env"))
	s.NoError(err)
}

func (s *ConfigTestSuite) TestLogger() {
	cfg := config.Default()
	cfg.LogLevel = "warn"
	logger := cfg.Logger(os.Stderr)
	s.NotNil(logger)
}
