package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vortex-fintech/go-cpf/internal/httpapi"
)

const (
	envEnv             = "CPFD_ENV"
	envServiceName     = "CPFD_SERVICE_NAME"
	envHTTPAddr        = "CPFD_HTTP_ADDR"
	envMetricsAddr     = "CPFD_METRICS_ADDR"
	envShutdownTimeout = "CPFD_SHUTDOWN_TIMEOUT"
	envMaxBodyBytes    = "CPFD_MAX_BODY_BYTES"
)

type Config struct {
	Env             string
	ServiceName     string
	HTTPAddr        string
	MetricsAddr     string
	ShutdownTimeout time.Duration
	MaxBodyBytes    int64
}

var (
	errServiceNameRequired = errors.New("cpfd: service name is required")
	errHTTPAddrRequired    = errors.New("cpfd: http address is required")
	errSameAddr            = errors.New("cpfd: http and metrics addresses must differ")
	errShutdownTimeout     = errors.New("cpfd: shutdown timeout must be > 0")
	errMaxBodyBytes        = errors.New("cpfd: max body bytes must be > 0")
)

func defaultConfig() Config {
	return Config{
		Env:             "production",
		ServiceName:     "cpfd",
		HTTPAddr:        ":8080",
		MetricsAddr:     ":9090",
		ShutdownTimeout: 15 * time.Second,
		MaxBodyBytes:    httpapi.DefaultMaxBodyBytes,
	}
}

// loadConfig reads CPFD_* variables through getenv, falling back to defaults
// for unset ones. An empty CPFD_METRICS_ADDR disables the ops server.
func loadConfig(getenv func(string) string) (Config, error) {
	cfg := defaultConfig()

	if v := strings.TrimSpace(getenv(envEnv)); v != "" {
		cfg.Env = strings.ToLower(v)
	}
	if v := strings.TrimSpace(getenv(envServiceName)); v != "" {
		cfg.ServiceName = v
	}
	if v := strings.TrimSpace(getenv(envHTTPAddr)); v != "" {
		cfg.HTTPAddr = v
	}
	if v, ok := lookup(getenv, envMetricsAddr); ok {
		cfg.MetricsAddr = v
	}
	if v := strings.TrimSpace(getenv(envShutdownTimeout)); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("cpfd: parse %s: %w", envShutdownTimeout, err)
		}
		cfg.ShutdownTimeout = d
	}
	if v := strings.TrimSpace(getenv(envMaxBodyBytes)); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("cpfd: parse %s: %w", envMaxBodyBytes, err)
		}
		cfg.MaxBodyBytes = n
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// lookup treats the literal value "-" as explicitly empty.
func lookup(getenv func(string) string, key string) (string, bool) {
	v := strings.TrimSpace(getenv(key))
	switch v {
	case "":
		return "", false
	case "-":
		return "", true
	default:
		return v, true
	}
}

func (c Config) validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return errServiceNameRequired
	}
	if c.HTTPAddr == "" {
		return errHTTPAddrRequired
	}
	if c.MetricsAddr != "" && c.MetricsAddr == c.HTTPAddr {
		return errSameAddr
	}
	if c.ShutdownTimeout <= 0 {
		return errShutdownTimeout
	}
	if c.MaxBodyBytes <= 0 {
		return errMaxBodyBytes
	}
	return nil
}
