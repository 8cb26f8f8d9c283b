package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds docsync configuration loaded from YAML and env.
type Config struct {
	RPCAddr    string
	RPCTimeout time.Duration

	RetryAttempts  int
	RetryBaseDelay time.Duration
	RetryMaxDelay  time.Duration
	RateLimitRPS   int
	RateLimitBurst int

	SyncLoopDuration     time.Duration
	ReconnectStreamDelay time.Duration

	CacheBackend          string // "in_memory" or "memcached"
	SnapshotTTL           time.Duration
	MemcachedAddrs        string
	MemcachedTimeout      time.Duration
	MemcachedMaxIdleConns int

	BreakerMaxFailures int
	BreakerCooldown    time.Duration

	MetricsPort     string
	ShutdownTimeout time.Duration
}

type fileConfig struct {
	RPC struct {
		Addr    string `yaml:"addr"`
		Timeout string `yaml:"timeout"`
	} `yaml:"rpc"`

	Sync struct {
		LoopDuration         string `yaml:"loop_duration"`
		ReconnectStreamDelay string `yaml:"reconnect_stream_delay"`
	} `yaml:"sync"`

	Cache struct {
		Backend     string `yaml:"backend"`
		SnapshotTTL string `yaml:"snapshot_ttl"`
		Memcached   struct {
			Addrs        string `yaml:"addrs"`
			Timeout      string `yaml:"timeout"`
			MaxIdleConns int    `yaml:"max_idle_conns"`
		} `yaml:"memcached"`
	} `yaml:"cache"`

	Reliability struct {
		RetryMaxAttempts   int    `yaml:"retry_max_attempts"`
		RetryBaseDelay     string `yaml:"retry_base_delay"`
		RetryMaxDelay      string `yaml:"retry_max_delay"`
		RateLimitRPS       int    `yaml:"rate_limit_rps"`
		RateLimitBurst     int    `yaml:"rate_limit_burst"`
		BreakerMaxFailures int    `yaml:"breaker_max_failures"`
		BreakerCooldown    string `yaml:"breaker_cooldown"`
	} `yaml:"reliability"`

	Metrics struct {
		Port string `yaml:"port"`
	} `yaml:"metrics"`

	Shutdown struct {
		Timeout string `yaml:"timeout"`
	} `yaml:"shutdown"`
}

// Load reads configuration from config/{ENV_NAME}.yaml (default dev).
// RPC_ADDR, CACHE_BACKEND and MEMCACHED_ADDRS env vars override the file.
// Call from project root.
func Load() (*Config, error) {
	env := os.Getenv("ENV_NAME")
	if env == "" {
		env = "dev"
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("config: get working directory: %w", err)
	}
	configPath := filepath.Join(cwd, "config", env+".yaml")
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", configPath)
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	cfg := &Config{}

	cfg.RPCAddr = strings.TrimSpace(os.Getenv("RPC_ADDR"))
	if cfg.RPCAddr == "" {
		cfg.RPCAddr = strings.TrimSpace(fc.RPC.Addr)
	}
	if cfg.RPCAddr == "" {
		cfg.RPCAddr = "localhost:11101"
	}
	cfg.RPCTimeout = parseDuration(fc.RPC.Timeout, 5*time.Second)

	cfg.SyncLoopDuration = parseDuration(fc.Sync.LoopDuration, 50*time.Millisecond)
	cfg.ReconnectStreamDelay = parseDuration(fc.Sync.ReconnectStreamDelay, time.Second)

	cfg.CacheBackend = strings.TrimSpace(strings.ToLower(os.Getenv("CACHE_BACKEND")))
	if cfg.CacheBackend == "" {
		cfg.CacheBackend = strings.TrimSpace(strings.ToLower(fc.Cache.Backend))
	}
	if cfg.CacheBackend == "" {
		cfg.CacheBackend = "in_memory"
	}
	cfg.SnapshotTTL = parseDuration(fc.Cache.SnapshotTTL, 5*time.Minute)
	cfg.MemcachedAddrs = strings.TrimSpace(os.Getenv("MEMCACHED_ADDRS"))
	if cfg.MemcachedAddrs == "" {
		cfg.MemcachedAddrs = strings.TrimSpace(fc.Cache.Memcached.Addrs)
	}
	if cfg.MemcachedAddrs == "" {
		cfg.MemcachedAddrs = "localhost:11211"
	}
	cfg.MemcachedTimeout = parseDuration(fc.Cache.Memcached.Timeout, 500*time.Millisecond)
	cfg.MemcachedMaxIdleConns = fc.Cache.Memcached.MaxIdleConns
	if cfg.MemcachedMaxIdleConns <= 0 {
		cfg.MemcachedMaxIdleConns = 2
	}

	cfg.RetryAttempts = fc.Reliability.RetryMaxAttempts
	if cfg.RetryAttempts <= 0 {
		cfg.RetryAttempts = 3
	}
	cfg.RetryBaseDelay = parseDuration(fc.Reliability.RetryBaseDelay, 100*time.Millisecond)
	cfg.RetryMaxDelay = parseDuration(fc.Reliability.RetryMaxDelay, 2*time.Second)
	cfg.RateLimitRPS = fc.Reliability.RateLimitRPS
	if cfg.RateLimitRPS <= 0 {
		cfg.RateLimitRPS = 100
	}
	cfg.RateLimitBurst = fc.Reliability.RateLimitBurst
	if cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = 250
	}
	cfg.BreakerMaxFailures = fc.Reliability.BreakerMaxFailures
	if cfg.BreakerMaxFailures <= 0 {
		cfg.BreakerMaxFailures = 5
	}
	cfg.BreakerCooldown = parseDuration(fc.Reliability.BreakerCooldown, 30*time.Second)

	cfg.MetricsPort = strings.TrimSpace(fc.Metrics.Port)
	if cfg.MetricsPort == "" {
		cfg.MetricsPort = "8080"
	}
	cfg.ShutdownTimeout = parseDuration(fc.Shutdown.Timeout, 30*time.Second)

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseDuration parses a duration string and returns defaultVal if parsing
// fails or result is <= 0.
func parseDuration(s string, defaultVal time.Duration) time.Duration {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

// validate performs post-load validation of configuration values.
// The shutdown timeout is stretched to cover at least one RPC attempt so
// a deactivate on exit is not cut off mid-flight.
func validate(cfg *Config) error {
	switch cfg.CacheBackend {
	case "in_memory", "memcached":
		// valid
	default:
		return fmt.Errorf("cache.backend must be in_memory or memcached, got %q", cfg.CacheBackend)
	}
	if cfg.ShutdownTimeout <= cfg.RPCTimeout {
		cfg.ShutdownTimeout = cfg.RPCTimeout + time.Second
	}
	if cfg.RetryMaxDelay < cfg.RetryBaseDelay {
		return fmt.Errorf("reliability.retry_max_delay must be >= retry_base_delay")
	}
	return nil
}
