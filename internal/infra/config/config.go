package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Mode selects which surface the server exposes.
type Mode string

const (
	// ModeServe runs the combined server: assets, catalogs and generation.
	ModeServe Mode = "serve"
	// ModePreview serves assets, catalogs and existing output only.
	ModePreview Mode = "preview"
)

const (
	defaultServeAddress   = ":8080"
	defaultPreviewAddress = ":3000"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	Mode          Mode                `yaml:"mode"`
	HTTP          HTTPConfig          `yaml:"http"`
	Paths         PathsConfig         `yaml:"paths"`
	Generator     GeneratorConfig     `yaml:"generator"`
	Auth          AuthConfig          `yaml:"auth"`
	History       HistoryConfig       `yaml:"history"`
	Topics        TopicsConfig        `yaml:"topics"`
	Mirror        MirrorConfig        `yaml:"mirror"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address      string          `yaml:"address"`
	ReadTimeout  time.Duration   `yaml:"readTimeout"`
	WriteTimeout time.Duration   `yaml:"writeTimeout"`
	RateLimit    RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware on the generation routes.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// PathsConfig locates the front-end bundle and the generated artifacts.
type PathsConfig struct {
	StaticDir string `yaml:"staticDir"`
	OutputDir string `yaml:"outputDir"`
}

// GeneratorConfig describes the external generation program.
type GeneratorConfig struct {
	Python        string        `yaml:"python"`
	Script        string        `yaml:"script"`
	RenderScript  string        `yaml:"renderScript"`
	Format        string        `yaml:"format"`
	Timeout       time.Duration `yaml:"timeout"`
	MaxConcurrent int64         `yaml:"maxConcurrent"`
}

// AuthConfig enables JWT login when Secret is set.
type AuthConfig struct {
	Secret          string        `yaml:"secret"`
	TokenTTL        time.Duration `yaml:"tokenTtl"`
	RefreshTokenTTL time.Duration `yaml:"refreshTokenTtl"`
}

// HistoryConfig selects the user/history persistence backend.
type HistoryConfig struct {
	Postgres PostgresConfig `yaml:"postgres"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// TopicsConfig controls the trending topics store.
type TopicsConfig struct {
	Valkey ValkeyConfig `yaml:"valkey"`
}

// ValkeyConfig contains connection information for counter storage.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// MirrorConfig uploads finished artifacts to an S3 compatible bucket.
type MirrorConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Prefix    string `yaml:"prefix"`
}

// ObservabilityConfig toggles metrics and tracing.
type ObservabilityConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`
	Tracing TracingConfig `yaml:"tracing"`
}

// MetricsConfig exposes the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// TracingConfig configures the OTLP exporter.
type TracingConfig struct {
	Enabled    bool    `yaml:"enabled"`
	Endpoint   string  `yaml:"endpoint"`
	SampleRate float64 `yaml:"sampleRate"`
}

// Load reads configuration from a YAML file and environment variables.
func Load(mode Mode) (*Config, error) {
	cfg := defaultConfig(mode)
	// resolved per mode below unless the file sets it
	cfg.HTTP.Address = ""

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}
	// the subcommand always wins over a mode written in the file
	if mode != "" {
		cfg.Mode = mode
	}
	if cfg.HTTP.Address == "" {
		cfg.HTTP.Address = defaultAddress(cfg.Mode)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GenerationEnabled reports whether the generate and export routes may spawn the generator.
func (c *Config) GenerationEnabled() bool {
	return c.Mode != ModePreview
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if _, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.Address = ":" + v
		}
	}
	if v := os.Getenv("STATIC_DIR"); v != "" {
		cfg.Paths.StaticDir = v
	}
	if v := os.Getenv("OUTPUT_DIR"); v != "" {
		cfg.Paths.OutputDir = v
	}
	if v := os.Getenv("GENERATOR_PYTHON"); v != "" {
		cfg.Generator.Python = v
	}
	if v := os.Getenv("GENERATOR_SCRIPT"); v != "" {
		cfg.Generator.Script = v
	}
	if v := os.Getenv("GENERATOR_RENDER_SCRIPT"); v != "" {
		cfg.Generator.RenderScript = v
	}
	if v := os.Getenv("GENERATOR_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Generator.Timeout = parsed
		}
	}
	if v := os.Getenv("GENERATOR_MAX_CONCURRENT"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Generator.MaxConcurrent = parsed
		}
	}
	if v := os.Getenv("JWT_SECRET_KEY"); v != "" {
		cfg.Auth.Secret = v
	}
	if v := os.Getenv("JWT_ACCESS_TOKEN_EXPIRE_MINUTES"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Auth.TokenTTL = time.Duration(parsed) * time.Minute
		}
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.History.Postgres.DSN = v
	}
	if v := os.Getenv("TOPICS_VALKEY_ENABLED"); v != "" {
		cfg.Topics.Valkey.Enabled = parseBool(v)
	}
	if v := os.Getenv("TOPICS_VALKEY_ADDR"); v != "" {
		cfg.Topics.Valkey.Addr = v
	}
	if v := os.Getenv("MIRROR_ENABLED"); v != "" {
		cfg.Mirror.Enabled = parseBool(v)
	}
	if v := os.Getenv("MIRROR_ENDPOINT"); v != "" {
		cfg.Mirror.Endpoint = v
	}
	if v := os.Getenv("MIRROR_ACCESS_KEY"); v != "" {
		cfg.Mirror.AccessKey = v
	}
	if v := os.Getenv("MIRROR_SECRET_KEY"); v != "" {
		cfg.Mirror.SecretKey = v
	}
	if v := os.Getenv("MIRROR_BUCKET"); v != "" {
		cfg.Mirror.Bucket = v
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("METRICS_ENABLED"); v != "" {
		cfg.Observability.Metrics.Enabled = parseBool(v)
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.Observability.Tracing.Endpoint = v
		cfg.Observability.Tracing.Enabled = true
	}
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func defaultConfig(mode Mode) *Config {
	if mode == "" {
		mode = ModeServe
	}
	return &Config{
		Mode: mode,
		HTTP: HTTPConfig{
			Address:      defaultAddress(mode),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 10 * time.Minute,
			RateLimit: RateLimitConfig{
				Enabled:           false,
				RequestsPerMinute: 30,
				Burst:             10,
			},
		},
		Paths: PathsConfig{
			StaticDir: "web/dist",
			OutputDir: "output",
		},
		Generator: GeneratorConfig{
			Python:  "python3",
			Script:  ".claude/skills/ui-ux-pro-max/scripts/search.py",
			Format:  "reveal_js",
			Timeout: 5 * time.Minute,
		},
		Auth: AuthConfig{
			TokenTTL:        24 * time.Hour,
			RefreshTokenTTL: 7 * 24 * time.Hour,
		},
		History: HistoryConfig{
			Postgres: PostgresConfig{MaxConns: 4},
		},
		Mirror: MirrorConfig{
			Region: "auto",
			Prefix: "presentations",
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{Enabled: true, Path: "/metrics"},
			Tracing: TracingConfig{SampleRate: 1.0},
		},
	}
}

func defaultAddress(mode Mode) string {
	if mode == ModePreview {
		return defaultPreviewAddress
	}
	return defaultServeAddress
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.Mode != ModeServe && c.Mode != ModePreview {
		return fmt.Errorf("mode must be %q or %q", ModeServe, ModePreview)
	}
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if strings.TrimSpace(c.Paths.StaticDir) == "" {
		return errors.New("paths.staticDir cannot be empty")
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		return errors.New("paths.outputDir cannot be empty")
	}
	if c.GenerationEnabled() {
		if strings.TrimSpace(c.Generator.Python) == "" {
			return errors.New("generator.python cannot be empty")
		}
		if strings.TrimSpace(c.Generator.Script) == "" {
			return errors.New("generator.script cannot be empty")
		}
	}
	if c.Generator.Format != "reveal_js" && c.Generator.Format != "pptx" {
		return errors.New("generator.format must be reveal_js or pptx")
	}
	if c.Generator.Timeout <= 0 {
		return errors.New("generator.timeout must be positive")
	}
	if c.HTTP.WriteTimeout > 0 && c.Generator.Timeout >= c.HTTP.WriteTimeout {
		return fmt.Errorf("generator.timeout (%s) must be shorter than http.writeTimeout (%s)",
			c.Generator.Timeout, c.HTTP.WriteTimeout)
	}
	if c.Generator.MaxConcurrent < 0 {
		return errors.New("generator.maxConcurrent cannot be negative")
	}
	if c.Auth.Secret != "" && c.Auth.TokenTTL <= 0 {
		return errors.New("auth.tokenTtl must be positive")
	}
	if c.Topics.Valkey.Enabled && strings.TrimSpace(c.Topics.Valkey.Addr) == "" {
		return errors.New("topics.valkey.addr cannot be empty when valkey is enabled")
	}
	if c.Mirror.Enabled {
		if strings.TrimSpace(c.Mirror.Endpoint) == "" || strings.TrimSpace(c.Mirror.Bucket) == "" {
			return errors.New("mirror.endpoint and mirror.bucket are required when mirroring is enabled")
		}
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.Observability.Metrics.Enabled && !strings.HasPrefix(c.Observability.Metrics.Path, "/") {
		return errors.New("observability.metrics.path must start with /")
	}
	if c.Observability.Tracing.Enabled && strings.TrimSpace(c.Observability.Tracing.Endpoint) == "" {
		return errors.New("observability.tracing.endpoint cannot be empty when tracing is enabled")
	}
	return nil
}
