// Package config loads the service configuration from a YAML file, a .env
// file and environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	leadmagnet "github.com/lvillar/leadmagnet"
)

type Config struct {
	Server ServerConfig `yaml:"server"`
	Gemini GeminiConfig `yaml:"gemini"`
	Whop   WhopConfig   `yaml:"whop"`
	Usage  UsageConfig  `yaml:"usage"`
	Brand  BrandConfig  `yaml:"brand"`
	Log    LogConfig    `yaml:"log"`
}

type ServerConfig struct {
	Port         int      `yaml:"port" validate:"min=1,max=65535"`
	AllowOrigins []string `yaml:"allow_origins" validate:"dive,url"`
}

type GeminiConfig struct {
	APIKey    string `yaml:"api_key"`
	Model     string `yaml:"model" validate:"required"`
	PerMinute int    `yaml:"requests_per_minute" validate:"min=1,max=1000"`
	Burst     int    `yaml:"burst" validate:"min=1,max=100"`
}

type WhopConfig struct {
	APIKey  string `yaml:"api_key"`
	PlanID  string `yaml:"plan_id" validate:"required"`
	BaseURL string `yaml:"base_url" validate:"required,url"`
}

type UsageConfig struct {
	FreeUses  int           `yaml:"free_uses" validate:"min=0"`
	RedisAddr string        `yaml:"redis_addr" validate:"omitempty,hostname_port"`
	TTL       time.Duration `yaml:"ttl" validate:"min=1m"`
}

type BrandConfig struct {
	Line           string `yaml:"line"`
	Accent         string `yaml:"accent" validate:"omitempty,hexcolor"`
	PageSize       string `yaml:"page_size" validate:"omitempty,oneof=A4 Letter Legal"`
	LogoPath       string `yaml:"logo"`
	LetterheadPath string `yaml:"letterhead"`
}

type LogConfig struct {
	Mode string `yaml:"mode" validate:"oneof=dev prod"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:         5000,
			AllowOrigins: []string{"http://localhost:3000", "https://buildlead.xyz", "https://buildlead.vercel.app"},
		},
		Gemini: GeminiConfig{Model: "gemini-2.0-flash", PerMinute: 30, Burst: 3},
		Whop:   WhopConfig{PlanID: "plan_3K6z9JF9ht5oU", BaseURL: "https://api.whop.com/api/v2"},
		Usage:  UsageConfig{FreeUses: 1, TTL: 30 * 24 * time.Hour},
		Log:    LogConfig{Mode: "dev"},
	}
}

// Load builds the configuration. path may be empty; a missing file at an
// explicit path is an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadIfExists is Load for a path that may legitimately be absent.
func LoadIfExists(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		path = ""
	}
	return Load(path)
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Gemini.APIKey = v
	}
	if v := os.Getenv("WHOP_API_KEY"); v != "" {
		c.Whop.APIKey = v
	}
	if v := os.Getenv("WHOP_PLAN_ID"); v != "" {
		c.Whop.PlanID = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Usage.RedisAddr = strings.TrimPrefix(v, "redis://")
	}
	if v := os.Getenv("LOG_MODE"); v != "" {
		c.Log.Mode = v
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT must be a number, got %q", v)
		}
		c.Server.Port = port
	}
	return nil
}

// Validate checks every field against its constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Server.Port)
}

// BrandOptions converts the brand section into renderer options.
func (c *Config) BrandOptions() []leadmagnet.Option {
	var opts []leadmagnet.Option
	b := c.Brand
	if b.Line != "" {
		opts = append(opts, leadmagnet.WithBrandLine(b.Line))
	}
	if col, ok := parseHex(b.Accent); ok {
		opts = append(opts, leadmagnet.WithAccentColor(col))
	}
	if b.PageSize != "" {
		opts = append(opts, leadmagnet.WithPageSize(b.PageSize))
	}
	if b.LogoPath != "" {
		opts = append(opts, leadmagnet.WithLogo(b.LogoPath))
	}
	if b.LetterheadPath != "" {
		opts = append(opts, leadmagnet.WithLetterhead(b.LetterheadPath))
	}
	return opts
}

// parseHex reads "#rgb" or "#rrggbb".
func parseHex(s string) (leadmagnet.Color, bool) {
	s = strings.TrimPrefix(s, "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return leadmagnet.Color{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return leadmagnet.Color{}, false
	}
	return leadmagnet.Color{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}, true
}
