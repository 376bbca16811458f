package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"readTimeout"`
		WriteTimeout    time.Duration `yaml:"writeTimeout"`
		ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
	} `yaml:"server"`

	Database struct {
		Driver      string `yaml:"driver"` // sqlite | mysql | postgres
		Path        string `yaml:"path"`   // sqlite file
		Host        string `yaml:"host"`
		Port        int    `yaml:"port"`
		User        string `yaml:"user"`
		Password    string `yaml:"password"`
		Name        string `yaml:"name"`
		SSLMode     string `yaml:"sslmode"`
		AutoMigrate bool   `yaml:"autoMigrate"`
	} `yaml:"database"`

	AI struct {
		APIKey      string        `yaml:"apiKey"`
		BaseURL     string        `yaml:"baseURL"`
		Model       string        `yaml:"model"`
		Temperature float32       `yaml:"temperature"`
		MaxTokens   int           `yaml:"maxTokens"`
		Timeout     time.Duration `yaml:"timeout"`
	} `yaml:"ai"`

	Minio struct {
		Enabled    bool   `yaml:"enabled"`
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`

	Security struct {
		// APIKeys maps key -> client name. Empty disables auth.
		APIKeys     map[string]string `yaml:"apiKeys"`
		RateLimit   float64           `yaml:"rateLimit"` // analyze requests per second per client
		RateBurst   int               `yaml:"rateBurst"`
		CORSOrigins []string          `yaml:"corsOrigins"`
	} `yaml:"security"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		File   string `yaml:"file"`
	} `yaml:"log"`

	// MaxLogBytes rejects larger analyze inputs; 0 disables the check.
	MaxLogBytes int `yaml:"maxLogBytes"`
}

// Default returns a config that runs locally on SQLite.
func Default() *Config {
	var c Config
	c.Server.Port = 8080
	c.Server.ReadTimeout = 15 * time.Second
	c.Server.WriteTimeout = 90 * time.Second
	c.Server.ShutdownTimeout = 10 * time.Second
	c.Database.Driver = "sqlite"
	c.Database.Path = "data/incidents.db"
	c.Database.SSLMode = "disable"
	c.Database.AutoMigrate = true
	c.AI.Temperature = 0.3
	c.AI.MaxTokens = 1024
	c.AI.Timeout = 60 * time.Second
	c.Security.RateLimit = 1
	c.Security.RateBurst = 5
	c.Security.CORSOrigins = []string{"*"}
	c.Log.Level = "info"
	c.Log.Format = "text"
	c.MaxLogBytes = 1 << 20
	return &c
}

// LoadDotEnv loads .env files into the process environment. Missing files are skipped.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load baca file config.yaml di atas default, lalu terapkan env override.
// File yang tidak ada tidak dianggap error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, err
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}
	cfg.ApplyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from environment variables.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	str := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v, ok := lookup(k); ok && strings.TrimSpace(v) != "" {
				*dst = strings.TrimSpace(v)
				return
			}
		}
	}
	str(&c.AI.APIKey, "GROQ_API_KEY", "AI_API_KEY")
	str(&c.AI.BaseURL, "AI_BASE_URL")
	str(&c.AI.Model, "AI_MODEL")
	str(&c.Database.Driver, "DB_DRIVER")
	str(&c.Database.Path, "DB_PATH")
	str(&c.Log.Level, "LOG_LEVEL")

	if v, ok := lookup("PORT"); ok {
		if p, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && p > 0 {
			c.Server.Port = p
		}
	}
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite":
		if strings.TrimSpace(c.Database.Path) == "" {
			return errors.New("database.path is required for sqlite")
		}
	case "mysql", "postgres":
		if c.Database.Host == "" || c.Database.Name == "" {
			return fmt.Errorf("database.host and database.name are required for %s", c.Database.Driver)
		}
	default:
		return fmt.Errorf("unsupported database.driver %q", c.Database.Driver)
	}
	if c.Minio.Enabled && (c.Minio.Endpoint == "" || c.Minio.BucketName == "") {
		return errors.New("minio.endpoint and minio.bucketName are required when minio is enabled")
	}
	if c.MaxLogBytes < 0 {
		return errors.New("maxLogBytes must not be negative")
	}
	// the chat client omits a zero temperature from the request, so 0 would fall back to the provider default
	if c.AI.Temperature <= 0 || c.AI.Temperature > 2 {
		return errors.New("ai.temperature must be in (0, 2]")
	}
	return nil
}

// Helper untuk build DSN MySQL
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

// Helper untuk build DSN Postgres
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
