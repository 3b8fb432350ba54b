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

	"github.com/bryanwahyu/cancer-predict/internal/middleware"
)

type Config struct {
	Server struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"readTimeout"`
		WriteTimeout    time.Duration `yaml:"writeTimeout"`
		ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
	} `yaml:"server"`

	Model struct {
		Backend           string  `yaml:"backend"` // onnx | serving
		URL               string  `yaml:"url"`
		SharedLibraryPath string  `yaml:"sharedLibraryPath"`
		InputName         string  `yaml:"inputName"`
		OutputName        string  `yaml:"outputName"`
		OutputShape       []int64 `yaml:"outputShape"`
		Warmup            bool    `yaml:"warmup"`
	} `yaml:"model"`

	Ledger struct {
		Driver     string `yaml:"driver"` // mysql | postgres | sqlite | firestore
		SQLitePath string `yaml:"sqlitePath"`
		Firestore  struct {
			ProjectID       string `yaml:"projectID"`
			Collection      string `yaml:"collection"`
			CredentialsFile string `yaml:"credentialsFile"`
		} `yaml:"firestore"`
	} `yaml:"ledger"`

	Database struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"sslMode"`
	} `yaml:"database"`

	Uploads struct {
		Driver string `yaml:"driver"` // none | local | minio
		Dir    string `yaml:"dir"`
	} `yaml:"uploads"`

	Minio struct {
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`

	Log struct {
		Level      string `yaml:"level"`
		Path       string `yaml:"path"`
		MaxSizeMB  int    `yaml:"maxSizeMB"`
		MaxBackups int    `yaml:"maxBackups"`
		MaxAgeDays int    `yaml:"maxAgeDays"`
	} `yaml:"log"`

	Pipeline struct {
		StepTimeout time.Duration `yaml:"stepTimeout"`
	} `yaml:"pipeline"`
}

// Default returns a config that runs locally without any external service.
func Default() *Config {
	var cfg Config
	cfg.Server.Port = 3000
	cfg.Server.ReadTimeout = 15 * time.Second
	cfg.Server.WriteTimeout = 60 * time.Second
	cfg.Server.ShutdownTimeout = 10 * time.Second
	cfg.Model.Backend = "onnx"
	cfg.Model.InputName = "input"
	cfg.Model.OutputName = "output"
	cfg.Model.OutputShape = []int64{1, 1}
	cfg.Ledger.Driver = "sqlite"
	cfg.Ledger.SQLitePath = "predictions.db"
	cfg.Ledger.Firestore.Collection = "predictions"
	cfg.Uploads.Driver = "none"
	cfg.Log.Level = "info"
	cfg.Pipeline.StepTimeout = 30 * time.Second
	return &cfg
}

// Load baca .env (kalau ada), file config.yaml (kalau ada), lalu override dari env
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
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

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Server.Port = p
	}
	if v := os.Getenv("MODEL_URL"); v != "" {
		c.Model.URL = v
	}
	if v := os.Getenv("MODEL_BACKEND"); v != "" {
		c.Model.Backend = strings.ToLower(v)
	}
	if v := os.Getenv("LEDGER_DRIVER"); v != "" {
		c.Ledger.Driver = strings.ToLower(v)
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	return nil
}

// Validate checks the values main needs before wiring anything.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if err := middleware.ValidateModelURL(c.Model.URL); err != nil {
		return err
	}
	switch c.Model.Backend {
	case "onnx", "serving":
	default:
		return fmt.Errorf("unknown model backend: %q", c.Model.Backend)
	}
	switch c.Ledger.Driver {
	case "mysql", "postgres":
	case "sqlite":
		if c.Ledger.SQLitePath == "" {
			return fmt.Errorf("ledger.sqlitePath is required for sqlite")
		}
	case "firestore":
		if c.Ledger.Firestore.ProjectID == "" {
			return fmt.Errorf("ledger.firestore.projectID is required for firestore")
		}
	default:
		return fmt.Errorf("unknown ledger driver: %q", c.Ledger.Driver)
	}
	switch c.Uploads.Driver {
	case "", "none":
	case "local":
		if c.Uploads.Dir == "" {
			return fmt.Errorf("uploads.dir is required for local uploads")
		}
	case "minio":
		if c.Minio.Endpoint == "" || c.Minio.BucketName == "" {
			return fmt.Errorf("minio endpoint and bucketName are required for minio uploads")
		}
	default:
		return fmt.Errorf("unknown uploads driver: %q", c.Uploads.Driver)
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
	ssl := c.Database.SSLMode
	if ssl == "" {
		ssl = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		ssl,
	)
}
