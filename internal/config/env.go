package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
	apperrors "whisper-api/internal/app/errors"
)

// Config is built once at process start and shared read-only by every
// request. Nothing mutates it after Load returns.
type Config struct {
	// Recognition
	Language   string
	BinaryPath string
	ModelPath  string
	ModelName  string
	Threads    int

	// Conversion
	FFmpegPath string

	// Files
	UploadDir     string
	ScratchDir    string
	MaxUploadSize int64 // bytes, 0 means unlimited

	// Stage deadlines
	ConvertTimeout   time.Duration
	RecognizeTimeout time.Duration
	DownloadTimeout  time.Duration

	// TLSInsecureFallback retries a download once without certificate
	// verification when the first attempt fails verification.
	TLSInsecureFallback bool

	// HTTP server
	Host         string
	Port         string
	Environment  string
	ReadTimeout time.Duration
	// WriteTimeout must cover PipelineBudget; zero derives it.
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// CORSAllowOrigins restricts browser origins; empty allows any.
	CORSAllowOrigins []string

	ObjectStore ObjectStoreConfig
}

// ObjectStoreConfig points at an S3-compatible bucket store (MinIO, R2, S3).
// An empty Endpoint disables s3:// references.
type ObjectStoreConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	UseSSL    bool
}

// Enabled reports whether s3:// references can be resolved.
func (o ObjectStoreConfig) Enabled() bool {
	return o.Endpoint != ""
}

// PipelineBudget is the longest a single run may take: every stage that
// has a deadline running to it.
func (c *Config) PipelineBudget() time.Duration {
	return c.DownloadTimeout + c.ConvertTimeout + c.RecognizeTimeout
}

// HTTPWriteTimeout is WriteTimeout, or the pipeline budget plus
// WriteTimeoutMargin when WriteTimeout is zero.
func (c *Config) HTTPWriteTimeout() time.Duration {
	if c.WriteTimeout > 0 {
		return c.WriteTimeout
	}
	return c.PipelineBudget() + WriteTimeoutMargin
}

// IsProduction reports whether the service runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// fileConfig is the optional YAML overlay named by CONFIG_FILE.
type fileConfig struct {
	Language    string `yaml:"language"`
	BinaryPath  string `yaml:"binary_path"`
	ModelPath   string `yaml:"model_path"`
	ModelName   string `yaml:"model_name"`
	Threads     int    `yaml:"threads"`
	FFmpegPath  string `yaml:"ffmpeg_path"`
	UploadDir   string `yaml:"upload_dir"`
	ScratchDir  string `yaml:"scratch_dir"`
	MaxUploadMB int    `yaml:"max_upload_mb"`

	Timeouts struct {
		ConvertSec   int `yaml:"convert_sec"`
		RecognizeSec int `yaml:"recognize_sec"`
		DownloadSec  int `yaml:"download_sec"`
	} `yaml:"timeouts"`

	TLSInsecureFallback *bool `yaml:"tls_insecure_fallback"`

	Server struct {
		Host            string `yaml:"host"`
		Port            string `yaml:"port"`
		Environment     string `yaml:"environment"`
		ReadTimeoutSec  int    `yaml:"read_timeout_sec"`
		WriteTimeoutSec int    `yaml:"write_timeout_sec"`
	} `yaml:"server"`

	ObjectStore struct {
		Endpoint  string `yaml:"endpoint"`
		AccessKey string `yaml:"access_key"`
		SecretKey string `yaml:"secret_key"`
		Region    string `yaml:"region"`
		UseSSL    bool   `yaml:"use_ssl"`
	} `yaml:"object_store"`
}

// LoadEnv loads environment variables from .env file if it exists
func LoadEnv() error {
	// Try to load .env file from current directory or project root
	envPaths := []string{
		".env",
		".env.local",
		"../.env",
		"../../.env",
	}

	// Look for .env file, but don't fail if not found (environment variables might be set system-wide)
	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return fmt.Errorf("error loading %s file: %w", envPath, err)
			}
			break
		}
	}

	return nil
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Language:            DefaultLanguage,
		BinaryPath:          filepath.Join(DefaultWhisperDir, "main"),
		ModelPath:           filepath.Join(DefaultWhisperDir, "models", DefaultModelName+".bin"),
		ModelName:           DefaultModelName,
		FFmpegPath:          DefaultFFmpeg,
		UploadDir:           DefaultUploadDir,
		ScratchDir:          filepath.Join(os.TempDir(), "whisper-api"),
		ConvertTimeout:      DefaultConvertTimeout,
		RecognizeTimeout:    DefaultRecognizeTimeout,
		DownloadTimeout:     DefaultDownloadTimeout,
		TLSInsecureFallback: true,
		Host:                DefaultHost,
		Port:                DefaultHTTPPort,
		Environment:         "development",
		ReadTimeout:         DefaultReadTimeout,
		IdleTimeout:         DefaultIdleTimeout,
	}
}

// Load builds the configuration: defaults, then the YAML file named by
// CONFIG_FILE (if any), then environment variables. The result is validated.
func Load() (*Config, error) {
	if err := LoadEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg := Default()

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	cfg.WriteTimeout = cfg.HTTPWriteTimeout()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(os.ExpandEnv(path))
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	setString(&c.Language, fc.Language)
	setString(&c.BinaryPath, fc.BinaryPath)
	setString(&c.ModelPath, fc.ModelPath)
	setString(&c.ModelName, fc.ModelName)
	setString(&c.FFmpegPath, fc.FFmpegPath)
	setString(&c.UploadDir, fc.UploadDir)
	setString(&c.ScratchDir, fc.ScratchDir)
	setString(&c.Host, fc.Server.Host)
	setString(&c.Port, fc.Server.Port)
	setString(&c.Environment, fc.Server.Environment)
	if fc.Threads > 0 {
		c.Threads = fc.Threads
	}
	if fc.MaxUploadMB > 0 {
		c.MaxUploadSize = int64(fc.MaxUploadMB) << 20
	}
	setSeconds(&c.ConvertTimeout, fc.Timeouts.ConvertSec)
	setSeconds(&c.RecognizeTimeout, fc.Timeouts.RecognizeSec)
	setSeconds(&c.DownloadTimeout, fc.Timeouts.DownloadSec)
	setSeconds(&c.ReadTimeout, fc.Server.ReadTimeoutSec)
	setSeconds(&c.WriteTimeout, fc.Server.WriteTimeoutSec)
	if fc.TLSInsecureFallback != nil {
		c.TLSInsecureFallback = *fc.TLSInsecureFallback
	}

	c.ObjectStore = ObjectStoreConfig{
		Endpoint:  os.ExpandEnv(fc.ObjectStore.Endpoint),
		AccessKey: os.ExpandEnv(fc.ObjectStore.AccessKey),
		SecretKey: os.ExpandEnv(fc.ObjectStore.SecretKey),
		Region:    fc.ObjectStore.Region,
		UseSSL:    fc.ObjectStore.UseSSL,
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Language = strings.TrimSpace(getEnvOrDefault("WHISPER_LANGUAGE", c.Language))
	c.ModelName = getEnvOrDefault("WHISPER_MODEL_NAME", c.ModelName)

	// WHISPER_PATH relocates both the binary and the model.
	if dir := os.Getenv("WHISPER_PATH"); dir != "" {
		c.BinaryPath = filepath.Join(dir, "main")
		c.ModelPath = filepath.Join(dir, "models", c.ModelName+".bin")
	}
	c.BinaryPath = getEnvOrDefault("WHISPER_CPP_BINARY", c.BinaryPath)
	c.ModelPath = getEnvOrDefault("WHISPER_CPP_MODEL", c.ModelPath)
	c.FFmpegPath = getEnvOrDefault("FFMPEG_BINARY", c.FFmpegPath)
	c.UploadDir = getEnvOrDefault("UPLOAD_DIR", c.UploadDir)
	c.ScratchDir = getEnvOrDefault("SCRATCH_DIR", c.ScratchDir)
	c.Host = getEnvOrDefault("HOST", c.Host)
	c.Port = getEnvOrDefault("PORT", c.Port)
	c.Environment = getEnvOrDefault("APP_ENV", c.Environment)
	if origins := os.Getenv("CORS_ALLOW_ORIGINS"); origins != "" {
		c.CORSAllowOrigins = splitList(origins)
	}

	var err error
	if c.Threads, err = getIntEnv("WHISPER_THREADS", c.Threads); err != nil {
		return err
	}
	maxMB, err := getIntEnv("MAX_UPLOAD_MB", int(c.MaxUploadSize>>20))
	if err != nil {
		return err
	}
	c.MaxUploadSize = int64(maxMB) << 20

	if c.ConvertTimeout, err = getDurationEnv("CONVERT_TIMEOUT", c.ConvertTimeout); err != nil {
		return err
	}
	if c.RecognizeTimeout, err = getDurationEnv("RECOGNIZE_TIMEOUT", c.RecognizeTimeout); err != nil {
		return err
	}
	if c.DownloadTimeout, err = getDurationEnv("DOWNLOAD_TIMEOUT", c.DownloadTimeout); err != nil {
		return err
	}
	if c.ReadTimeout, err = getDurationEnv("READ_TIMEOUT", c.ReadTimeout); err != nil {
		return err
	}
	if c.WriteTimeout, err = getDurationEnv("WRITE_TIMEOUT", c.WriteTimeout); err != nil {
		return err
	}
	if c.TLSInsecureFallback, err = getBoolEnv("TLS_INSECURE_FALLBACK", c.TLSInsecureFallback); err != nil {
		return err
	}

	c.ObjectStore.Endpoint = getEnvOrDefault("OBJECT_STORE_ENDPOINT", c.ObjectStore.Endpoint)
	c.ObjectStore.AccessKey = getEnvOrDefault("OBJECT_STORE_ACCESS_KEY", c.ObjectStore.AccessKey)
	c.ObjectStore.SecretKey = getEnvOrDefault("OBJECT_STORE_SECRET_KEY", c.ObjectStore.SecretKey)
	c.ObjectStore.Region = getEnvOrDefault("OBJECT_STORE_REGION", c.ObjectStore.Region)
	if c.ObjectStore.UseSSL, err = getBoolEnv("OBJECT_STORE_USE_SSL", c.ObjectStore.UseSSL); err != nil {
		return err
	}
	return nil
}

// Validate checks the configuration for values the service cannot run with.
// It does not require the model or binaries to exist; /health reports that.
func (c *Config) Validate() error {
	checks := []error{
		ValidateLanguage(c.Language),
		ValidateRequired(c.BinaryPath, "whisper binary path"),
		ValidateRequired(c.ModelPath, "whisper model path"),
		ValidateRequired(c.FFmpegPath, "ffmpeg path"),
		ValidateRequired(c.UploadDir, "upload dir"),
		ValidateRequired(c.ScratchDir, "scratch dir"),
		ValidateTimeout(c.ConvertTimeout, "convert"),
		ValidateTimeout(c.RecognizeTimeout, "recognize"),
		ValidateTimeout(c.DownloadTimeout, "download"),
		ValidateTimeout(c.ReadTimeout, "read"),
		ValidateWriteTimeout(c.HTTPWriteTimeout(), c.PipelineBudget()),
		ValidatePort(c.Port, "HTTP"),
	}
	for _, err := range checks {
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInvalidConfig, err.Error())
		}
	}
	if c.Threads < 0 {
		return apperrors.Wrap(apperrors.ErrInvalidConfig, "threads cannot be negative")
	}
	if c.MaxUploadSize < 0 {
		return apperrors.Wrap(apperrors.ErrInvalidConfig, "max upload size cannot be negative")
	}
	if c.ObjectStore.Enabled() && (c.ObjectStore.AccessKey == "" || c.ObjectStore.SecretKey == "") {
		return apperrors.Wrap(apperrors.ErrMissingConfig, "object store credentials are required when OBJECT_STORE_ENDPOINT is set")
	}
	return nil
}

// splitList parses a comma-separated list, dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setSeconds(dst *time.Duration, secs int) {
	if secs > 0 {
		*dst = time.Duration(secs) * time.Second
	}
}
