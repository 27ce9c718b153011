package config

import (
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Env      Env
	Server   ServerConfig
	Database DatabaseConfig
	Storage  StorageConfig
	Upload   UploadConfig
	NATS     NATSConfig
}

type Env struct {
	Env string `envconfig:"ENV" default:"DEV"`
}

type ServerConfig struct {
	Host string `envconfig:"SERVER_HOST" default:"localhost"`
	Port string `envconfig:"SERVER_PORT" default:"8080"`
}

type DatabaseConfig struct {
	Host           string        `envconfig:"DB_HOST" required:"true"`
	Port           int           `envconfig:"DB_PORT" default:"5432"`
	User           string        `envconfig:"DB_USER" required:"true"`
	Password       string        `envconfig:"DB_PASSWORD" required:"true"`
	Name           string        `envconfig:"DB_NAME" required:"true"`
	SSLMode        string        `envconfig:"DB_SSLMODE" default:"disable"`
	MaxOpenCons    int           `envconfig:"DB_MAX_OPEN_CONS" default:"25"`
	MaxIdleCons    int           `envconfig:"DB_MAX_IDLE_CONS" default:"5"`
	ConMaxLifeTime time.Duration `envconfig:"DB_CONMAX_LIFE_TIME" default:"5m"`
}

// StorageConfig selects the file storage backend. The minio settings are only
// consulted when Backend is "minio".
type StorageConfig struct {
	Backend    string `envconfig:"STORAGE_BACKEND" default:"local"`
	UploadDir  string `envconfig:"STORAGE_UPLOAD_DIR" default:"uploads"`
	StagingDir string `envconfig:"STORAGE_STAGING_DIR" default:"uploads/.staging"`
	Minio      MinioConfig
}

type MinioConfig struct {
	Endpoint   string `envconfig:"MINIO_ENDPOINT"`
	BucketName string `envconfig:"MINIO_BUCKET_NAME"`
	AccessKey  string `envconfig:"MINIO_ACCESS_KEY"`
	SecretKey  string `envconfig:"MINIO_SECRET_KEY"`
	UseSSL     bool   `envconfig:"MINIO_USE_SSL" default:"false"`
}

type UploadConfig struct {
	MaxFileSize       int64         `envconfig:"UPLOAD_MAX_FILE_SIZE" default:"10485760"`  // 10MB declared-size cap
	ScanMaxSize       int64         `envconfig:"UPLOAD_SCAN_MAX_SIZE" default:"52428800"`  // 50MB staged-size backstop
	AllowedExtensions string        `envconfig:"UPLOAD_ALLOWED_EXTENSIONS" default:".jpg,.jpeg,.png,.gif,.webp,.heic,.heif"`
	MaxSessionFiles   int           `envconfig:"UPLOAD_MAX_SESSION_FILES" default:"100"`
	JPEGQuality       int           `envconfig:"UPLOAD_JPEG_QUALITY" default:"95"`
	ThumbnailQuality  int           `envconfig:"UPLOAD_THUMBNAIL_QUALITY" default:"85"`
	ThumbnailMaxDim   int           `envconfig:"UPLOAD_THUMBNAIL_MAX_DIM" default:"800"`
	MaxConcurrent     int64         `envconfig:"UPLOAD_MAX_CONCURRENT" default:"4"`
	StuckLogTTL       time.Duration `envconfig:"UPLOAD_STUCK_LOG_TTL" default:"30m"`
	ReconcileEvery    time.Duration `envconfig:"UPLOAD_RECONCILE_EVERY" default:"15m"`
}

// AllowedExtensionSet returns the extension allow-list as a lookup set, keys
// lower-cased with the leading dot.
func (u UploadConfig) AllowedExtensionSet() map[string]struct{} {
	set := make(map[string]struct{})
	for _, ext := range strings.Split(u.AllowedExtensions, ",") {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" {
			set[ext] = struct{}{}
		}
	}
	return set
}

type NATSConfig struct {
	URL        string `envconfig:"NATS_URL"`
	StreamName string `envconfig:"NATS_STREAM_NAME" default:"TRIPHOTO"`
	Subject    string `envconfig:"NATS_SUBJECT" default:"triphoto.uploads"`
}

func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
