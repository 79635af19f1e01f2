package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	configFileENV     = "CONFIG_FILE"
	defaultConfigFile = "/config/readloom.yaml"

	StorageBackendDisk  = "disk"
	StorageBackendMinio = "minio"
)

// Config is loaded from an optional YAML file and then from environment
// variables. Environment variables use the upper-cased key, e.g. SERVER_PORT
// for server_port, and take precedence over the file.
type Config struct {
	DatabaseBusyTimeout       time.Duration `koanf:"database_busy_timeout" default:"5s"`
	DatabaseConnectRetryCount int           `koanf:"database_connect_retry_count" default:"5"`
	DatabaseConnectRetryDelay time.Duration `koanf:"database_connect_retry_delay" default:"2s"`
	DatabaseDebug             bool          `koanf:"database_debug"`
	DatabaseFilePath          string        `koanf:"database_file_path" validate:"required"`
	DatabaseMaxRetries        int           `koanf:"database_max_retries" default:"5"`
	Hostname                  string        `koanf:"hostname"`
	JWTSecret                 string        `koanf:"jwt_secret" validate:"required"`
	MaxUploadSizeMB           int           `koanf:"max_upload_size_mb" default:"50" validate:"min=1"`
	MinioAccessKey            string        `koanf:"minio_access_key"`
	MinioBucket               string        `koanf:"minio_bucket" default:"readloom"`
	MinioEndpoint             string        `koanf:"minio_endpoint"`
	MinioSecretKey            string        `koanf:"minio_secret_key"`
	MinioUseSSL               bool          `koanf:"minio_use_ssl"`
	ServerHost                string        `koanf:"server_host" default:"0.0.0.0"`
	ServerPort                int           `koanf:"server_port" default:"3000"`
	StorageBackend            string        `koanf:"storage_backend" default:"disk" validate:"oneof=disk minio"`
	TokenExpiry               time.Duration `koanf:"token_expiry" default:"168h"`
	UploadDir                 string        `koanf:"upload_dir" default:"./uploads"`
}

func New() (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, errors.WithStack(err)
	}

	hostname, err := os.Hostname()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	cfg.Hostname = hostname

	k := koanf.New(".")

	configFile := os.Getenv(configFileENV)
	if configFile == "" {
		configFile = defaultConfigFile
	}
	if _, err := os.Stat(configFile); err == nil {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "failed to load config file %s", configFile)
		}
	}

	err = k.Load(env.Provider("", ".", strings.ToLower), nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.WithStack(err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewForTest returns a config suitable for tests, backed by an in-memory
// database.
func NewForTest() *Config {
	cfg := &Config{}
	_ = defaults.Set(cfg)
	cfg.DatabaseFilePath = ":memory:"
	cfg.JWTSecret = "test-jwt-secret"
	cfg.ServerHost = "127.0.0.1"
	cfg.DatabaseConnectRetryDelay = 10 * time.Millisecond
	return cfg
}

// MaxUploadSizeBytes returns the upload limit in bytes.
func (cfg *Config) MaxUploadSizeBytes() int64 {
	return int64(cfg.MaxUploadSizeMB) * 1024 * 1024
}

func (cfg *Config) validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("koanf")
	})

	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.WithStack(err)
	}

	missing := []string{}
	for _, fe := range verrs {
		key := fe.Field()
		if fe.Tag() == "required" {
			missing = append(missing, fmt.Sprintf("%s (%s)", strings.ToUpper(key), key))
			continue
		}
		return errors.Errorf("invalid config value for %s: %v", key, fe.Value())
	}

	return errors.Errorf("missing required config: %s", strings.Join(missing, ", "))
}
