package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

const (
	StorageLocal = "local"
	StorageS3    = "s3"

	defaultTokenTTL       = time.Hour
	defaultMaxUploadBytes = 100 << 20
)

type (
	APP struct {
		Name           string
		Host           string
		Port           string
		Env            string
		JWTSecret      string
		TokenTTL       time.Duration
		MaxUploadBytes int64
	}
	DB struct {
		User     string
		Password string
		Name     string
		Host     string
		Port     string
	}
	Storage struct {
		Backend string
		Root    string
	}
	S3 struct {
		Region          string
		AccessKeyID     string
		SecretAccessKey string
		BucketUploads   string
		Endpoint        string
		UsePathStyle    bool
	}
	MQ struct {
		Enabled      bool
		User         string
		Password     string
		Vhost        string
		Host         string
		AmqpPort     string
		Exchange     string
		ExchangeType string
		QueueName    string
	}

	Config struct {
		App     APP
		DB      DB
		Storage Storage
		S3      S3
		MQ      MQ
	}
)

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	b, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(def)))
	if err != nil {
		return def
	}
	return b
}

func getEnvInt64(key string, def int64) int64 {
	n, err := strconv.ParseInt(getEnv(key, ""), 10, 64)
	if err != nil {
		return def
	}
	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return def
	}
	return d
}

func Load() Config {
	app := APP{
		Name:           getEnv("SERVICE_NAME", "filestorage"),
		Host:           getEnv("SERVICE_HOST", ""),
		Port:           getEnv("SERVICE_PORT", "8080"),
		Env:            getEnv("SERVICE_ENV", "dev"),
		JWTSecret:      getEnv("SERVICE_JWT_SECRET", ""),
		TokenTTL:       getEnvDuration("SERVICE_TOKEN_TTL", defaultTokenTTL),
		MaxUploadBytes: getEnvInt64("SERVICE_MAX_UPLOAD_BYTES", defaultMaxUploadBytes),
	}
	db := DB{
		User:     getEnv("POSTGRES_USER", ""),
		Password: getEnv("POSTGRES_PASSWORD", ""),
		Name:     getEnv("POSTGRES_DB", ""),
		Host:     getEnv("POSTGRES_HOST", ""),
		Port:     getEnv("POSTGRES_PORT", "5432"),
	}
	storage := Storage{
		Backend: getEnv("STORAGE_BACKEND", StorageLocal),
		Root:    getEnv("STORAGE_ROOT", "./uploads"),
	}
	s3 := S3{
		Region:          getEnv("S3_REGION", ""),
		AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		BucketUploads:   getEnv("S3_BUCKET_UPLOADS", ""),
		Endpoint:        getEnv("S3_ENDPOINT", ""),
		UsePathStyle:    getEnvBool("S3_USE_PATH_STYLE", false),
	}
	mq := MQ{
		Enabled:      getEnvBool("RABBITMQ_ENABLED", true),
		User:         getEnv("RABBITMQ_USER", ""),
		Password:     getEnv("RABBITMQ_PASSWORD", ""),
		Vhost:        getEnv("RABBITMQ_VHOST", ""),
		Host:         getEnv("RABBITMQ_HOST", ""),
		AmqpPort:     getEnv("RABBITMQ_AMQP_PORT", "5672"),
		Exchange:     getEnv("RABBITMQ_EXCHANGE", "filestorage.events"),
		ExchangeType: getEnv("RABBITMQ_EXCHANGE_TYPE", "topic"),
		QueueName:    getEnv("RABBITMQ_QUEUE_NAME", "filestorage.audit"),
	}

	return Config{
		App:     app,
		DB:      db,
		Storage: storage,
		S3:      s3,
		MQ:      mq,
	}
}

// Validate reports every problem at once.
func (c Config) Validate() error {
	var errs []error

	if c.App.JWTSecret == "" {
		errs = append(errs, errors.New("SERVICE_JWT_SECRET is required"))
	}
	if c.App.TokenTTL <= 0 {
		errs = append(errs, errors.New("SERVICE_TOKEN_TTL must be positive"))
	}
	if c.App.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("SERVICE_MAX_UPLOAD_BYTES must be positive"))
	}

	switch c.Storage.Backend {
	case StorageLocal:
		if c.Storage.Root == "" {
			errs = append(errs, errors.New("STORAGE_ROOT is required for the local backend"))
		}
	case StorageS3:
		if c.S3.BucketUploads == "" || c.S3.Region == "" {
			errs = append(errs, errors.New("S3_BUCKET_UPLOADS and S3_REGION are required for the s3 backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORAGE_BACKEND %q is not one of %q, %q", c.Storage.Backend, StorageLocal, StorageS3))
	}

	if _, err := c.DBDSN(); err != nil {
		errs = append(errs, err)
	}
	if c.MQ.Enabled {
		if _, err := c.AMQPDSN(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (c Config) DBDSN() (string, error) {
	if c.DB.User == "" || c.DB.Name == "" || c.DB.Host == "" || c.DB.Port == "" {
		return "", fmt.Errorf("incomplete DB config")
	}
	return fmt.Sprintf(
		"postgres://%s@%s:%s/%s",
		url.UserPassword(c.DB.User, c.DB.Password).String(),
		c.DB.Host,
		c.DB.Port,
		c.DB.Name,
	), nil
}

func (c Config) AMQPDSN() (string, error) {
	if c.MQ.User == "" || c.MQ.Host == "" || c.MQ.AmqpPort == "" {
		return "", fmt.Errorf("invalid MQ config: user, host and amqp port are required")
	}

	return fmt.Sprintf(
		"%s://%s@%s:%s/%s",
		"amqp",
		url.UserPassword(c.MQ.User, c.MQ.Password).String(),
		c.MQ.Host,
		c.MQ.AmqpPort,
		url.PathEscape(c.MQ.Vhost),
	), nil
}
