package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

const (
	defaultReportCacheSize = 256
	defaultMaxUploadBytes  = 10 << 20
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string
	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	ShutdownTimeout  time.Duration

	BatchSize          int
	BatchFlushInterval time.Duration

	// ReportCacheSize bounds the number of memoized reports; 0 disables the cache.
	ReportCacheSize int
	// MaxUploadBytes caps request bodies on the report endpoint.
	MaxUploadBytes int64
}

// Load reads configuration from environment variables, applying defaults where
// unset. A .env file in the working directory is loaded first if present;
// variables already set in the environment take precedence.
func Load() (*Config, error) {
	_ = godotenv.Load()

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	cacheSize, err := parseReportCacheSize()
	if err != nil {
		return nil, err
	}

	maxUpload, err := parseMaxUploadBytes()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "raw-air-quality-tables"),
		KafkaSinkTopic:     sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "daily-aqi-reports"),
		KafkaGroupID:       sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "air-quality-etl"),
		HTTPAddr:           sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,
		ReportCacheSize:    cacheSize,
		MaxUploadBytes:     maxUpload,
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaSourceTopic == "" {
		return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
	}
	if cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}
	if cfg.KafkaSourceTopic == cfg.KafkaSinkTopic {
		return nil, errors.New("KAFKA_SOURCE_TOPIC and KAFKA_SINK_TOPIC must differ")
	}

	return cfg, nil
}

func parseReportCacheSize() (int, error) {
	s := os.Getenv("REPORT_CACHE_SIZE")
	if s == "" {
		return defaultReportCacheSize, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid REPORT_CACHE_SIZE %q", s)
	}
	return n, nil
}

func parseMaxUploadBytes() (int64, error) {
	s := os.Getenv("MAX_UPLOAD_BYTES")
	if s == "" {
		return defaultMaxUploadBytes, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid MAX_UPLOAD_BYTES %q", s)
	}
	return n, nil
}
