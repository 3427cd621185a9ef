package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

const (
	defaultInputName  = "tablita_V2.csv"
	defaultOutputName = "epea_data.json"
)

// Config holds all settings, populated from environment variables.
type Config struct {
	// InputPath and OutputPath default to files next to the executable.
	InputPath    string
	OutputPath   string
	CSVDelimiter rune

	LogLevel        string
	LogFormat       string
	MetricsTextfile string

	// Campaign feed, enabled when brokers are configured.
	KafkaBrokers       []string
	KafkaCampaignTopic string
	FeedEnabled        bool

	HTTPAddr        string
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	baseDir, err := executableDir()
	if err != nil {
		return nil, err
	}

	delimiter, err := parseDelimiter(sharedcfg.EnvOrDefault("EPEA_CSV_DELIMITER", ","))
	if err != nil {
		return nil, err
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		brokers = sharedcfg.ParseBrokers(raw)
	}

	cfg := &Config{
		InputPath:    sharedcfg.EnvOrDefault("EPEA_INPUT_PATH", filepath.Join(baseDir, defaultInputName)),
		OutputPath:   sharedcfg.EnvOrDefault("EPEA_OUTPUT_PATH", filepath.Join(baseDir, defaultOutputName)),
		CSVDelimiter: delimiter,

		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "text"),
		MetricsTextfile: os.Getenv("METRICS_TEXTFILE"),

		KafkaBrokers:       brokers,
		KafkaCampaignTopic: sharedcfg.EnvOrDefault("KAFKA_CAMPAIGN_TOPIC", "epea-campaigns"),
		FeedEnabled:        len(brokers) > 0,

		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		ShutdownTimeout: shutdownTimeout,
	}

	if cfg.InputPath == "" {
		return nil, errors.New("EPEA_INPUT_PATH is required")
	}
	if cfg.OutputPath == "" {
		return nil, errors.New("EPEA_OUTPUT_PATH is required")
	}
	if cfg.FeedEnabled && cfg.KafkaCampaignTopic == "" {
		return nil, errors.New("KAFKA_CAMPAIGN_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

// executableDir is the directory holding the running binary, with symlinks resolved.
func executableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

func parseDelimiter(s string) (rune, error) {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || size != len(s) || r == utf8.RuneError || r == '"' || r == '\r' || r == '\n' {
		return 0, fmt.Errorf("invalid EPEA_CSV_DELIMITER %q: want a single character", s)
	}
	return r, nil
}
