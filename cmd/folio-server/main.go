package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/folio-dev/folio/internal/providers"
	"github.com/folio-dev/folio/internal/server"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Version information, set at build time with -ldflags.
var (
	version   = "dev"
	commitSHA = "unknown"
	buildTime = "unknown"
)

func main() {
	configFile := flag.String("config", "config.yaml", "Path to configuration file")
	envFile := flag.String("env", ".env", "Path to an optional dotenv file")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("folio-server version %s\n", version)
		fmt.Printf("Commit: %s\n", commitSHA)
		fmt.Printf("Built: %s\n", buildTime)
		os.Exit(0)
	}

	if err := loadDotEnv(*envFile); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load %s: %v\n", *envFile, err)
		os.Exit(1)
	}

	config, err := loadConfig(viper.New(), *configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	config.Version = version

	srv, err := server.NewServer(config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create server: %v\n", err)
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start server: %v\n", err)
		os.Exit(1)
	}

	srv.WaitForShutdown()
}

// loadDotEnv loads variables from path into the environment. A missing file
// is not an error; variables already set win.
func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// loadConfig loads configuration from file and environment variables.
func loadConfig(v *viper.Viper, configFile string) (*server.Config, error) {
	v.SetConfigFile(configFile)
	v.SetConfigType("yaml")

	// FOLIO_SERVER_PORT overrides server.port and so on.
	v.SetEnvPrefix("FOLIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The deployment's established variable names.
	if err := v.BindEnv("inference.api_key", "FOLIO_INFERENCE_API_KEY", "HUGGINGFACE_API_KEY"); err != nil {
		return nil, err
	}
	if err := v.BindEnv("feed.rss_url", "FOLIO_FEED_RSS_URL", "MEDIUM_RSS_URL"); err != nil {
		return nil, err
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		fmt.Println("Config file not found, using defaults")
	}

	var config server.Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// setDefaults sets sensible default values for configuration.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 120*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Inference defaults
	inference := providers.DefaultConfig()
	v.SetDefault("inference.base_url", inference.BaseURL)
	v.SetDefault("inference.models", inference.Models)
	v.SetDefault("inference.timeout", inference.Timeout)
	v.SetDefault("inference.max_new_tokens", inference.MaxNewTokens)
	v.SetDefault("inference.temperature", inference.Temperature)
	v.SetDefault("inference.do_sample", inference.DoSample)

	v.SetDefault("assistant.persona", providers.DefaultPersona)

	// Feed defaults
	v.SetDefault("feed.timeout", 10*time.Second)
	v.SetDefault("feed.max_retries", 2)
	v.SetDefault("feed.retry_delay", 500*time.Millisecond)
	v.SetDefault("feed.cache_ttl", 10*time.Minute)

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.ttl", 10*time.Minute)
	v.SetDefault("cache.max_size", 100)
	v.SetDefault("cache.redis.addr", "localhost:6379")
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("cache.redis.key_prefix", "folio:")

	// Observability defaults
	v.SetDefault("observability.logging.level", "info")
	v.SetDefault("observability.logging.format", "json")
	v.SetDefault("observability.logging.output_path", "logs/app.log")
	v.SetDefault("observability.logging.error_path", "logs/error.log")
	v.SetDefault("observability.logging.development", false)

	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.port", 9090)
	v.SetDefault("observability.metrics.path", "/metrics")

	v.SetDefault("observability.tracing.enabled", false)
	v.SetDefault("observability.tracing.service_name", "folio")
	v.SetDefault("observability.tracing.environment", "development")
}
