package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Worker WorkerConfig
	Server ServerConfig
	Redis  RedisConfig
	Cache  CacheConfig
	Logger LoggerConfig
}

// WorkerConfig holds the connection settings for the content worker.
type WorkerConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type CacheConfig struct {
	ExploreTTL time.Duration `yaml:"explore_ttl"`
}

type LoggerConfig struct {
	Level string `yaml:"level"`
	Env   string `yaml:"env"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Add config paths based on environment
	if os.Getenv("ENV") == "test" {
		viper.AddConfigPath("../../config")
		viper.AddConfigPath("../../")
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Log the config file being used
	configFile := viper.ConfigFileUsed()
	if configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	config := &Config{
		Worker: WorkerConfig{
			URL:     viper.GetString("worker.url"),
			Timeout: viper.GetDuration("worker.timeout") * time.Second,
		},
		Server: ServerConfig{
			Port:         viper.GetInt("server.port"),
			ReadTimeout:  viper.GetDuration("server.read_timeout") * time.Second,
			WriteTimeout: viper.GetDuration("server.write_timeout") * time.Second,
		},
		Redis: RedisConfig{
			Address:  viper.GetString("redis.address"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		Cache: CacheConfig{
			ExploreTTL: viper.GetDuration("cache.explore_ttl") * time.Second,
		},
		Logger: LoggerConfig{
			Level: viper.GetString("logger.level"),
			Env:   viper.GetString("logger.env"),
		},
	}

	// Override with environment variables if set
	if workerURL := os.Getenv("WORKER_URL"); workerURL != "" {
		config.Worker.URL = workerURL
	}
	if redisAddress := os.Getenv("REDIS_ADDRESS"); redisAddress != "" {
		config.Redis.Address = redisAddress
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		config.Redis.Password = redisPassword
	}
	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		config.Logger.Level = logLevel
	}

	if config.Worker.URL == "" {
		return nil, fmt.Errorf("worker.url is required")
	}
	if config.Worker.Timeout <= 0 {
		config.Worker.Timeout = 30 * time.Second
	}
	if config.Cache.ExploreTTL <= 0 {
		config.Cache.ExploreTTL = time.Hour
	}

	return config, nil
}
