package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Redis     RedisConfig
	Quiz      QuizConfig
	LLM       LLMConfig
	Wikipedia WikipediaConfig
	Client    ClientConfig
	Logger    LoggerConfig
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

// QuizConfig controls generation output and the generated-quiz cache.
type QuizConfig struct {
	CacheTTL     time.Duration
	NumQuestions int
}

// LLMConfig selects the model backend. Provider is one of "ollama", "openai" or "gemini".
type LLMConfig struct {
	Provider    string
	Server      string
	Model       string
	APIKey      string
	Temperature float64
	Timeout     time.Duration
}

type WikipediaConfig struct {
	UserAgent        string
	Timeout          time.Duration
	MinContentLength int
}

// ClientConfig is read by quizctl to reach the generation API.
type ClientConfig struct {
	BaseURL string
	Timeout time.Duration
}

type LoggerConfig struct {
	Level string
	Env   string
	File  string
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", 20)
	v.SetDefault("server.write_timeout", 120)

	v.SetDefault("redis.db", 0)

	v.SetDefault("quiz.cache_ttl", "24h")
	v.SetDefault("quiz.num_questions", 5)

	v.SetDefault("llm.provider", "ollama")
	v.SetDefault("llm.server", "http://localhost:11434")
	v.SetDefault("llm.model", "qwen3:0.6b")
	v.SetDefault("llm.temperature", 0.3)
	v.SetDefault("llm.timeout", "90s")

	v.SetDefault("wikipedia.user_agent", defaultUserAgent)
	v.SetDefault("wikipedia.timeout", "15s")
	v.SetDefault("wikipedia.min_content_length", 100)

	v.SetDefault("client.base_url", "http://localhost:8090")
	v.SetDefault("client.timeout", "2m")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.env", "development")
}

// LoadConfig reads config.yaml (optional) plus the environment into a Config.
func LoadConfig() (*Config, error) {
	return Load(viper.GetViper())
}

// Load is LoadConfig against an explicit viper instance so callers can bind flags first.
func Load(v *viper.Viper) (*Config, error) {
	// .env is optional; a missing file is not an error.
	_ = godotenv.Load()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if os.Getenv("ENV") == "test" {
		v.AddConfigPath("../../config")
		v.AddConfigPath("../../")
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	setDefaults(v)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if configFile := v.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", absPath)
	}

	config := &Config{
		Server: ServerConfig{
			Port:         v.GetInt("server.port"),
			ReadTimeout:  time.Duration(v.GetInt("server.read_timeout")) * time.Second,
			WriteTimeout: time.Duration(v.GetInt("server.write_timeout")) * time.Second,
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Quiz: QuizConfig{
			CacheTTL:     v.GetDuration("quiz.cache_ttl"),
			NumQuestions: v.GetInt("quiz.num_questions"),
		},
		LLM: LLMConfig{
			Provider:    v.GetString("llm.provider"),
			Server:      v.GetString("llm.server"),
			Model:       v.GetString("llm.model"),
			APIKey:      v.GetString("llm.api_key"),
			Temperature: v.GetFloat64("llm.temperature"),
			Timeout:     v.GetDuration("llm.timeout"),
		},
		Wikipedia: WikipediaConfig{
			UserAgent:        v.GetString("wikipedia.user_agent"),
			Timeout:          v.GetDuration("wikipedia.timeout"),
			MinContentLength: v.GetInt("wikipedia.min_content_length"),
		},
		Client: ClientConfig{
			BaseURL: v.GetString("client.base_url"),
			Timeout: v.GetDuration("client.timeout"),
		},
		Logger: LoggerConfig{
			Level: v.GetString("logger.level"),
			Env:   v.GetString("logger.env"),
			File:  v.GetString("logger.file"),
		},
	}

	// Override with environment variables if set
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if _, err := fmt.Sscanf(port, "%d", &config.Server.Port); err != nil {
			return nil, fmt.Errorf("invalid SERVER_PORT %q: %w", port, err)
		}
	}
	if redisAddress := os.Getenv("REDIS_ADDRESS"); redisAddress != "" {
		config.Redis.Address = redisAddress
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		config.Redis.Password = redisPassword
	}
	if provider := os.Getenv("LLM_PROVIDER"); provider != "" {
		config.LLM.Provider = provider
	}
	if llmServer := os.Getenv("LLM_SERVER"); llmServer != "" {
		config.LLM.Server = llmServer
	}
	if apiKey := os.Getenv("LLM_API_KEY"); apiKey != "" {
		config.LLM.APIKey = apiKey
	}
	if baseURL := os.Getenv("QUIZ_API_URL"); baseURL != "" {
		config.Client.BaseURL = baseURL
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		config.Logger.Level = level
	}
	if env := os.Getenv("ENV"); env != "" && env != "test" {
		config.Logger.Env = env
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate rejects settings that cannot produce a working service.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case "ollama":
		if c.LLM.Server == "" {
			return fmt.Errorf("llm.server is required for the ollama provider")
		}
	case "openai", "gemini":
		// API key is checked when the generator is built so quizctl can run without one.
	default:
		return fmt.Errorf("unsupported llm.provider %q (want ollama, openai or gemini)", c.LLM.Provider)
	}
	if c.Quiz.NumQuestions <= 0 || c.Quiz.NumQuestions > 20 {
		return fmt.Errorf("quiz.num_questions must be between 1 and 20, got %d", c.Quiz.NumQuestions)
	}
	if c.Wikipedia.MinContentLength < 0 {
		return fmt.Errorf("wikipedia.min_content_length must not be negative")
	}
	return nil
}
