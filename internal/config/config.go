package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Logger   LoggerConfig
	LLM      LLMConfig
	Redis    RedisConfig
	Session  SessionConfig
	Document DocumentConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	BodyLimit    int
}

type LoggerConfig struct {
	Level string `yaml:"level"`
	Env   string `yaml:"env"`
}

// LLMConfig selects and configures the generative model backend.
// Provider is one of "ollama", "openai", "gemini", "vertex".
type LLMConfig struct {
	Provider string
	Model    string
	Timeout  time.Duration
	Ollama   OllamaConfig
	OpenAI   OpenAIConfig
	Gemini   GeminiConfig
	Vertex   VertexConfig
}

type OllamaConfig struct {
	ServerURL string
}

type OpenAIConfig struct {
	APIKey string
}

type GeminiConfig struct {
	APIKey string
}

type VertexConfig struct {
	ProjectID string
	Region    string
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type SessionConfig struct {
	TTL         time.Duration
	TokenSecret string
	TokenTTL    time.Duration
}

type DocumentConfig struct {
	MinTextLength  int
	MaxUploadBytes int
}

func setDefaults() {
	viper.SetDefault("server.port", 8090)
	viper.SetDefault("server.read_timeout", "120s")
	viper.SetDefault("server.write_timeout", "120s")
	viper.SetDefault("server.body_limit", 20*1024*1024)
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.env", "development")
	viper.SetDefault("llm.provider", "gemini")
	viper.SetDefault("llm.model", "gemini-1.5-pro-latest")
	viper.SetDefault("llm.timeout", "90s")
	viper.SetDefault("llm.ollama.server_url", "http://localhost:11434")
	viper.SetDefault("llm.vertex.region", "us-central1")
	viper.SetDefault("redis.address", "localhost:6379")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("session.ttl", "6h")
	viper.SetDefault("session.token_ttl", "6h")
	viper.SetDefault("document.min_text_length", 100)
	viper.SetDefault("document.max_upload_bytes", 15*1024*1024)
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	if os.Getenv("ENV") == "test" {
		viper.AddConfigPath("../../configs")
		viper.AddConfigPath("../../")
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("./configs")
	}

	setDefaults()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		fmt.Println("No config file found, using defaults and environment")
	}

	if configFile := viper.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         viper.GetInt("server.port"),
			ReadTimeout:  viper.GetDuration("server.read_timeout"),
			WriteTimeout: viper.GetDuration("server.write_timeout"),
			BodyLimit:    viper.GetInt("server.body_limit"),
		},
		Logger: LoggerConfig{
			Level: viper.GetString("logger.level"),
			Env:   viper.GetString("logger.env"),
		},
		LLM: LLMConfig{
			Provider: viper.GetString("llm.provider"),
			Model:    viper.GetString("llm.model"),
			Timeout:  viper.GetDuration("llm.timeout"),
			Ollama:   OllamaConfig{ServerURL: viper.GetString("llm.ollama.server_url")},
			OpenAI:   OpenAIConfig{APIKey: viper.GetString("llm.openai.api_key")},
			Gemini:   GeminiConfig{APIKey: viper.GetString("llm.gemini.api_key")},
			Vertex: VertexConfig{
				ProjectID: viper.GetString("llm.vertex.project_id"),
				Region:    viper.GetString("llm.vertex.region"),
			},
		},
		Redis: RedisConfig{
			Address:  viper.GetString("redis.address"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		Session: SessionConfig{
			TTL:         viper.GetDuration("session.ttl"),
			TokenSecret: viper.GetString("session.token_secret"),
			TokenTTL:    viper.GetDuration("session.token_ttl"),
		},
		Document: DocumentConfig{
			MinTextLength:  viper.GetInt("document.min_text_length"),
			MaxUploadBytes: viper.GetInt("document.max_upload_bytes"),
		},
	}

	// Conventional key names used by the hosted model providers.
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		cfg.LLM.Gemini.APIKey = key
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.LLM.OpenAI.APIKey = key
	}
	if project := os.Getenv("GOOGLE_CLOUD_PROJECT"); project != "" && cfg.LLM.Vertex.ProjectID == "" {
		cfg.LLM.Vertex.ProjectID = project
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings every entrypoint needs.
func (c *Config) Validate() error {
	if c.Document.MinTextLength <= 0 {
		return fmt.Errorf("document.min_text_length must be positive, got %d", c.Document.MinTextLength)
	}
	switch c.LLM.Provider {
	case "ollama", "openai", "gemini", "vertex":
	default:
		return fmt.Errorf("unsupported llm.provider %q", c.LLM.Provider)
	}
	return nil
}
