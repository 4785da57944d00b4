package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds every runtime parameter, sourced from environment variables.
type Config struct {
	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" required:"true"`

	HTTPPort string `envconfig:"PORT" default:"8080"`

	// Username whose account is allowed to manage organizations and users.
	AdminUsername string `envconfig:"ADMIN_USERNAME" default:"admin"`

	LLMEndpoint       string `envconfig:"LLM_ENDPOINT" default:"https://api.openai.com/v1/chat/completions"`
	LLMModel          string `envconfig:"LLM_MODEL" default:"gpt-4o-mini"`
	LLMAPIKey         string `envconfig:"LLM_API_KEY"`
	LLMTimeoutSeconds int    `envconfig:"LLM_TIMEOUT_SECONDS" default:"60"`
}

// DSN returns the data source name for the PostgreSQL connection.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// LLMTimeout returns the classifier HTTP timeout as a duration.
func (c *Config) LLMTimeout() time.Duration {
	return time.Duration(c.LLMTimeoutSeconds) * time.Second
}

// Load reads the configuration from the environment, honoring a local .env.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	err := envconfig.Process("", &c)
	return &c, err
}
