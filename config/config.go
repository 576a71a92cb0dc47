// config/config.go
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port string
	}
	Supabase struct {
		URL        string
		ServiceKey string
		JWTSecret  string
	}
	OpenAI struct {
		APIKey  string
		BaseURL string
		Model   string
	}
	S3 struct {
		Bucket        string
		Region        string
		CloudFrontURL string
	}
}

// Load reads configuration from the environment, with an optional .env file
// for local development.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("OPENAI_MODEL", "gpt-4o-mini")
	v.AutomaticEnv()

	cfg := &Config{}
	cfg.Server.Port = v.GetString("SERVER_PORT")
	cfg.Supabase.URL = v.GetString("SUPABASE_URL")
	cfg.Supabase.ServiceKey = v.GetString("SUPABASE_SERVICE_KEY")
	cfg.Supabase.JWTSecret = v.GetString("SUPABASE_JWT_SECRET")
	cfg.OpenAI.APIKey = v.GetString("OPENAI_API_KEY")
	cfg.OpenAI.BaseURL = v.GetString("OPENAI_BASE_URL")
	cfg.OpenAI.Model = v.GetString("OPENAI_MODEL")
	cfg.S3.Bucket = v.GetString("S3_BUCKET")
	cfg.S3.Region = v.GetString("S3_REGION")
	if cfg.S3.Region == "" {
		cfg.S3.Region = os.Getenv("AWS_REGION")
	}
	cfg.S3.CloudFrontURL = v.GetString("CLOUDFRONT_URL")

	if cfg.Supabase.URL == "" {
		return nil, fmt.Errorf("SUPABASE_URL is not set")
	}
	if cfg.Supabase.ServiceKey == "" {
		return nil, fmt.Errorf("SUPABASE_SERVICE_KEY is not set")
	}
	if cfg.Supabase.JWTSecret == "" {
		return nil, fmt.Errorf("SUPABASE_JWT_SECRET is not set")
	}
	if cfg.OpenAI.APIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}

	return cfg, nil
}
