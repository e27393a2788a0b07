package utils

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

type Config struct {
	// Server
	AppPort  string `yaml:"APP_PORT"`
	AppURL   string `yaml:"APP_URL"`
	AdminKey string `yaml:"ADMIN_KEY"`

	// Database configuration
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`

	// Object storage (S3 or any S3-compatible endpoint such as R2)
	S3Bucket    string `yaml:"S3_BUCKET"`
	S3Region    string `yaml:"S3_REGION"`
	S3Endpoint  string `yaml:"S3_ENDPOINT"`
	S3AccessKey string `yaml:"S3_ACCESS_KEY"`
	S3SecretKey string `yaml:"S3_SECRET_KEY"`

	// Cloudflare Turnstile (empty secret disables verification)
	TurnstileSecretKey string `yaml:"TURNSTILE_SECRET_KEY"`

	// AI assistant upstream (OpenAI-compatible)
	AIAPIKey  string `yaml:"AI_API_KEY"`
	AIBaseURL string `yaml:"AI_BASE_URL"`
	AIModel   string `yaml:"AI_MODEL"`

	// Limits
	MaxVotesPerUser string `yaml:"MAX_VOTES_PER_USER"`
}

var config Config

func LoadConfig() {
	file, err := os.ReadFile("config.yaml")
	if err != nil {
		log.Printf("Error reading YAML file: %s\n", err)
		return
	}

	if err := yaml.Unmarshal(file, &config); err != nil {
		log.Printf("Error parsing YAML file: %s\n", err)
		return
	}
}

// GetConfig resolves a key from config.yaml, falling back to the environment
// so container deployments can run without a config file.
func GetConfig(key string) string {
	value := ""
	switch key {
	case "APP_PORT":
		value = config.AppPort
	case "APP_URL":
		value = config.AppURL
	case "ADMIN_KEY":
		value = config.AdminKey
	case "DB_USER":
		value = config.DBUser
	case "DB_NAME":
		value = config.DBName
	case "DB_PASSWORD":
		value = config.DBPassword
	case "DB_PORT":
		value = config.DBPort
	case "DB_HOST":
		value = config.DBHost
	case "S3_BUCKET":
		value = config.S3Bucket
	case "S3_REGION":
		value = config.S3Region
	case "S3_ENDPOINT":
		value = config.S3Endpoint
	case "S3_ACCESS_KEY":
		value = config.S3AccessKey
	case "S3_SECRET_KEY":
		value = config.S3SecretKey
	case "TURNSTILE_SECRET_KEY":
		value = config.TurnstileSecretKey
	case "AI_API_KEY":
		value = config.AIAPIKey
	case "AI_BASE_URL":
		value = config.AIBaseURL
	case "AI_MODEL":
		value = config.AIModel
	case "MAX_VOTES_PER_USER":
		value = config.MaxVotesPerUser
	}
	if value == "" {
		value = os.Getenv(key)
	}
	return value
}

// GetConfigInt resolves a numeric key, returning def when unset or invalid.
func GetConfigInt(key string, def int) int {
	raw := GetConfig(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("Invalid numeric config %s=%q, using default %d\n", key, raw, def)
		return def
	}
	return n
}
