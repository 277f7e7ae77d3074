package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	YouTube    YouTubeConfig    `yaml:"youtube"`
	AI         AIConfig         `yaml:"ai"`
	VideoGen   VideoGenConfig   `yaml:"videogen"`
	Mongo      MongoConfig      `yaml:"mongo"`
	Storage    StorageConfig    `yaml:"storage"`
	Sync       SyncConfig       `yaml:"sync"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
}

type YouTubeConfig struct {
	APIKey       string `yaml:"api_key" env:"YOUTUBE_API_KEY"`
	ClientID     string `yaml:"client_id" env:"GOOGLE_CLIENT_ID"`
	ClientSecret string `yaml:"client_secret" env:"GOOGLE_CLIENT_SECRET"`
	TokenFile    string `yaml:"token_file"`
	Region       string `yaml:"region"`
	Language     string `yaml:"language"`
	MaxResults   int64  `yaml:"max_results"`
	DaysOld      int    `yaml:"days_old"`
	Privacy      string `yaml:"privacy"`
}

type AIConfig struct {
	GeminiAPIKey string  `yaml:"gemini_api_key" env:"GEMINI_API_KEY"`
	Model        string  `yaml:"model"`
	Temperature  float64 `yaml:"temperature"`
}

type VideoGenConfig struct {
	APIKey       string `yaml:"api_key" env:"MODELSLAB_API_KEY"`
	Endpoint     string `yaml:"endpoint"`
	ModelID      string `yaml:"model_id"`
	PollAttempts int    `yaml:"poll_attempts"`
	Webhook      string `yaml:"webhook"`
}

type MongoConfig struct {
	URI        string `yaml:"uri" env:"MONGODB_URI"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

type StorageConfig struct {
	DataDir string `yaml:"data_dir"`
}

type SyncConfig struct {
	Schedule string `yaml:"schedule"`
}

type MonitoringConfig struct {
	HealthPort int `yaml:"health_port"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = "config.yaml"
	}

	var cfg Config
	data, err := os.ReadFile(configFile)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configFile, err)
		}
	case os.IsNotExist(err):
		// Env vars and defaults are enough to run; the file is optional.
	default:
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	if cfg.YouTube.APIKey == "" {
		cfg.YouTube.APIKey = os.Getenv("YOUTUBE_API_KEY")
	}
	if cfg.YouTube.ClientID == "" {
		cfg.YouTube.ClientID = os.Getenv("GOOGLE_CLIENT_ID")
	}
	if cfg.YouTube.ClientSecret == "" {
		cfg.YouTube.ClientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")
	}
	if cfg.AI.GeminiAPIKey == "" {
		cfg.AI.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.VideoGen.APIKey == "" {
		cfg.VideoGen.APIKey = os.Getenv("MODELSLAB_API_KEY")
	}
	if cfg.Mongo.URI == "" {
		cfg.Mongo.URI = os.Getenv("MONGODB_URI")
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.YouTube.TokenFile == "" {
		c.YouTube.TokenFile = "youtube_token.json"
	}
	if c.YouTube.Region == "" {
		c.YouTube.Region = "IN"
	}
	if c.YouTube.Language == "" {
		c.YouTube.Language = "hi"
	}
	if c.YouTube.MaxResults == 0 {
		c.YouTube.MaxResults = 20
	}
	if c.YouTube.DaysOld == 0 {
		c.YouTube.DaysOld = 7
	}
	if c.YouTube.Privacy == "" {
		c.YouTube.Privacy = "private"
	}
	if c.AI.Model == "" {
		c.AI.Model = "gemini-2.5-flash"
	}
	if c.AI.Temperature == 0 {
		c.AI.Temperature = 0.7
	}
	if c.VideoGen.Endpoint == "" {
		c.VideoGen.Endpoint = "https://modelslab.com/api/v6/video/text2video"
	}
	if c.VideoGen.ModelID == "" {
		c.VideoGen.ModelID = "cogvideox"
	}
	if c.VideoGen.PollAttempts == 0 {
		c.VideoGen.PollAttempts = 10
	}
	if c.Mongo.URI == "" {
		c.Mongo.URI = "mongodb://localhost:27017"
	}
	if c.Mongo.Database == "" {
		c.Mongo.Database = "social_media_automation"
	}
	if c.Mongo.Collection == "" {
		c.Mongo.Collection = "managed_videos"
	}
	if c.Storage.DataDir == "" {
		c.Storage.DataDir = "data"
	}
	if c.Sync.Schedule == "" {
		c.Sync.Schedule = "0 0 */6 * * *" // Every 6 hours
	}
	if c.Monitoring.HealthPort == 0 {
		c.Monitoring.HealthPort = 8080
	}
}

// validate checks value ranges. Required API keys are checked by the
// service that needs them, so commands that never touch a service do
// not demand its credentials.
func (c *Config) validate() error {
	if c.YouTube.MaxResults < 5 || c.YouTube.MaxResults > 50 {
		return fmt.Errorf("youtube.max_results must be between 5 and 50, got %d", c.YouTube.MaxResults)
	}
	if c.YouTube.DaysOld < 1 || c.YouTube.DaysOld > 30 {
		return fmt.Errorf("youtube.days_old must be between 1 and 30, got %d", c.YouTube.DaysOld)
	}
	if c.AI.Temperature < 0 || c.AI.Temperature > 2 {
		return fmt.Errorf("ai.temperature must be between 0 and 2, got %g", c.AI.Temperature)
	}
	if c.VideoGen.PollAttempts < 1 {
		return fmt.Errorf("videogen.poll_attempts must be positive, got %d", c.VideoGen.PollAttempts)
	}
	if c.Monitoring.HealthPort < 1 || c.Monitoring.HealthPort > 65535 {
		return fmt.Errorf("monitoring.health_port must be a valid port, got %d", c.Monitoring.HealthPort)
	}
	return nil
}
