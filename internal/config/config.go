package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	APIPort int `yaml:"apiPort"`
	Mongo   struct {
		URI      string `yaml:"uri"`
		Database string `yaml:"database"`
	} `yaml:"mongo"`
	Auth struct {
		SecretKey       string `yaml:"secretKey"`
		Algorithm       string `yaml:"algorithm"`
		TokenTTLMinutes int    `yaml:"tokenTTLMinutes"`
		GoogleClientID  string `yaml:"googleClientID"`
	} `yaml:"auth"`
	Spaces struct {
		Endpoint        string `yaml:"endpoint"`
		Region          string `yaml:"region"`
		Bucket          string `yaml:"bucket"`
		AccessKeyID     string `yaml:"accessKeyID"`
		SecretAccessKey string `yaml:"secretAccessKey"`
	} `yaml:"spaces"`
	Geocoder struct {
		BaseURL   string `yaml:"baseURL"`
		UserAgent string `yaml:"userAgent"`
	} `yaml:"geocoder"`
}

// LoadConfig loads the configuration from file and environment variables.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		// Missing config file is fine, everything can come from the
		// environment. A file that exists but fails to parse is not.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		log.Printf("Warning: Could not read config file: %s. Using defaults or environment variables.", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.APIPort == 0 {
		cfg.APIPort = 8000
		log.Println("APIPort not specified, using default 8000")
	}

	if cfg.Mongo.URI == "" {
		cfg.Mongo.URI = "mongodb://localhost:27017"
		log.Println("Mongo URI not specified, using default mongodb://localhost:27017")
	}
	if cfg.Mongo.Database == "" {
		cfg.Mongo.Database = "resenas"
	}

	if cfg.Auth.SecretKey == "" {
		cfg.Auth.SecretKey = "secret"
		log.Println("WARNING: auth secret key not specified, using insecure default; do not run this outside development")
	}
	if cfg.Auth.Algorithm == "" {
		cfg.Auth.Algorithm = "HS256"
	}
	if cfg.Auth.TokenTTLMinutes == 0 {
		cfg.Auth.TokenTTLMinutes = 30
	}
	if cfg.Auth.GoogleClientID == "" {
		log.Println("Warning: Google client ID not specified, logins will be rejected")
	}

	if cfg.Geocoder.BaseURL == "" {
		cfg.Geocoder.BaseURL = "https://nominatim.openstreetmap.org/search"
	}
	if cfg.Geocoder.UserAgent == "" {
		cfg.Geocoder.UserAgent = "ResenasWeb/1.0"
	}

	log.Printf("Configuration loaded, serving on port %d", cfg.APIPort)
	return &cfg, nil
}
