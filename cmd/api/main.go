package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/resenas-io/resenas/internal/api"
	"github.com/resenas-io/resenas/internal/auth"
	"github.com/resenas-io/resenas/internal/config"
	"github.com/resenas-io/resenas/internal/geocode"
	"github.com/resenas-io/resenas/internal/storage"
	"github.com/resenas-io/resenas/internal/store"
)

const version = "0.1.0"

func initializeAPI(configPath string) (*api.Api, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := store.ConnectMongo(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		return nil, err
	}

	tokens, err := auth.NewTokenManager(
		cfg.Auth.SecretKey,
		cfg.Auth.Algorithm,
		time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute,
	)
	if err != nil {
		return nil, err
	}

	images, err := storage.NewS3Client(
		cfg.Spaces.Endpoint,
		cfg.Spaces.Region,
		cfg.Spaces.Bucket,
		cfg.Spaces.AccessKeyID,
		cfg.Spaces.SecretAccessKey,
	)
	if err != nil {
		return nil, err
	}

	deps := api.Deps{
		Verifier: auth.NewGoogleVerifier(auth.GoogleVerifierConfig{
			ClientID: cfg.Auth.GoogleClientID,
		}),
		Tokens:   tokens,
		Users:    db,
		Reviews:  db,
		Images:   images,
		Geocoder: geocode.NewClient(cfg.Geocoder.BaseURL, cfg.Geocoder.UserAgent, http.DefaultClient),
	}

	return api.NewApi(*cfg, deps)
}

func main() {
	configPath := flag.String("config", "app.yml", "Path to configuration file")
	flag.Parse()

	log.Printf("Starting reviews API v%s with config: %s", version, *configPath)

	api, err := initializeAPI(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	api.Serve()
}
