package api

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/resenas-io/resenas/internal/auth"
	"github.com/resenas-io/resenas/internal/config"
	"github.com/resenas-io/resenas/internal/store"
)

// ImageStore uploads one image and returns its public URL.
type ImageStore interface {
	Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error)
}

// Geocoder resolves an address to coordinates, falling back to (0, 0) on any
// failure. It never reports an error.
type Geocoder interface {
	Lookup(ctx context.Context, address string) (float64, float64)
}

// Deps bundles the external collaborators the handlers orchestrate.
type Deps struct {
	Verifier auth.Verifier
	Tokens   *auth.TokenManager
	Users    store.UserStore
	Reviews  store.ReviewStore
	Images   ImageStore
	Geocoder Geocoder
}

type Api struct {
	Config config.Config
	Deps   Deps
	Router *chi.Mux
}

func NewApi(cfg config.Config, deps Deps) (*Api, error) {
	if cfg.APIPort == 0 {
		return nil, fmt.Errorf("must have at least a port to start API")
	}
	if deps.Verifier == nil || deps.Tokens == nil || deps.Users == nil ||
		deps.Reviews == nil || deps.Images == nil || deps.Geocoder == nil {
		return nil, fmt.Errorf("all API dependencies must be provided")
	}

	api := &Api{
		Config: cfg,
		Deps:   deps,
		Router: chi.NewRouter(),
	}

	api.setupRoutes()
	return api, nil
}

func (api *Api) setupRoutes() {
	r := api.Router

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)

	// Public routes
	r.Get("/", api.RootHandler)
	r.Get("/heartbeat", api.Heartbeat)
	r.Post("/google-login", api.GoogleLoginHandler)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(api.SessionAuthMiddleware)
		r.Get("/reviews", api.ListReviewsHandler)
		r.Post("/reviews", api.CreateReviewHandler)
	})
}

func (api *Api) Serve() {
	log.Printf("Starting API server on 0.0.0.0:%d", api.Config.APIPort)
	log.Fatal(http.ListenAndServe(fmt.Sprintf("0.0.0.0:%d", api.Config.APIPort), api.Router))
}

func (api *Api) RootHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "API de reseñas funcionando"})
}

func (api *Api) Heartbeat(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
