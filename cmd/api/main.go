package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/SajidCurious/starflix/internal/auth"
	"github.com/SajidCurious/starflix/internal/handlers"
	"github.com/SajidCurious/starflix/internal/httpserver"
	"github.com/SajidCurious/starflix/internal/store"
	"github.com/SajidCurious/starflix/internal/tmdb"
)

type Config struct {
	Port     string `envconfig:"PORT" default:"8080"`
	Env      string `envconfig:"ENV" default:"development"`
	MongoURI string `envconfig:"MONGODB_URI" required:"true"`
	MongoDB  string `envconfig:"MONGODB_DB" default:"starflix"`

	TMDBAPIKey  string `envconfig:"TMDB_API_KEY"`
	TMDBBaseURL string `envconfig:"TMDB_BASE_URL" default:"https://api.themoviedb.org/3"`

	IdentityJWTPublicKey string `envconfig:"IDENTITY_JWT_PUBLIC_KEY"`
	IdentityJWKSURL      string `envconfig:"IDENTITY_JWKS_URL"`
	IdentityJWTIssuer    string `envconfig:"IDENTITY_JWT_ISSUER"`
	IdentityJWTAudience  string `envconfig:"IDENTITY_JWT_AUDIENCE" default:"authenticated"`
}

func mustLoadEnv() Config {
	_ = godotenv.Load()
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		log.Fatalf("env error: %v", err)
	}
	return c
}

func main() {
	cfg := mustLoadEnv()
	prod := cfg.Env == "production"

	db, err := store.Connect(context.Background(), cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatalf("db connect error: %v", err)
	}
	if err := db.EnsureIndexes(context.Background()); err != nil {
		log.Fatalf("db index error: %v", err)
	}

	users := store.NewUsers(db)
	favourites := store.NewLibrary(db, "favourites")
	watchlist := store.NewLibrary(db, "watchlist")
	reviews := store.NewReviews(db)

	var tmdbClient *tmdb.Client
	if cfg.TMDBAPIKey != "" {
		tmdbClient = tmdb.New(cfg.TMDBAPIKey, cfg.TMDBBaseURL)
	} else {
		log.Printf("TMDB_API_KEY not set, catalog proxy disabled")
	}

	verifier := &auth.Verifier{
		PublicKeyPEM: cfg.IdentityJWTPublicKey,
		JWKSURL:      cfg.IdentityJWKSURL,
		Audience:     cfg.IdentityJWTAudience,
		Issuer:       cfg.IdentityJWTIssuer,
	}

	healthHandler := handlers.NewHealthHandler(db, cfg.Env)
	userHandler := handlers.NewUserHandler(users, prod)
	favHandler := handlers.NewLibraryHandler(users, favourites, verifier.RequireOwner, prod)
	wlHandler := handlers.NewLibraryHandler(users, watchlist, verifier.RequireOwner, prod)
	reviewHandler := handlers.NewReviewHandler(users, reviews, verifier.RequireOwner, prod)
	catalogHandler := handlers.NewCatalogHandler(tmdbClient)

	mounter := func(r chi.Router) {
		// Public routes
		r.Get("/health", healthHandler.Health)
		r.Get("/search/movies", catalogHandler.Search)
		r.Get("/movies/{id}", catalogHandler.Movie)
		r.Get("/trending", catalogHandler.Trending)
		r.Post("/user", userHandler.Resolve)

		// User-scoped routes; each handler applies the owner check when a
		// verification key is configured.
		r.Route("/favourites", favHandler.Routes)
		r.Route("/watchlist", wlHandler.Routes)
		r.Route("/reviews", reviewHandler.Routes)
	}

	srv := httpserver.New(mounter)

	addr := ":" + cfg.Port
	httpSrv := &http.Server{Addr: addr, Handler: srv.Router}

	go func() {
		log.Printf("listening on %s (env=%s)", addr, cfg.Env)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Printf("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
	if err := db.Close(ctx); err != nil {
		log.Printf("db close error: %v", err)
	}
}
