package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/base64pro/ratil-app/internal/auth"
	"github.com/base64pro/ratil-app/internal/cache"
	"github.com/base64pro/ratil-app/internal/clients"
	"github.com/base64pro/ratil-app/internal/config"
	"github.com/base64pro/ratil-app/internal/content"
	"github.com/base64pro/ratil-app/internal/db"
	"github.com/base64pro/ratil-app/internal/media"
	"github.com/base64pro/ratil-app/internal/middleware"
	"github.com/base64pro/ratil-app/internal/portfolio"
	"github.com/base64pro/ratil-app/internal/users"
	"github.com/base64pro/ratil-app/internal/validation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Error("mongo connection failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("mongo connected")
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		logger.Error("index creation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var cacheStore cache.Cache = cache.NewNoop()
	if cfg.RedisURL != "" || cfg.RedisAddr != "" {
		var redisCache *cache.RedisCache
		var err error
		if cfg.RedisURL != "" {
			redisCache, err = cache.NewRedisFromURL(cfg.RedisURL)
		} else {
			redisCache = cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		}
		if err != nil {
			logger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := redisCache.Ping(ctx); err != nil {
			logger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("redis connected")
		cacheStore = redisCache
	}

	var jwtManager *auth.Manager
	if cfg.JWTSecret != "" {
		jwtManager = &auth.Manager{
			Secret:     []byte(cfg.JWTSecret),
			AccessTTL:  time.Duration(cfg.AccessTTLMinutes) * time.Minute,
			RefreshTTL: time.Duration(cfg.RefreshTTLMinutes) * time.Minute,
			Issuer:     "ratil-app",
		}
	}

	uploads, err := media.NewStore(cfg.MediaDir, cfg.PublicBaseURL+"/media", cfg.MaxUploadBytes)
	if err != nil {
		logger.Error("media store init failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	val := validation.New()
	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second

	contentRepo := content.NewRepository(cols.Subcategories, cols.ContentItems)
	contentService := content.NewService(contentRepo, cacheStore, cacheTTL, uploads, cfg.Timezone)
	contentHandler := content.NewHandler(contentService, val, uploads, cfg.MaxUploadBytes, logger)

	clientsRepo := clients.NewRepository(cols.Clients)
	clientsService := clients.NewService(clientsRepo, cfg.Timezone)
	clientsHandler := clients.NewHandler(clientsService, val, logger)

	portfolioRepo := portfolio.NewRepository(cols.PortfolioCategories, cols.PortfolioItems)
	portfolioService := portfolio.NewService(portfolioRepo, clientsRepo, cacheStore, cacheTTL, uploads, cfg.Timezone)
	portfolioHandler := portfolio.NewHandler(portfolioService, val, uploads, cfg.MaxUploadBytes, cfg.Timezone, logger)

	usersRepo := users.NewRepository(cols.Users)
	usersService := users.NewService(usersRepo, cfg.Timezone)
	usersHandler := users.NewHandler(usersService, jwtManager, val, cfg.CookieSecure, logger)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.FrontendOrigin))
	r.Use(chiMiddleware.Timeout(30 * time.Second))

	loginLimiter := middleware.NewRateLimiter(cfg.RateLimitLogin, time.Duration(cfg.RateLimitWindowSec)*time.Second)

	r.Route("/api", func(api chi.Router) {
		api.With(loginLimiter.Middleware).Post("/login", usersHandler.Login)
		api.Post("/logout", usersHandler.Logout)
		api.Get("/me", usersHandler.CurrentUser)

		// chi prefers static segments, so the portfolio listing wins over
		// the {category} pattern below.
		api.Get("/content/portfolio/subcategories", portfolioHandler.ListCategories)
		api.Get("/content/{category}/subcategories", contentHandler.ListSubcategories)
		api.Get("/content/{category}/{subcategoryID}", contentHandler.ListItems)
		api.Get("/clients", clientsHandler.List)
		api.Get("/portfolio/items", portfolioHandler.ListItems)

		api.Group(func(admin chi.Router) {
			admin.Use(middleware.AdminAuth(cfg.AdminAPIKey, jwtManager))

			admin.Post("/content/{category}/subcategories", contentHandler.CreateSubcategory)
			admin.Put("/content/{category}/subcategories/{id}", contentHandler.UpdateSubcategory)
			admin.Delete("/content/{category}/subcategories/{id}", contentHandler.DeleteSubcategory)

			admin.Post("/content/{category}/{subcategoryID}", contentHandler.CreateItem)
			admin.Put("/content/{category}/{subcategoryID}/{id}", contentHandler.UpdateItem)
			admin.Delete("/content/{category}/{subcategoryID}/{id}", contentHandler.DeleteItem)

			admin.Get("/admin/content", contentHandler.AdminList)

			admin.Post("/clients", clientsHandler.Create)
			admin.Put("/clients/{id}", clientsHandler.Update)
			admin.Delete("/clients/{id}", clientsHandler.Delete)

			admin.Get("/users", usersHandler.List)
			admin.Post("/users", usersHandler.Create)
			admin.Put("/users/{username}/change-password", usersHandler.ChangePassword)
			admin.Delete("/users/{username}", usersHandler.Delete)
		})

		api.Group(func(studio chi.Router) {
			studio.Use(middleware.PortfolioAuth(cfg.AdminAPIKey, jwtManager))

			studio.Post("/content/portfolio/subcategories", portfolioHandler.CreateCategory)
			studio.Put("/content/portfolio/subcategories/{id}", portfolioHandler.UpdateCategory)
			studio.Delete("/content/portfolio/subcategories/{id}", portfolioHandler.DeleteCategory)

			studio.Post("/portfolio/items", portfolioHandler.CreateItem)
			studio.Put("/portfolio/items/{id}", portfolioHandler.UpdateItem)
			studio.Delete("/portfolio/items/{id}", portfolioHandler.DeleteItem)
		})
	})

	r.Handle("/media/*", http.StripPrefix("/media/", http.FileServer(http.Dir(cfg.MediaDir))))

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: r,
	}

	go func() {
		logger.Info("server started", slog.String("addr", cfg.ServerAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}
}
