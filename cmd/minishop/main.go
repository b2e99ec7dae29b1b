package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/aymenbt/minishop/docs"
	"github.com/aymenbt/minishop/internal/api/handlers"
	"github.com/aymenbt/minishop/internal/api/middleware"
	"github.com/aymenbt/minishop/internal/cache"
	"github.com/aymenbt/minishop/internal/config"
	"github.com/aymenbt/minishop/internal/health"
	"github.com/aymenbt/minishop/internal/metrics"
	repository "github.com/aymenbt/minishop/internal/repositories"
	service "github.com/aymenbt/minishop/internal/services"
	"github.com/aymenbt/minishop/internal/telemetry"
	"github.com/aymenbt/minishop/pkg/sendgrid"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

//	@title			minishop API
//	@version		1.0
//	@description	Cart and checkout backend for the minishop demo store.
//	@BasePath		/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization

func main() {

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.MustLoad()

	ctx := context.Background()

	tracerProvider, err := telemetry.Init(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize tracing", slog.Any("error", err))
		os.Exit(1)
	}

	if tracerProvider != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
				slog.Error("Error shutting down tracer provider", slog.Any("error", err))
			}
		}()
	}

	repos, err := repository.New(cfg)
	if err != nil {
		slog.Error("Error accessing the database", slog.Any("error", err))
		os.Exit(1)
	}

	defer func() {
		if err := repos.Close(); err != nil {
			slog.Error("Error closing database connection", slog.Any("error", err))
		} else {
			slog.Info("Database connection closed")
		}
	}()

	redisClient, err := repository.NewRedisClient(cfg)
	if err != nil {
		slog.Error("Error accessing the redis instance", slog.Any("error", err))
		os.Exit(1)
	}

	defer func() {
		if err := redisClient.Close(); err != nil {
			slog.Error("Error closing redis connection", slog.Any("error", err))
		}
	}()

	rateLimiter := repository.NewRateLimitRepo(redisClient, cfg)
	productCache := cache.NewRedisCache(redisClient, &cfg.Cache)
	emailer := sendgrid.NewEmailService(&cfg.SendGrid)

	userService := service.NewUserService(repos.User, rateLimiter, &cfg.Security)
	productService := service.NewProductService(repos.Product, productCache)
	cartService := service.NewCartService(repos.Cart, repos.Product)
	orderService := service.NewOrderService(repos.Order, repos.Cart, cartService, repos.Product, repos.User, emailer)

	userHandler := handlers.NewUserHandler(userService)
	productHandler := handlers.NewProductHandler(productService)
	cartHandler := handlers.NewCartHandler(cartService, orderService)
	orderHandler := handlers.NewOrderHandler(orderService)

	authMiddleware := middleware.NewAuthMiddleware([]byte(cfg.Security.JWTKey))

	if err := productService.SeedProducts(ctx); err != nil {
		slog.Error("Failed to seed product catalog", slog.Any("error", err))
		os.Exit(1)
	}

	healthHandler, err := health.NewHealthHandler(cfg)
	if err != nil {
		slog.Error("Failed to set up health checks", slog.Any("error", err))
		os.Exit(1)
	}

	slog.Info("Storage initialized", slog.String("env", cfg.Env))

	routerMux := http.NewServeMux()
	routerMux.HandleFunc("POST /api/v1/users/register", userHandler.Register())
	routerMux.HandleFunc("POST /api/v1/users/login", userHandler.Login())
	routerMux.HandleFunc("GET /api/v1/users/profile", authMiddleware.Authenticate(userHandler.Profile()))
	routerMux.HandleFunc("GET /api/v1/products", productHandler.ListProducts())
	routerMux.HandleFunc("GET /api/v1/products/{id}", productHandler.GetProduct())
	routerMux.HandleFunc("POST /api/v1/products", authMiddleware.Authenticate(productHandler.CreateProduct()))
	routerMux.HandleFunc("PUT /api/v1/products/{id}", authMiddleware.Authenticate(productHandler.UpdateProduct()))
	routerMux.HandleFunc("GET /api/v1/cart", authMiddleware.Authenticate(cartHandler.GetCart()))
	routerMux.HandleFunc("POST /api/v1/cart/items", authMiddleware.Authenticate(cartHandler.AddItem()))
	routerMux.HandleFunc("PUT /api/v1/cart/items", authMiddleware.Authenticate(cartHandler.UpdateItem()))
	routerMux.HandleFunc("DELETE /api/v1/cart/items/{productId}", authMiddleware.Authenticate(cartHandler.RemoveItem()))
	routerMux.HandleFunc("DELETE /api/v1/cart", authMiddleware.Authenticate(cartHandler.ClearCart()))
	routerMux.HandleFunc("POST /api/v1/cart/checkout", authMiddleware.Authenticate(cartHandler.Checkout()))
	routerMux.HandleFunc("GET /api/v1/orders", authMiddleware.Authenticate(orderHandler.ListOrders()))
	routerMux.HandleFunc("GET /api/v1/orders/{id}", authMiddleware.Authenticate(orderHandler.GetOrder()))
	routerMux.HandleFunc("PATCH /api/v1/orders/{id}/status", authMiddleware.Authenticate(orderHandler.UpdateStatus()))
	routerMux.Handle("GET /healthz", healthHandler.Handler())
	routerMux.Handle("GET /metrics", metrics.Handler())
	routerMux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	var handler http.Handler = routerMux
	handler = otelhttp.NewHandler(handler, "minishop")
	handler = middleware.Logging(handler)
	handler = metrics.Middleware(handler)

	server := http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}

	slog.Info("Server is starting", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("Failed to start server", slog.Any("error", err))
		}
	}()

	<-done

	slog.Warn("Shutdown signal received, stopping the server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown encountered an issue", slog.Any("error", err))
	} else {
		slog.Info("Server shut down gracefully")
	}
}
