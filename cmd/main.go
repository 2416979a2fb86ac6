package main

import (
	"forecast-service/internal/forecast"
	"forecast-service/internal/handler"
	mid "forecast-service/internal/middleware"
	"forecast-service/pkg/client"
	"forecast-service/pkg/config"
	"forecast-service/pkg/database"
	"forecast-service/pkg/jwtutil"
	"forecast-service/pkg/logger"
	"forecast-service/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	if err := logger.InitLogger(&logger.LogConfig{
		Level:       appConfig.Log.Level,
		Environment: appConfig.Server.Env,
		ServiceName: appConfig.ServiceName,
	}); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting "+appConfig.ServiceName, appConfig.LogFields()...)

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig.Metrics.Prefix, prom.DefaultRegisterer)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	source := catalogSource(appConfig, log)

	location, err := appConfig.Forecast.Location()
	if err != nil {
		log.Fatal("Invalid forecast timezone", zap.Error(err))
	}
	service := forecast.NewService(
		prometheus.InstrumentForecaster(forecast.NewDecomposition(forecast.DefaultDecompositionOptions())),
		forecast.WithLocation(location),
		forecast.WithWorkers(appConfig.Forecast.Workers),
		forecast.WithLogger(log),
	)
	forecastHandler := handler.NewForecastHandler(service, source,
		appConfig.Forecast.DefaultHorizonDays, appConfig.Forecast.MaxHorizonDays)

	// Initialize Echo instance
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: appConfig.Server.CORSAllowOrigins,
	}))
	e.Use(mid.RequestIDMiddleware)
	e.Use(logger.Middleware())
	e.Use(mid.MetricsMiddleware)

	// Routes
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/health", handler.NewHealthHandler(appConfig.ServiceName, appConfig.CatalogSource).Check)

	forecastHandler.Register(e.Group("/api/forecast"))

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}

// catalogSource picks where products and orders are read from
func catalogSource(appConfig *config.Config, log *zap.Logger) handler.CatalogSource {
	if appConfig.CatalogSource == config.SourceDatabase {
		db, err := database.Open(appConfig)
		if err != nil {
			log.Fatal("Failed to initialize database", zap.Error(err))
		}
		log.Info("Database connection established")
		return database.NewCatalog(db)
	}

	tokens := jwtutil.NewTokenIssuer(appConfig.JWT.SigningKey, appConfig.JWT.Issuer, appConfig.JWT.TTL)
	log.Info("Upstream catalog client initialized",
		zap.String("base_url", appConfig.Upstream.BaseURL),
		zap.Bool("service_tokens", tokens != nil))
	return client.NewCatalogClient(appConfig.Upstream, tokens, log)
}
