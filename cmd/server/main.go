package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path"
	"runtime"
	"strings"
	"time"

	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/joho/godotenv/autoload"

	"bookcatalog/internal/classify"
	"bookcatalog/internal/logger"
	"bookcatalog/internal/response"
	"bookcatalog/internal/server"
	"bookcatalog/internal/storage/books"
)

func getEnvOrDefault(key, default_ string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}

	return default_
}

func getBoolEnv(key string) bool {
	if val := strings.ToLower(os.Getenv(key)); val == "yes" || val == "on" || val == "true" {
		return true
	}

	return false
}

var (
	logLevel       = strings.ToLower(getEnvOrDefault("LOG_LEVEL", "debug"))
	dbConnStr      = os.Getenv("DATABASE_URL")
	bindAddr       = getEnvOrDefault("BIND_ADDR", ":8080")
	debugMode      = getBoolEnv("DEBUG_MODE")
	cohereToken    = os.Getenv("COHERE_API_KEY")
	requestTimeout = getEnvOrDefault("REQUEST_TIMEOUT", "30s")
)

func main() {
	_, thisFile, _, _ := runtime.Caller(0)

	var lvl slog.Level
	err := lvl.UnmarshalText([]byte(logLevel))
	if err != nil {
		lvl = slog.LevelDebug
	}
	logger.SetupSLog(lvl, path.Dir(path.Dir(path.Dir(thisFile))), middleware.RequestIDKey)

	if err != nil {
		slog.Error("Invalid log level specified in LOG_LEVEL, one of debug, info, warn or error expected")
		os.Exit(1)
	}

	timeout, err := time.ParseDuration(requestTimeout)
	if err != nil {
		slog.Error("Invalid REQUEST_TIMEOUT, expected a duration like 30s: " + err.Error())
		os.Exit(1)
	}

	cfg, err := pgxpool.ParseConfig(dbConnStr)
	if err != nil {
		slog.Error("Failed to parse DATABASE_URL: " + err.Error())
		os.Exit(1)
	}

	cfg.ConnConfig.Tracer = logger.NewPGXTracer()

	pg, err := pgxpool.NewWithConfig(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to create postgres pool: " + err.Error())
		os.Exit(1)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	// Every query is a single bounded request; a stuck storage call surfaces
	// as a timed-out response instead of hanging the client.
	r.Use(middleware.Timeout(timeout))

	r.Mount("/api/v1", server.Handler(
		books.NewPGXRepository(pg, slog.Default()),
		classify.NewCohereClient(cohereToken, slog.Default()),
		&response.Responder{DebugMode: debugMode},
	))

	slog.Error("aborting: " + http.ListenAndServe(bindAddr, r).Error())
	os.Exit(1)
}
