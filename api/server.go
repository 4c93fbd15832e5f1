// Package api exposes the catalog over HTTP.
package api

import (
	"strings"

	"cine-catalog/config"
	"cine-catalog/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

const requestIDKey = "requestid"

// NewApp builds the fiber application with its middleware and routes.
// Every endpoint is open; there is no authentication.
func NewApp(cfg *config.Config, store storage.StorageInterface) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "cine-catalog",
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator:  uuid.NewString,
		ContextKey: requestIDKey,
	}))
	app.Use(logger.New(logger.Config{
		Format: "${time} | ${locals:requestid} | ${status} | ${latency} | ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.Cors.AllowOrigins, ","),
		AllowHeaders: strings.Join(cfg.Cors.AllowHeaders, ","),
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,HEAD,OPTIONS",
	}))

	if cfg.Limiter.Max > 0 {
		var middleware limiter.LimiterHandler
		if cfg.Limiter.Sliding {
			middleware = limiter.SlidingWindow{}
		} else {
			middleware = limiter.FixedWindow{}
		}
		app.Use(limiter.New(limiter.Config{
			Max:               cfg.Limiter.Max,
			Expiration:        cfg.Limiter.Expiration,
			LimiterMiddleware: middleware,
		}))
	}

	registerRoutes(app, cfg, store)
	return app
}

func registerRoutes(app *fiber.App, cfg *config.Config, store storage.StorageInterface) {
	movieH := NewMovieHandler(store)
	serieH := NewSerieHandler(store)
	episodeH := NewEpisodeHandler(store)

	app.Get("/health", Health(store))

	movies := app.Group("/movies")
	movies.Get("/", movieH.List)
	movies.Post("/", movieH.Create)
	movies.Get("/:id", movieH.Get)
	movies.Put("/:id", movieH.Replace)
	movies.Patch("/:id", movieH.Update)
	movies.Delete("/:id", movieH.Delete)

	series := app.Group("/series")
	series.Get("/", serieH.List)
	series.Post("/", serieH.Create)
	series.Get("/:id", serieH.Get)
	series.Put("/:id", serieH.Replace)
	series.Patch("/:id", serieH.Update)
	series.Delete("/:id", serieH.Delete)

	// Episodes are only reachable through their serie.
	series.Get("/:id/episodes", episodeH.List)
	series.Post("/:id/episodes", episodeH.Create)
	series.Get("/:id/episodes/:episodeId", episodeH.Get)
	series.Put("/:id/episodes/:episodeId", episodeH.Replace)
	series.Patch("/:id/episodes/:episodeId", episodeH.Update)
	series.Delete("/:id/episodes/:episodeId", episodeH.Delete)

	if cfg.MediaRoot != "" {
		app.Static("/media", cfg.MediaRoot)
	}
}
