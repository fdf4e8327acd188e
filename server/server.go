package server

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tann9949/go-receipts-indexer/config"
	"github.com/tann9949/go-receipts-indexer/database"
	"github.com/tann9949/go-receipts-indexer/eas"
	"github.com/tann9949/go-receipts-indexer/ens"
	"github.com/tann9949/go-receipts-indexer/leaderboard"
	"github.com/tann9949/go-receipts-indexer/receipts"
	"github.com/tann9949/go-receipts-indexer/types"
)

// Deps are the collaborators the API serves from, supplied by main so tests
// can swap in doubles.
type Deps struct {
	Store       *database.ReceiptStore
	EAS         *eas.Client
	Leaderboard *leaderboard.Client
	Resolver    ens.Resolver
}

func rootHandler(c *fiber.Ctx) error {
	return c.SendString("Hello, World 👋!")
}

func parseLimit(c *fiber.Ctx, fallback int64) (int64, error) {
	limitStr := c.Query("limit")
	if limitStr == "" {
		return fallback, nil
	}
	limit, err := strconv.ParseInt(limitStr, 10, 64)
	if err != nil || limit <= 0 {
		return 0, fmt.Errorf("limit must be a positive integer")
	}
	return limit, nil
}

// Start builds the fiber app and blocks serving it.
func Start(deps Deps) {
	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH,OPTIONS",
	}))

	app.Get("/", rootHandler)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Activities attested for one user; :address may be a name or a hex
	// address, optionally windowed by start/end unix seconds.
	app.Get("/v1/workouts/:address", func(c *fiber.Ctx) error {
		address := c.Params("address")

		var start, end int64
		if v := c.Query("start"); v != "" {
			parsed, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(Response{
					Status:  "ERROR",
					Message: "Invalid start parameter",
				})
			}
			start = parsed
		}
		if v := c.Query("end"); v != "" {
			parsed, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(Response{
					Status:  "ERROR",
					Message: "Invalid end parameter",
				})
			}
			end = parsed
		}

		workouts, err := receipts.UserWorkouts(c.Context(), deps.EAS, deps.Resolver, address, start, end)
		if err != nil {
			status := fiber.StatusBadGateway
			if errors.Is(err, eas.ErrInvalidRange) || errors.Is(err, ens.ErrNameNotFound) {
				status = fiber.StatusBadRequest
			}
			return c.Status(status).JSON(Response{
				Status:  "ERROR",
				Message: err.Error(),
			})
		}
		return c.JSON(Response{Status: "OK", Result: workouts})
	})

	// Current week's deduped activities, served from the store when it has
	// been populated by the ingest loop, refetched live otherwise.
	app.Get("/v1/weekly", func(c *fiber.Ctx) error {
		interval := types.CurrentWeek(time.Now())

		workouts, err := deps.Store.WorkoutsBetween(c.Context(), interval.Start, interval.End)
		if err == nil && len(workouts) == 0 {
			workouts, err = receipts.WeeklyWorkouts(c.Context(), deps.EAS, true)
		}
		if err != nil {
			return c.Status(fiber.StatusBadGateway).JSON(Response{
				Status:  "ERROR",
				Message: err.Error(),
			})
		}
		return c.JSON(Response{Status: "OK", Result: fiber.Map{
			"interval": interval,
			"workouts": workouts,
		}})
	})

	// Second-generation event aggregates, newest first.
	app.Get("/v1/events", func(c *fiber.Ctx) error {
		name := c.Query("name")
		limit, err := parseLimit(c, 100)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(Response{
				Status:  "ERROR",
				Message: err.Error(),
			})
		}

		events, err := deps.Store.LatestEvents(c.Context(), name, limit)
		if err == nil && len(events) == 0 {
			events, err = receipts.EventWorkouts(c.Context(), deps.EAS, name)
		}
		if err != nil {
			return c.Status(fiber.StatusBadGateway).JSON(Response{
				Status:  "ERROR",
				Message: err.Error(),
			})
		}
		return c.JSON(Response{Status: "OK", Result: events})
	})

	app.Get("/v1/leaderboard", func(c *fiber.Ctx) error {
		filter := leaderboard.Filter(c.Query("filter", string(leaderboard.RunningDistance)))
		limit, err := parseLimit(c, 0)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(Response{
				Status:  "ERROR",
				Message: err.Error(),
			})
		}

		rows, err := deps.Leaderboard.Weekly(c.Context(), filter, int(limit), true)
		if err != nil {
			return c.Status(fiber.StatusBadGateway).JSON(Response{
				Status:  "ERROR",
				Message: err.Error(),
			})
		}
		return c.JSON(Response{Status: "OK", Result: rows})
	})

	addr := fmt.Sprintf(":%s", config.Current().Port)
	log.Fatal(app.Listen(addr))
}
