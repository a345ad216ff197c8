package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Julz681/KanMind-Backend/internal/apperr"
	"github.com/Julz681/KanMind-Backend/internal/auth"
	"github.com/Julz681/KanMind-Backend/internal/boards"
	"github.com/Julz681/KanMind-Backend/internal/columns"
	"github.com/Julz681/KanMind-Backend/internal/comments"
	"github.com/Julz681/KanMind-Backend/internal/config"
	"github.com/Julz681/KanMind-Backend/internal/dashboard"
	apphttp "github.com/Julz681/KanMind-Backend/internal/http"
	"github.com/Julz681/KanMind-Backend/internal/router"
	"github.com/Julz681/KanMind-Backend/internal/tickets"
	"github.com/Julz681/KanMind-Backend/internal/users"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}
	log.Println("starting with", cfg)

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("error creating pgx pool: %v", err)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("error pinging database: %v", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: apperr.ErrorHandler,
	})

	app.Use(router.CorsMiddleware(cfg.CORSOrigin))
	app.Use(requestLogger())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL)
	userRepo := users.NewRepository(pool)
	boardRepo := boards.NewRepository(pool)
	columnRepo := columns.NewRepository(pool)
	ticketRepo := tickets.NewRepository(pool)
	commentRepo := comments.NewRepository(pool)

	r := &router.Router{
		AuthHandler: &apphttp.AuthHandler{
			Users:  userRepo,
			Tokens: tokens,
			Guest: apphttp.GuestConfig{
				Mode:     cfg.GuestMode,
				Email:    cfg.GuestEmail,
				FullName: cfg.GuestFullName,
			},
		},
		BoardHandler:     boards.NewHandler(boardRepo),
		ColumnHandler:    columns.NewHandler(columnRepo, boardRepo),
		TicketHandler:    tickets.NewHandler(ticketRepo, columnRepo, boardRepo),
		CommentHandler:   comments.NewHandler(commentRepo, ticketRepo, boardRepo),
		DashboardHandler: dashboard.NewHandler(dashboard.Repo{DB: pool}),
		AuthMW:           auth.Middleware(tokens),
	}
	r.RegisterRoutes(app)

	log.Println("Listening on", cfg.Addr)
	log.Fatal(app.Listen(cfg.Addr))
}

func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		log.Printf("%s %s %d %s", c.Method(), c.Path(), status, time.Since(start))
		return err
	}
}
