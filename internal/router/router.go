package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Julz681/KanMind-Backend/internal/boards"
	"github.com/Julz681/KanMind-Backend/internal/columns"
	"github.com/Julz681/KanMind-Backend/internal/comments"
	"github.com/Julz681/KanMind-Backend/internal/dashboard"
	handlers "github.com/Julz681/KanMind-Backend/internal/http"
	"github.com/Julz681/KanMind-Backend/internal/tickets"
)

type Router struct {
	AuthHandler      *handlers.AuthHandler
	BoardHandler     *boards.Handler
	ColumnHandler    *columns.Handler
	TicketHandler    *tickets.Handler
	CommentHandler   *comments.Handler
	DashboardHandler *dashboard.Handler
	AuthMW           fiber.Handler
}

// RegisterRoutes wires the HTTP surface. Fiber's non-strict routing makes
// the Django-style trailing slashes equivalent to the bare paths.
func (r *Router) RegisterRoutes(app *fiber.App) {
	app.Post("/api/auth/signup", r.AuthHandler.Signup)
	app.Post("/api/auth/login", r.AuthHandler.Login)
	app.Post("/api/auth/token/refresh", r.AuthHandler.Refresh)
	app.Post("/api/auth/guest-login", r.AuthHandler.GuestLogin)
	app.Get("/api/auth/email-check", r.AuthHandler.EmailCheck)

	app.Get("/api/me", r.AuthMW, r.AuthHandler.Me)

	app.Get("/api/kanban/boards", r.AuthMW, r.BoardHandler.List)
	app.Post("/api/kanban/boards", r.AuthMW, r.BoardHandler.Create)
	app.Get("/api/kanban/boards/:id", r.AuthMW, r.BoardHandler.Retrieve)
	app.Patch("/api/kanban/boards/:id", r.AuthMW, r.BoardHandler.Update)
	app.Delete("/api/kanban/boards/:id", r.AuthMW, r.BoardHandler.Delete)

	app.Get("/api/kanban/columns", r.AuthMW, r.ColumnHandler.List)
	app.Post("/api/kanban/columns", r.AuthMW, r.ColumnHandler.Create)
	app.Get("/api/kanban/columns/:id", r.AuthMW, r.ColumnHandler.Retrieve)
	app.Patch("/api/kanban/columns/:id", r.AuthMW, r.ColumnHandler.Update)
	app.Delete("/api/kanban/columns/:id", r.AuthMW, r.ColumnHandler.Delete)

	// Fixed paths before the :id wildcard.
	app.Get("/api/kanban/tickets/assigned-to-me", r.AuthMW, r.TicketHandler.AssignedToMe)
	app.Get("/api/kanban/tickets/reviewing", r.AuthMW, r.TicketHandler.Reviewing)
	app.Get("/api/kanban/tickets", r.AuthMW, r.TicketHandler.List)
	app.Post("/api/kanban/tickets", r.AuthMW, r.TicketHandler.Create)
	app.Get("/api/kanban/tickets/:id", r.AuthMW, r.TicketHandler.Retrieve)
	app.Patch("/api/kanban/tickets/:id", r.AuthMW, r.TicketHandler.Update)
	app.Delete("/api/kanban/tickets/:id", r.AuthMW, r.TicketHandler.Delete)

	app.Get("/api/kanban/tickets/:id/comments", r.AuthMW, r.CommentHandler.List)
	app.Post("/api/kanban/tickets/:id/comments", r.AuthMW, r.CommentHandler.Create)
	app.Delete("/api/kanban/tickets/:id/comments/:commentID", r.AuthMW, r.CommentHandler.Delete)

	app.Get("/api/kanban/dashboard", r.AuthMW, r.DashboardHandler.Get)
}
