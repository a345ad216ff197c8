package comments

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Julz681/KanMind-Backend/internal/apperr"
	"github.com/Julz681/KanMind-Backend/internal/auth"
	"github.com/Julz681/KanMind-Backend/internal/domain"
	"github.com/Julz681/KanMind-Backend/internal/policy"
)

// TicketStore resolves the parent ticket; satisfied by *tickets.Repository.
type TicketStore interface {
	Get(ctx context.Context, id string) (domain.Ticket, error)
}

// AccessStore resolves board access; satisfied by *boards.Repository.
type AccessStore interface {
	Access(ctx context.Context, boardID, userID string) (policy.Access, error)
}

type createRequest struct {
	Content string `json:"content"`
}

type Handler struct {
	Store   Store
	Tickets TicketStore
	Boards  AccessStore
}

func NewHandler(store Store, tickets TicketStore, boards AccessStore) *Handler {
	return &Handler{Store: store, Tickets: tickets, Boards: boards}
}

// List returns the comments of a ticket, members only.
func (h *Handler) List(c *fiber.Ctx) error {
	_, ticket, err := h.loadTicket(c)
	if err != nil {
		return err
	}

	comments, err := h.Store.ListByTicket(c.UserContext(), ticket.ID)
	if err != nil {
		return err
	}
	return c.JSON(comments)
}

// Create adds a comment authored by the caller.
func (h *Handler) Create(c *fiber.Ctx) error {
	userID, ticket, err := h.loadTicket(c)
	if err != nil {
		return err
	}

	var body createRequest
	if err := c.BodyParser(&body); err != nil {
		return apperr.NewValidation("body", "Invalid JSON body.")
	}
	content := strings.TrimSpace(body.Content)
	if content == "" {
		return apperr.NewValidation("content", "Content required.")
	}

	comment, err := h.Store.Create(c.UserContext(), ticket.ID, userID, content)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// Delete removes a comment; only its author may do so.
func (h *Handler) Delete(c *fiber.Ctx) error {
	userID, ticket, err := h.loadTicket(c)
	if err != nil {
		return err
	}

	commentID := c.Params("commentID")
	if uuid.Validate(commentID) != nil {
		return apperr.ErrNotFound
	}
	comment, err := h.Store.Get(c.UserContext(), commentID)
	if err != nil {
		return err
	}
	if comment.TicketID != ticket.ID {
		return apperr.ErrNotFound
	}
	if comment.Author.ID != userID {
		return apperr.ErrForbidden
	}

	if err := h.Store.Delete(c.UserContext(), commentID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) loadTicket(c *fiber.Ctx) (string, domain.Ticket, error) {
	userID, err := auth.UserID(c)
	if err != nil {
		return "", domain.Ticket{}, err
	}
	ticketID := c.Params("id")
	if uuid.Validate(ticketID) != nil {
		return "", domain.Ticket{}, apperr.ErrNotFound
	}

	ticket, err := h.Tickets.Get(c.UserContext(), ticketID)
	if err != nil {
		return "", domain.Ticket{}, err
	}

	access, err := h.Boards.Access(c.UserContext(), ticket.BoardID, userID)
	if err != nil {
		return "", domain.Ticket{}, err
	}
	if err := policy.Read(access); err != nil {
		return "", domain.Ticket{}, err
	}
	return userID, ticket, nil
}
