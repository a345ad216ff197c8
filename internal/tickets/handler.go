package tickets

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

// AccessStore resolves board access; satisfied by *boards.Repository.
type AccessStore interface {
	Access(ctx context.Context, boardID, userID string) (policy.Access, error)
}

type Handler struct {
	Store   Store
	Columns ColumnStore
	Boards  AccessStore
}

func NewHandler(store Store, columns ColumnStore, boards AccessStore) *Handler {
	return &Handler{Store: store, Columns: columns, Boards: boards}
}

// List returns tickets on the caller's boards; supports ?column= and
// ?assigned_to_me=true.
func (h *Handler) List(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}

	f := Filter{AssignedToMe: strings.EqualFold(c.Query("assigned_to_me"), "true")}
	if columnID := c.Query("column"); columnID != "" {
		if uuid.Validate(columnID) != nil {
			return apperr.ErrNotFound
		}
		f.ColumnID = columnID
	}

	tickets, err := h.Store.ListForUser(c.UserContext(), userID, f)
	if err != nil {
		return err
	}
	return c.JSON(tickets)
}

// AssignedToMe lists tickets where the caller is assignee.
func (h *Handler) AssignedToMe(c *fiber.Ctx) error {
	return h.listFiltered(c, Filter{AssignedToMe: true})
}

// Reviewing lists tickets where the caller is reviewer.
func (h *Handler) Reviewing(c *fiber.Ctx) error {
	return h.listFiltered(c, Filter{Reviewing: true})
}

func (h *Handler) listFiltered(c *fiber.Ctx, f Filter) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}
	tickets, err := h.Store.ListForUser(c.UserContext(), userID, f)
	if err != nil {
		return err
	}
	return c.JSON(tickets)
}

func (h *Handler) Create(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}

	var body createRequest
	if err := c.BodyParser(&body); err != nil {
		return apperr.NewValidation("body", "Invalid JSON body.")
	}

	if uuid.Validate(body.Column) != nil {
		return apperr.NewValidation("column", "A valid column id is required.")
	}
	col, err := h.Columns.Get(c.UserContext(), body.Column)
	if err != nil {
		if err == apperr.ErrNotFound {
			return apperr.NewValidation("column", "Unknown column.")
		}
		return err
	}
	if err := h.memberOf(c, col.BoardID, userID); err != nil {
		return err
	}

	title, err := validTitle(body.Title)
	if err != nil {
		return err
	}
	priority, err := parsePriority(body.Priority)
	if err != nil {
		return err
	}
	due, _, err := parseDueDate(body.DueDate)
	if err != nil {
		return err
	}
	position, err := requestedPosition(body.Position)
	if err != nil {
		return err
	}
	assignee, _, err := h.resolvePerson(c, col.BoardID, body.Assignee, "assignee")
	if err != nil {
		return err
	}
	reviewer, _, err := h.resolvePerson(c, col.BoardID, body.Reviewer, "reviewer")
	if err != nil {
		return err
	}

	ticket, err := h.Store.Create(c.UserContext(), CreateParams{
		ColumnID:    col.ID,
		Title:       title,
		Description: body.Description,
		Priority:    priority,
		DueDate:     due,
		AssigneeID:  assignee,
		ReviewerID:  reviewer,
		Position:    position,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(ticket)
}

func (h *Handler) Retrieve(c *fiber.Ctx) error {
	_, ticket, err := h.load(c)
	if err != nil {
		return err
	}
	return c.JSON(ticket)
}

func (h *Handler) Update(c *fiber.Ctx) error {
	_, ticket, err := h.load(c)
	if err != nil {
		return err
	}

	var body updateRequest
	if err := c.BodyParser(&body); err != nil {
		return apperr.NewValidation("body", "Invalid JSON body.")
	}

	params := UpdateParams{Description: body.Description, Position: body.Position}

	if body.Title != nil {
		title, err := validTitle(*body.Title)
		if err != nil {
			return err
		}
		params.Title = &title
	}
	if body.Priority != nil {
		priority, err := parsePriority(*body.Priority)
		if err != nil {
			return err
		}
		params.Priority = &priority
	}
	if body.Position != nil && *body.Position < 0 {
		return apperr.NewValidation("position", "Position must not be negative.")
	}

	due, clearDue, err := parseDueDate(body.DueDate)
	if err != nil {
		return err
	}
	params.DueDate, params.ClearDueDate = due, clearDue

	params.AssigneeID, params.ClearAssignee, err = h.resolvePerson(c, ticket.BoardID, body.Assignee, "assignee")
	if err != nil {
		return err
	}
	params.ReviewerID, params.ClearReviewer, err = h.resolvePerson(c, ticket.BoardID, body.Reviewer, "reviewer")
	if err != nil {
		return err
	}

	if body.Column != nil && *body.Column != ticket.ColumnID {
		if uuid.Validate(*body.Column) != nil {
			return apperr.NewValidation("column", "A valid column id is required.")
		}
		target, err := h.Columns.Get(c.UserContext(), *body.Column)
		if err != nil {
			if err == apperr.ErrNotFound {
				return apperr.NewValidation("column", "Unknown column.")
			}
			return err
		}
		// Tickets move between columns of one board, never across boards.
		if target.BoardID != ticket.BoardID {
			return apperr.NewValidation("column", "Column must belong to the same board.")
		}
		params.ColumnID = body.Column
	}

	updated, err := h.Store.Update(c.UserContext(), ticket.ID, params)
	if err != nil {
		return err
	}
	return c.JSON(updated)
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	_, ticket, err := h.load(c)
	if err != nil {
		return err
	}
	if err := h.Store.Delete(c.UserContext(), ticket.ID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// load fetches the target ticket and verifies board membership. Tickets on
// hidden boards are reported as absent.
func (h *Handler) load(c *fiber.Ctx) (string, domain.Ticket, error) {
	userID, err := auth.UserID(c)
	if err != nil {
		return "", domain.Ticket{}, err
	}
	id := c.Params("id")
	if uuid.Validate(id) != nil {
		return "", domain.Ticket{}, apperr.ErrNotFound
	}

	ticket, err := h.Store.Get(c.UserContext(), id)
	if err != nil {
		return "", domain.Ticket{}, err
	}
	if err := h.memberOf(c, ticket.BoardID, userID); err != nil {
		return "", domain.Ticket{}, err
	}
	return userID, ticket, nil
}

func (h *Handler) memberOf(c *fiber.Ctx, boardID, userID string) error {
	access, err := h.Boards.Access(c.UserContext(), boardID, userID)
	if err != nil {
		return err
	}
	return policy.Read(access)
}

// resolvePerson validates an assignee/reviewer reference: it must be a
// syntactically valid id and a member of the board. An empty string clears
// the field; nil leaves it untouched.
func (h *Handler) resolvePerson(c *fiber.Ctx, boardID string, raw *string, field string) (*string, bool, error) {
	if raw == nil {
		return nil, false, nil
	}
	id := strings.TrimSpace(*raw)
	if id == "" {
		return nil, true, nil
	}
	if uuid.Validate(id) != nil {
		return nil, false, apperr.NewValidation(field, "Must be a valid user id.")
	}

	access, err := h.Boards.Access(c.UserContext(), boardID, id)
	if err != nil {
		return nil, false, err
	}
	if !access.Member {
		return nil, false, apperr.NewValidation(field, "Must be a member of the board.")
	}
	return &id, false, nil
}

func parsePriority(raw string) (domain.Priority, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return domain.PriorityMedium, nil
	}
	p := domain.Priority(raw)
	if !p.Valid() {
		return "", apperr.NewValidation("priority", "Priority must be one of low, medium, high.")
	}
	return p, nil
}

func parseDueDate(raw *string) (*domain.Date, bool, error) {
	if raw == nil {
		return nil, false, nil
	}
	if strings.TrimSpace(*raw) == "" {
		return nil, true, nil
	}
	d, err := domain.ParseDate(*raw)
	if err != nil {
		return nil, false, apperr.NewValidation("due_date", "Due date must be YYYY-MM-DD.")
	}
	return &d, false, nil
}

func requestedPosition(p *int) (int, error) {
	if p == nil {
		return -1, nil // append
	}
	if *p < 0 {
		return 0, apperr.NewValidation("position", "Position must not be negative.")
	}
	return *p, nil
}

func validTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", apperr.NewValidation("title", "Title must not be empty.")
	}
	return title, nil
}
