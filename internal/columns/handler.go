package columns

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Julz681/KanMind-Backend/internal/apperr"
	"github.com/Julz681/KanMind-Backend/internal/auth"
	"github.com/Julz681/KanMind-Backend/internal/domain"
	"github.com/Julz681/KanMind-Backend/internal/policy"
)

type createRequest struct {
	Board    string `json:"board"`
	Title    string `json:"title"`
	Position *int   `json:"position"`
}

type updateRequest struct {
	Title    *string `json:"title"`
	Position *int    `json:"position"`
}

type Handler struct {
	Store  Store
	Boards AccessStore
}

func NewHandler(store Store, boards AccessStore) *Handler {
	return &Handler{Store: store, Boards: boards}
}

// List returns the caller's columns, optionally filtered by ?board=.
func (h *Handler) List(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}

	if boardID := c.Query("board"); boardID != "" {
		if uuid.Validate(boardID) != nil {
			return apperr.ErrNotFound
		}
		if err := h.memberOf(c, boardID, userID); err != nil {
			return err
		}
		cols, err := h.Store.ListByBoard(c.UserContext(), boardID)
		if err != nil {
			return err
		}
		return c.JSON(cols)
	}

	cols, err := h.Store.ListForUser(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(cols)
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
	if uuid.Validate(body.Board) != nil {
		return apperr.NewValidation("board", "A valid board id is required.")
	}
	title, err := validTitle(body.Title)
	if err != nil {
		return err
	}
	position, err := requestedPosition(body.Position)
	if err != nil {
		return err
	}

	if err := h.memberOf(c, body.Board, userID); err != nil {
		return err
	}

	col, err := h.Store.Create(c.UserContext(), body.Board, title, position)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(col)
}

func (h *Handler) Retrieve(c *fiber.Ctx) error {
	_, col, err := h.load(c)
	if err != nil {
		return err
	}
	return c.JSON(col)
}

func (h *Handler) Update(c *fiber.Ctx) error {
	_, col, err := h.load(c)
	if err != nil {
		return err
	}

	var body updateRequest
	if err := c.BodyParser(&body); err != nil {
		return apperr.NewValidation("body", "Invalid JSON body.")
	}
	if body.Title != nil {
		title, err := validTitle(*body.Title)
		if err != nil {
			return err
		}
		body.Title = &title
	}
	if body.Position != nil && *body.Position < 0 {
		return apperr.NewValidation("position", "Position must not be negative.")
	}

	updated, err := h.Store.Update(c.UserContext(), col.ID, body.Title, body.Position)
	if err != nil {
		return err
	}
	return c.JSON(updated)
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	_, col, err := h.load(c)
	if err != nil {
		return err
	}
	if err := h.Store.Delete(c.UserContext(), col.ID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// load fetches the target column and verifies board membership. Columns on
// boards the caller cannot see are reported as absent.
func (h *Handler) load(c *fiber.Ctx) (string, domain.Column, error) {
	userID, err := auth.UserID(c)
	if err != nil {
		return "", domain.Column{}, err
	}
	id := c.Params("id")
	if uuid.Validate(id) != nil {
		return "", domain.Column{}, apperr.ErrNotFound
	}

	col, err := h.Store.Get(c.UserContext(), id)
	if err != nil {
		return "", domain.Column{}, err
	}
	if err := h.memberOf(c, col.BoardID, userID); err != nil {
		return "", domain.Column{}, err
	}
	return userID, col, nil
}

func (h *Handler) memberOf(c *fiber.Ctx, boardID, userID string) error {
	access, err := h.Boards.Access(c.UserContext(), boardID, userID)
	if err != nil {
		return err
	}
	return policy.Read(access)
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
