package boards

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Julz681/KanMind-Backend/internal/apperr"
	"github.com/Julz681/KanMind-Backend/internal/auth"
	"github.com/Julz681/KanMind-Backend/internal/policy"
)

type Handler struct {
	Store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{Store: store}
}

// List returns the boards the caller is a member of.
func (h *Handler) List(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}

	boards, err := h.Store.ListForUser(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(boards)
}

// Create makes the caller owner (and implicit member) of a new board.
func (h *Handler) Create(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}

	var body createRequest
	if err := c.BodyParser(&body); err != nil {
		return apperr.NewValidation("body", "Invalid JSON body.")
	}
	title, err := validTitle(body.Title)
	if err != nil {
		return err
	}

	board, err := h.Store.Create(c.UserContext(), title, userID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(board)
}

// Retrieve returns the full board tree for members; non-members get 404.
func (h *Handler) Retrieve(c *fiber.Ctx) error {
	userID, boardID, err := h.resolve(c)
	if err != nil {
		return err
	}

	access, err := h.Store.Access(c.UserContext(), boardID, userID)
	if err != nil {
		return err
	}
	if err := policy.Read(access); err != nil {
		return err
	}

	detail, err := h.Store.Detail(c.UserContext(), boardID)
	if err != nil {
		return err
	}
	return c.JSON(detail)
}

// Update patches the title (any member) and/or replaces the member set
// (owner only).
func (h *Handler) Update(c *fiber.Ctx) error {
	userID, boardID, err := h.resolve(c)
	if err != nil {
		return err
	}

	var body updateRequest
	if err := c.BodyParser(&body); err != nil {
		return apperr.NewValidation("body", "Invalid JSON body.")
	}

	access, err := h.Store.Access(c.UserContext(), boardID, userID)
	if err != nil {
		return err
	}
	if body.Members != nil {
		if err := policy.Manage(access); err != nil {
			return err
		}
	} else if err := policy.Read(access); err != nil {
		return err
	}

	if body.Title != nil {
		title, err := validTitle(*body.Title)
		if err != nil {
			return err
		}
		if err := h.Store.UpdateTitle(c.UserContext(), boardID, title); err != nil {
			return err
		}
	}

	if body.Members != nil {
		for _, id := range *body.Members {
			if uuid.Validate(id) != nil {
				return apperr.NewValidation("members", "Member ids must be valid UUIDs.")
			}
		}
		board, err := h.Store.Get(c.UserContext(), boardID)
		if err != nil {
			return err
		}
		if err := h.Store.ReplaceMembers(c.UserContext(), boardID, board.OwnerID, *body.Members); err != nil {
			if err == ErrUnknownMember {
				return apperr.NewValidation("members", "All members must be existing users.")
			}
			return err
		}
	}

	detail, err := h.Store.Detail(c.UserContext(), boardID)
	if err != nil {
		return err
	}
	return c.JSON(detail)
}

// Delete removes the board; owner only.
func (h *Handler) Delete(c *fiber.Ctx) error {
	userID, boardID, err := h.resolve(c)
	if err != nil {
		return err
	}

	access, err := h.Store.Access(c.UserContext(), boardID, userID)
	if err != nil {
		return err
	}
	if err := policy.Manage(access); err != nil {
		return err
	}

	if err := h.Store.Delete(c.UserContext(), boardID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) resolve(c *fiber.Ctx) (userID, boardID string, err error) {
	userID, err = auth.UserID(c)
	if err != nil {
		return "", "", err
	}
	boardID = c.Params("id")
	// Malformed ids are indistinguishable from absent boards.
	if uuid.Validate(boardID) != nil {
		return "", "", apperr.ErrNotFound
	}
	return userID, boardID, nil
}

func validTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if len(title) < 3 || len(title) > 63 {
		return "", apperr.NewValidation("title", "Title must be between 3 and 63 characters.")
	}
	return title, nil
}
