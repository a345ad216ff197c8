package http

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Julz681/KanMind-Backend/internal/apperr"
	"github.com/Julz681/KanMind-Backend/internal/auth"
	"github.com/Julz681/KanMind-Backend/internal/config"
	"github.com/Julz681/KanMind-Backend/internal/domain"
	"github.com/Julz681/KanMind-Backend/internal/users"
)

// GuestConfig selects how guest identities are provisioned.
type GuestConfig struct {
	Mode     string
	Email    string
	FullName string
}

type AuthHandler struct {
	Users  users.Store
	Tokens *auth.TokenService
	Guest  GuestConfig
}

type signupRequest struct {
	Email            string `json:"email"`
	Password         string `json:"password"`
	RepeatedPassword string `json:"repeated_password"`
	FullName         string `json:"fullname"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type authResponse struct {
	User domain.User `json:"user"`
	auth.TokenPair
}

// Signup creates an account and logs it in right away.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var body signupRequest
	if err := c.BodyParser(&body); err != nil {
		return apperr.NewValidation("body", "Invalid JSON body.")
	}

	v := &apperr.Validation{Fields: map[string][]string{}}
	email := users.NormalizeEmail(body.Email)
	if email == "" || !strings.Contains(email, "@") {
		v.Add("email", "Enter a valid email address.")
	}
	if len(body.Password) < 8 {
		v.Add("password", "Password must be at least 8 characters.")
	}
	if body.RepeatedPassword != "" && body.RepeatedPassword != body.Password {
		v.Add("repeated_password", "Passwords do not match.")
	}
	if strings.TrimSpace(body.FullName) == "" {
		v.Add("fullname", "Full name is required.")
	}
	if !v.Empty() {
		return v
	}

	hash, err := auth.HashPassword(body.Password)
	if err != nil {
		return err
	}

	user, err := h.Users.Create(c.UserContext(), email, strings.TrimSpace(body.FullName), hash, false)
	if err != nil {
		if err == users.ErrDuplicateEmail {
			return apperr.NewValidation("email", "Email already registered.")
		}
		return err
	}

	pair, err := h.Tokens.IssuePair(user.ID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(authResponse{User: user, TokenPair: pair})
}

// Login exchanges credentials for a token pair. Unknown email and wrong
// password fail identically so user existence is not leaked.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var body loginRequest
	if err := c.BodyParser(&body); err != nil {
		return apperr.NewValidation("body", "Invalid JSON body.")
	}

	user, err := h.Users.GetByEmail(c.UserContext(), body.Email)
	if err != nil || !auth.CheckPassword(user.PasswordHash, body.Password) {
		return apperr.Unauthorized("invalid credentials")
	}

	pair, err := h.Tokens.IssuePair(user.ID)
	if err != nil {
		return err
	}
	return c.JSON(authResponse{User: user, TokenPair: pair})
}

// Refresh mints a new access token from a valid refresh token.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var body refreshRequest
	if err := c.BodyParser(&body); err != nil {
		return apperr.NewValidation("body", "Invalid JSON body.")
	}
	if strings.TrimSpace(body.RefreshToken) == "" {
		return apperr.NewValidation("refresh_token", "Refresh token is required.")
	}

	access, err := h.Tokens.Refresh(body.RefreshToken)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"access_token": access})
}

// GuestLogin issues a token pair for a guest identity: the pooled demo
// account, or a fresh throwaway user in ephemeral mode.
func (h *AuthHandler) GuestLogin(c *fiber.Ctx) error {
	user, err := h.guestUser(c)
	if err != nil {
		return err
	}

	pair, err := h.Tokens.IssuePair(user.ID)
	if err != nil {
		return err
	}
	return c.JSON(authResponse{User: user, TokenPair: pair})
}

func (h *AuthHandler) guestUser(c *fiber.Ctx) (domain.User, error) {
	if h.Guest.Mode == config.GuestEphemeral {
		email := fmt.Sprintf("guest-%s@guests.invalid", uuid.NewString())
		return h.createGuest(c, email)
	}

	user, err := h.Users.GetByEmail(c.UserContext(), h.Guest.Email)
	if err == apperr.ErrNotFound {
		return h.createGuest(c, h.Guest.Email)
	}
	return user, err
}

func (h *AuthHandler) createGuest(c *fiber.Ctx, email string) (domain.User, error) {
	// Guests get a random password that can never be used to log in.
	hash, err := auth.HashPassword(uuid.NewString())
	if err != nil {
		return domain.User{}, err
	}
	return h.Users.Create(c.UserContext(), email, h.Guest.FullName, hash, true)
}

// EmailCheck reports whether an account exists for the given email.
func (h *AuthHandler) EmailCheck(c *fiber.Ctx) error {
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		return apperr.NewValidation("email", "Missing email.")
	}

	user, err := h.Users.GetByEmail(c.UserContext(), email)
	if err != nil {
		return err
	}
	return c.JSON(user.Mini())
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}
	user, err := h.Users.GetByID(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(user)
}
