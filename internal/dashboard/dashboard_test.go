package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Julz681/KanMind-Backend/internal/apperr"
	"github.com/Julz681/KanMind-Backend/internal/auth"
)

type fakeStore struct {
	byUser map[string]Summary
}

func (f *fakeStore) Summary(_ context.Context, userID string) (Summary, error) {
	s, ok := f.byUser[userID]
	if !ok {
		return Summary{ByPriority: map[string]int{}, ByColumn: map[string]int{}}, nil
	}
	return s, nil
}

func TestGetSummary(t *testing.T) {
	alice := uuid.NewString()
	store := &fakeStore{byUser: map[string]Summary{
		alice: {
			TicketsTotal: 3,
			BoardsTotal:  2,
			ByPriority:   map[string]int{"high": 1, "medium": 2},
			ByColumn:     map[string]int{"Todo": 2, "Done": 1},
		},
	}}

	tokens := auth.NewTokenService("test-secret", 30*time.Minute, time.Hour)
	app := fiber.New(fiber.Config{ErrorHandler: apperr.ErrorHandler})
	app.Get("/api/kanban/dashboard", auth.Middleware(tokens), NewHandler(store).Get)

	pair, err := tokens.IssuePair(alice)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/kanban/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+pair.Access)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()

	var s Summary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&s))
	require.Equal(t, 3, s.TicketsTotal)
	require.Equal(t, 2, s.BoardsTotal)
	require.Equal(t, 1, s.ByPriority["high"])
	require.Equal(t, 2, s.ByColumn["Todo"])

	// A user with no boards gets empty aggregates, not an error.
	bobPair, err := tokens.IssuePair(uuid.NewString())
	require.NoError(t, err)
	req = httptest.NewRequest("GET", "/api/kanban/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+bobPair.Access)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&s))
	require.Equal(t, 0, s.TicketsTotal)
}
