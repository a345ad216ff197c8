package comments

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Julz681/KanMind-Backend/internal/apperr"
	"github.com/Julz681/KanMind-Backend/internal/auth"
	"github.com/Julz681/KanMind-Backend/internal/domain"
	"github.com/Julz681/KanMind-Backend/internal/policy"
)

type commentEnv struct {
	tickets  map[string]domain.Ticket
	members  map[string]map[string]bool
	owners   map[string]string
	users    map[string]domain.UserMini
	comments map[string]domain.Comment
}

func newCommentEnv() *commentEnv {
	return &commentEnv{
		tickets:  map[string]domain.Ticket{},
		members:  map[string]map[string]bool{},
		owners:   map[string]string{},
		users:    map[string]domain.UserMini{},
		comments: map[string]domain.Comment{},
	}
}

func (e *commentEnv) addUser(fullname string) string {
	id := uuid.NewString()
	e.users[id] = domain.UserMini{ID: id, Email: fullname + "@example.com", FullName: fullname}
	return id
}

func (e *commentEnv) addBoard(ownerID string) string {
	id := uuid.NewString()
	e.owners[id] = ownerID
	e.members[id] = map[string]bool{ownerID: true}
	return id
}

func (e *commentEnv) addTicket(boardID, title string) domain.Ticket {
	t := domain.Ticket{ID: uuid.NewString(), BoardID: boardID, ColumnID: uuid.NewString(), Title: title}
	e.tickets[t.ID] = t
	return t
}

type fakeStore struct{ env *commentEnv }

func (f *fakeStore) ListByTicket(_ context.Context, ticketID string) ([]domain.Comment, error) {
	out := []domain.Comment{}
	for _, cm := range f.env.comments {
		if cm.TicketID == ticketID {
			out = append(out, cm)
		}
	}
	return out, nil
}

func (f *fakeStore) Create(_ context.Context, ticketID, authorID, content string) (domain.Comment, error) {
	cm := domain.Comment{
		ID:        uuid.NewString(),
		TicketID:  ticketID,
		Author:    f.env.users[authorID],
		Content:   content,
		CreatedAt: time.Now(),
	}
	f.env.comments[cm.ID] = cm
	return cm, nil
}

func (f *fakeStore) Get(_ context.Context, id string) (domain.Comment, error) {
	cm, ok := f.env.comments[id]
	if !ok {
		return domain.Comment{}, apperr.ErrNotFound
	}
	return cm, nil
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	delete(f.env.comments, id)
	return nil
}

type fakeTickets struct{ env *commentEnv }

func (f *fakeTickets) Get(_ context.Context, id string) (domain.Ticket, error) {
	t, ok := f.env.tickets[id]
	if !ok {
		return domain.Ticket{}, apperr.ErrNotFound
	}
	return t, nil
}

type fakeAccess struct{ env *commentEnv }

func (f *fakeAccess) Access(_ context.Context, boardID, userID string) (policy.Access, error) {
	owner, ok := f.env.owners[boardID]
	if !ok {
		return policy.Access{}, nil
	}
	return policy.Access{
		Exists: true,
		Member: f.env.members[boardID][userID],
		Owner:  owner == userID,
	}, nil
}

func newTestApp(env *commentEnv) (*fiber.App, *auth.TokenService) {
	tokens := auth.NewTokenService("test-secret", 30*time.Minute, time.Hour)
	app := fiber.New(fiber.Config{ErrorHandler: apperr.ErrorHandler})
	h := NewHandler(&fakeStore{env: env}, &fakeTickets{env: env}, &fakeAccess{env: env})
	mw := auth.Middleware(tokens)
	app.Get("/api/kanban/tickets/:id/comments", mw, h.List)
	app.Post("/api/kanban/tickets/:id/comments", mw, h.Create)
	app.Delete("/api/kanban/tickets/:id/comments/:commentID", mw, h.Delete)
	return app, tokens
}

func bearer(t *testing.T, tokens *auth.TokenService, userID string) string {
	t.Helper()
	pair, err := tokens.IssuePair(userID)
	require.NoError(t, err)
	return "Bearer " + pair.Access
}

func doJSON(t *testing.T, app *fiber.App, method, path, authz string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestCreateAndListComments(t *testing.T) {
	env := newCommentEnv()
	app, tokens := newTestApp(env)
	alice := env.addUser("Alice")
	bob := env.addUser("Bob")
	board := env.addBoard(alice)
	ticket := env.addTicket(board, "Fix bug")
	path := "/api/kanban/tickets/" + ticket.ID + "/comments"

	resp := doJSON(t, app, "POST", path, bearer(t, tokens, alice), fiber.Map{"content": "On it."})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created domain.Comment
	decode(t, resp, &created)
	require.Equal(t, "On it.", created.Content)
	require.Equal(t, alice, created.Author.ID)
	require.Equal(t, "Alice", created.Author.FullName)

	resp = doJSON(t, app, "GET", path, bearer(t, tokens, alice), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []domain.Comment
	decode(t, resp, &list)
	require.Len(t, list, 1)

	// The whole comment surface is hidden from non-members.
	resp = doJSON(t, app, "GET", path, bearer(t, tokens, bob), nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp = doJSON(t, app, "POST", path, bearer(t, tokens, bob), fiber.Map{"content": "Hi"})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateCommentValidation(t *testing.T) {
	env := newCommentEnv()
	app, tokens := newTestApp(env)
	alice := env.addUser("Alice")
	board := env.addBoard(alice)
	ticket := env.addTicket(board, "Fix bug")

	resp := doJSON(t, app, "POST", "/api/kanban/tickets/"+ticket.ID+"/comments", bearer(t, tokens, alice), fiber.Map{"content": "   "})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var fields map[string][]string
	decode(t, resp, &fields)
	require.Contains(t, fields, "content")

	resp = doJSON(t, app, "POST", "/api/kanban/tickets/"+uuid.NewString()+"/comments", bearer(t, tokens, alice), fiber.Map{"content": "Hello"})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteCommentAuthorOnly(t *testing.T) {
	env := newCommentEnv()
	app, tokens := newTestApp(env)
	alice := env.addUser("Alice")
	carol := env.addUser("Carol")
	board := env.addBoard(alice)
	env.members[board][carol] = true
	ticket := env.addTicket(board, "Fix bug")

	store := &fakeStore{env: env}
	comment, err := store.Create(context.Background(), ticket.ID, alice, "Mine")
	require.NoError(t, err)
	path := "/api/kanban/tickets/" + ticket.ID + "/comments/" + comment.ID

	// A member who is not the author may not delete, even the board owner's
	// comments stay the author's own.
	resp := doJSON(t, app, "DELETE", path, bearer(t, tokens, carol), nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, app, "DELETE", path, bearer(t, tokens, alice), nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Empty(t, env.comments)
}

func TestDeleteCommentWrongTicket(t *testing.T) {
	env := newCommentEnv()
	app, tokens := newTestApp(env)
	alice := env.addUser("Alice")
	board := env.addBoard(alice)
	ticket := env.addTicket(board, "Fix bug")
	other := env.addTicket(board, "Another")

	store := &fakeStore{env: env}
	comment, err := store.Create(context.Background(), ticket.ID, alice, "Mine")
	require.NoError(t, err)

	// A comment addressed under the wrong ticket is absent.
	resp := doJSON(t, app, "DELETE", "/api/kanban/tickets/"+other.ID+"/comments/"+comment.ID, bearer(t, tokens, alice), nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Len(t, env.comments, 1)
}
