// Package policy decides what a user may do with a board and everything
// nested under it. Every rule is a pure function of an Access snapshot so
// the handlers stay free of permission conditionals.
package policy

import "github.com/Julz681/KanMind-Backend/internal/apperr"

// Access is a snapshot of one user's relationship to a board.
type Access struct {
	Exists bool
	Member bool
	Owner  bool
}

// Read guards member-level reads and mutations (board detail, columns,
// tickets, comments). Non-members are told not-found so board existence is
// never leaked.
func Read(a Access) error {
	if !a.Exists || !a.Member {
		return apperr.ErrNotFound
	}
	return nil
}

// Manage guards owner-only actions: deleting the board and changing its
// membership. Members who are not the owner get forbidden; non-members get
// not-found, same as Read.
func Manage(a Access) error {
	if err := Read(a); err != nil {
		return err
	}
	if !a.Owner {
		return apperr.ErrForbidden
	}
	return nil
}
