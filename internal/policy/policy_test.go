package policy

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Julz681/KanMind-Backend/internal/apperr"
)

func TestRead(t *testing.T) {
	tests := []struct {
		name   string
		access Access
		want   error
	}{
		{"owner", Access{Exists: true, Member: true, Owner: true}, nil},
		{"member", Access{Exists: true, Member: true}, nil},
		{"non-member sees not-found", Access{Exists: true}, apperr.ErrNotFound},
		{"absent board", Access{}, apperr.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Read(tt.access))
		})
	}
}

func TestManage(t *testing.T) {
	tests := []struct {
		name   string
		access Access
		want   error
	}{
		{"owner", Access{Exists: true, Member: true, Owner: true}, nil},
		{"member gets forbidden", Access{Exists: true, Member: true}, apperr.ErrForbidden},
		{"non-member sees not-found, not forbidden", Access{Exists: true}, apperr.ErrNotFound},
		{"absent board", Access{}, apperr.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Manage(tt.access))
		})
	}
}
