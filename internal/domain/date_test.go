package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDateJSON(t *testing.T) {
	d, err := ParseDate("2026-09-01")
	require.NoError(t, err)

	b, err := json.Marshal(d)
	require.NoError(t, err)
	require.Equal(t, `"2026-09-01"`, string(b))

	var back Date
	require.NoError(t, json.Unmarshal(b, &back))
	require.Equal(t, d.String(), back.String())
}

func TestParseDateRejectsOtherLayouts(t *testing.T) {
	for _, s := range []string{"tomorrow", "2026/09/01", "01-09-2026", "2026-13-01", ""} {
		_, err := ParseDate(s)
		require.Error(t, err, s)
	}
}

func TestDateInsideTicketPayload(t *testing.T) {
	var ticket Ticket
	payload := `{"title": "Fix bug", "due_date": "2026-09-01", "priority": "high"}`
	require.NoError(t, json.Unmarshal([]byte(payload), &ticket))
	require.NotNil(t, ticket.DueDate)
	require.Equal(t, "2026-09-01", ticket.DueDate.String())
	require.True(t, ticket.Priority.Valid())
}
