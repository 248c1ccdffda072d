package cmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSeenMarkListCount(t *testing.T) {
	out, _ := setupCommandTest(t)
	ctx := context.Background()

	require.NoError(t, executeCommand(ctx, out, "seen", "mark", "#5", "0007"))
	require.Contains(t, out.String(), "Marked 2 ticket(s) as seen")

	out.Reset()
	require.NoError(t, executeCommand(ctx, out, "seen", "count"))
	require.Equal(t, "2\n", out.String())

	out.Reset()
	require.NoError(t, executeCommand(ctx, out, "seen", "list", "--limit", "0"))
	require.Contains(t, out.String(), "TICKET")
	require.Contains(t, out.String(), "5")
	require.Contains(t, out.String(), "7")
	require.Contains(t, out.String(), "2 of 2 acknowledged tickets")

	out.Reset()
	require.NoError(t, executeCommand(ctx, out, "seen", "list", "--limit", "1"))
	require.Contains(t, out.String(), "1 of 2 acknowledged tickets")
}

func TestSeenMarkIsIdempotent(t *testing.T) {
	out, _ := setupCommandTest(t)
	ctx := context.Background()

	require.NoError(t, executeCommand(ctx, out, "seen", "mark", "9"))
	require.NoError(t, executeCommand(ctx, out, "seen", "mark", "9"))

	out.Reset()
	require.NoError(t, executeCommand(ctx, out, "seen", "count"))
	require.Equal(t, "1\n", out.String())
}

func TestSeenMarkRejectsInvalidIDs(t *testing.T) {
	out, _ := setupCommandTest(t)

	err := executeCommand(context.Background(), out, "seen", "mark", "12", "abc")
	require.ErrorIs(t, err, errInvalidTicketID)

	out.Reset()
	require.NoError(t, executeCommand(context.Background(), out, "seen", "count"))
	require.Equal(t, "0\n", out.String(), "nothing is marked when any id is invalid")
}

func TestSeenListEmpty(t *testing.T) {
	out, _ := setupCommandTest(t)

	require.NoError(t, executeCommand(context.Background(), out, "seen", "list", "--limit", "0"))
	require.Equal(t, "No acknowledged tickets\n", out.String())
}

func TestParseTicketIDs(t *testing.T) {
	ids, err := parseTicketIDs([]string{"#12", " 0034 ", "5"})
	require.NoError(t, err)
	require.Equal(t, []string{"12", "34", "5"}, ids)

	for _, bad := range []string{"", "0", "-1", "1.5", "x"} {
		_, err := parseTicketIDs([]string{bad})
		require.ErrorIs(t, err, errInvalidTicketID, bad)
	}
}
