package formatter

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestTemplateEngine_Parse(t *testing.T) {
	engine := NewTemplateEngine()

	tests := []struct {
		name     string
		template string
		want     []string
		wantErr  bool
	}{
		{
			name:     "empty template",
			template: "",
			want:     []string{},
		},
		{
			name:     "no variables",
			template: "https://example.com/api/v2/tickets/recent.json",
			want:     []string{},
		},
		{
			name:     "underscores in variable names",
			template: "https://{{host}}/api/v2/users/{{user_id}}/group_memberships.json",
			want:     []string{"host", "user_id"},
		},
		{
			name:     "duplicate variables",
			template: "{{count}} and {{count}}",
			want:     []string{"count"},
		},
		{
			name:     "unbalanced delimiters",
			template: "{{host}/x",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.Parse(tt.template)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTemplateEngine_Substitute(t *testing.T) {
	engine := NewTemplateEngine()
	vars := Variables{"count": "3"}

	got, err := engine.Substitute("Your group got {{count}} new tickets", vars)
	require.NoError(t, err)
	require.Equal(t, "Your group got 3 new tickets", got)
}

func TestTemplateEngine_SubstituteEscaped(t *testing.T) {
	engine := NewTemplateEngine()
	vars := Variables{"host": "acme.zendesk.com", "user": "agent one@acme.com"}

	got, err := engine.SubstituteEscaped("https://{{host}}/api/v2/users/search.json?query={{user}}", vars, QueryEscape)
	require.NoError(t, err)
	require.Equal(t, "https://acme.zendesk.com/api/v2/users/search.json?query=agent+one%40acme.com", got)
}

func TestQueryEscapeExceptKeepsRawVariables(t *testing.T) {
	engine := NewTemplateEngine()
	vars := Variables{"host": "127.0.0.1:8443", "user": "a+b@acme.com"}

	got, err := engine.SubstituteEscaped("https://{{host}}/search?query={{user}}", vars, QueryEscapeExcept("host"))
	require.NoError(t, err)
	require.Equal(t, "https://127.0.0.1:8443/search?query=a%2Bb%40acme.com", got)
}

func TestTemplateEngine_UnknownVariable(t *testing.T) {
	engine := NewTemplateEngine()

	_, err := engine.Substitute("https://{{host}}/users/{{user_id}}", Variables{"host": "h"})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrUnknownVariable))
	require.Contains(t, err.Error(), "user_id")
	require.Contains(t, err.Error(), "available: host")
}

func TestVariablesWithDoesNotMutate(t *testing.T) {
	base := Variables{"host": "h"}
	extended := base.With("user_id", "7")

	require.Equal(t, "7", extended["user_id"])
	_, ok := base["user_id"]
	require.False(t, ok)
}
