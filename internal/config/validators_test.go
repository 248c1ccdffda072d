package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHostValidator(t *testing.T) {
	v := HostValidator()
	cases := []struct{ in, want string }{
		{"acme.zendesk.com", "acme.zendesk.com"},
		{"https://acme.zendesk.com/", "acme.zendesk.com"},
		{"http://acme.zendesk.com//", "acme.zendesk.com"},
		{"  acme.zendesk.com  ", "acme.zendesk.com"},
		{"", ""},
	}
	for _, tc := range cases {
		got, err := v("host", tc.in, "")
		require.NoError(t, err, tc.in)
		require.Equal(t, tc.want, got, tc.in)
	}

	_, err := v("host", "acme.zendesk.com/agent", "")
	require.Error(t, err)
}

func TestNonNegativeIntValidator(t *testing.T) {
	v := NonNegativeIntValidator()
	got, err := v("alert_timeout", "0", "5")
	require.NoError(t, err)
	require.Equal(t, "0", got)

	got, err = v("alert_timeout", "-1", "5")
	require.NoError(t, err)
	require.Equal(t, "5", got)
}

func TestBoolValidatorNormalizes(t *testing.T) {
	v := BoolValidator()
	got, err := v("debug", "YES", "false")
	require.NoError(t, err)
	require.Equal(t, "true", got)

	got, err = v("debug", "maybe", "false")
	require.NoError(t, err)
	require.Equal(t, "false", got)
}
