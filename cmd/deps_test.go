package cmd

import (
	"net/http"
	"testing"

	"github.com/cristianoliveira/zendesk-intray/internal/config"
	"github.com/stretchr/testify/require"
)

func TestAPIHTTPClientHasNoCallTimeout(t *testing.T) {
	client := apiHTTPClient()
	require.Zero(t, client.Timeout)
	require.Same(t, http.DefaultTransport, client.Transport)
}

func TestNewAPIClientFromConfig(t *testing.T) {
	_, _ = setupCommandTest(t)
	t.Setenv("ZENDESK_INTRAY_HOST", "acme.zendesk.com")
	t.Setenv("ZENDESK_INTRAY_USER", "agent@acme.com")
	t.Setenv("ZENDESK_INTRAY_API_KEY", "agent@acme.com/token:secret")
	config.Load()

	api, err := newAPIClient()
	require.NoError(t, err)
	link, err := api.QueueURL()
	require.NoError(t, err)
	require.Contains(t, link, "https://acme.zendesk.com/rules/search")
}
