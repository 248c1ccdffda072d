// Package zendesk is a read-only client for the helpdesk ticketing API.
package zendesk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cristianoliveira/zendesk-intray/internal/colors"
	"github.com/cristianoliveira/zendesk-intray/internal/formatter"
	"github.com/cristianoliveira/zendesk-intray/internal/version"
)

// urlEscaper leaves the host (which may carry a port) untouched and query-escapes the rest.
var urlEscaper = formatter.QueryEscapeExcept("host")

// Client issues templated GET requests and decodes their JSON bodies. It owns no state
// besides its configuration.
type Client struct {
	httpClient *http.Client
	engine     formatter.TemplateEngine
	endpoints  Endpoints
	vars       formatter.Variables
	login      string
	secret     string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithEndpoints replaces the default endpoint templates.
func WithEndpoints(e Endpoints) ClientOption {
	return func(c *Client) {
		c.endpoints = e
	}
}

// NewClient builds a client from configuration values. vars must hold api_key, which is
// split on its first colon into the basic-auth pair; every value is a template variable.
func NewClient(vars map[string]string, opts ...ClientOption) (*Client, error) {
	login, secret, ok := strings.Cut(vars["api_key"], ":")
	if !ok {
		return nil, ErrInvalidCredentials
	}
	c := &Client{
		httpClient: &http.Client{},
		engine:     formatter.NewTemplateEngine(),
		endpoints:  DefaultEndpoints(),
		vars:       formatter.Variables(vars).With(),
		login:      login,
		secret:     secret,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Fetch fills template with the client's variables plus extra, GETs the URL and decodes
// the JSON body into out. Any failure is a *RequestError.
func (c *Client) Fetch(ctx context.Context, op, template string, extra formatter.Variables, out any) error {
	vars := c.vars
	if len(extra) > 0 {
		vars = c.vars.With()
		for k, v := range extra {
			vars[k] = v
		}
	}
	uri, err := c.engine.SubstituteEscaped(template, vars, urlEscaper)
	if err != nil {
		return &RequestError{Op: op, URL: template, Err: err}
	}

	start := time.Now()
	colors.StructuredDebug("zendesk", op, "started", nil, "", map[string]interface{}{"url": uri})
	err = c.get(ctx, op, uri, out)
	fields := map[string]interface{}{"url": uri, "duration_seconds": time.Since(start).Seconds()}
	if err != nil {
		colors.StructuredError("zendesk", op, "failed", err, "", fields)
		return err
	}
	colors.StructuredDebug("zendesk", op, "completed", nil, "", fields)
	return nil
}

func (c *Client) get(ctx context.Context, op, uri string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return &RequestError{Op: op, URL: uri, Err: err}
	}
	req.SetBasicAuth(c.login, c.secret)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &RequestError{Op: op, URL: uri, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &RequestError{
			Op:         op,
			URL:        uri,
			StatusCode: resp.StatusCode,
			Err:        errors.New(strings.TrimSpace(http.StatusText(resp.StatusCode) + " " + string(body))),
		}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &RequestError{Op: op, URL: uri, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// SearchUsers runs the user search with the configured search term.
func (c *Client) SearchUsers(ctx context.Context) (UserSearch, error) {
	var res UserSearch
	if err := c.Fetch(ctx, "search users", c.endpoints.Users, nil, &res); err != nil {
		return UserSearch{}, err
	}
	return res, nil
}

// ResolveUser returns the single user matching the configured search term.
// A count other than exactly one is an *IdentityError.
func (c *Client) ResolveUser(ctx context.Context) (User, error) {
	res, err := c.SearchUsers(ctx)
	if err != nil {
		return User{}, err
	}
	query := c.vars["user"]
	if res.Count != 1 {
		return User{}, &IdentityError{Query: query, Count: res.Count}
	}
	if len(res.Users) == 0 {
		return User{}, &IdentityError{Query: query, Count: 0}
	}
	return res.Users[0], nil
}

// GroupMemberships lists the group memberships of userID.
func (c *Client) GroupMemberships(ctx context.Context, userID string) ([]GroupMembership, error) {
	var res groupMembershipsResponse
	extra := formatter.Variables{"user_id": userID}
	if err := c.Fetch(ctx, "list group memberships", c.endpoints.Groups, extra, &res); err != nil {
		return nil, err
	}
	return res.GroupMemberships, nil
}

// RecentTickets lists the recently updated tickets visible to the authenticated agent.
func (c *Client) RecentTickets(ctx context.Context) ([]Ticket, error) {
	var res ticketsResponse
	if err := c.Fetch(ctx, "list recent tickets", c.endpoints.Tickets, nil, &res); err != nil {
		return nil, err
	}
	return res.Tickets, nil
}

// QueueURL returns the "open tickets in my groups" view link with configuration substituted.
func (c *Client) QueueURL() (string, error) {
	return c.engine.SubstituteEscaped(c.endpoints.View, c.vars, urlEscaper)
}
