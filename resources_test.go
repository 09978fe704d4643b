package mailhook

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stream adapts a streaming call to the resource test table.
func stream(rc io.ReadCloser, err error) (*Response, error) {
	if err != nil {
		return nil, err
	}
	return nil, rc.Close()
}

func TestResources_Endpoints(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		call   func(*Client) (*Response, error)
		method string
		path   string
		query  url.Values
		body   map[string]any
	}{
		// agents
		{
			name:   "agents register",
			call:   func(c *Client) (*Response, error) { return c.Agents.Register(ctx, "support-bot") },
			method: "POST", path: "agents/register",
			body: map[string]any{"name": "support-bot"},
		},
		{
			name:   "agents me",
			call:   func(c *Client) (*Response, error) { return c.Agents.Me(ctx) },
			method: "GET", path: "agents/me",
		},
		{
			name:   "agents upgrade",
			call:   func(c *Client) (*Response, error) { return c.Agents.Upgrade(ctx) },
			method: "POST", path: "agents/upgrade",
		},
		{
			name:   "agents upgrade status",
			call:   func(c *Client) (*Response, error) { return c.Agents.UpgradeStatus(ctx) },
			method: "GET", path: "agents/upgrade/status",
		},
		{
			name:   "agents deactivate",
			call:   func(c *Client) (*Response, error) { return c.Agents.Deactivate(ctx) },
			method: "DELETE", path: "agents/me",
		},

		// domains
		{
			name:   "domains create",
			call:   func(c *Client) (*Response, error) { return c.Domains.Create(ctx, "mycompany") },
			method: "POST", path: "domains",
			body: map[string]any{"domain_type": "shared", "tailme_slug": "mycompany"},
		},
		{
			name:   "domains list",
			call:   func(c *Client) (*Response, error) { return c.Domains.List(ctx, nil) },
			method: "GET", path: "domains",
		},
		{
			name: "domains list paginated",
			call: func(c *Client) (*Response, error) {
				return c.Domains.List(ctx, &ListOptions{Page: 2, PerPage: 50})
			},
			method: "GET", path: "domains",
			query: url.Values{"page": {"2"}, "per_page": {"50"}},
		},
		{
			name:   "domains retrieve",
			call:   func(c *Client) (*Response, error) { return c.Domains.Retrieve(ctx, "12") },
			method: "GET", path: "domains/12",
		},
		{
			name:   "domains delete",
			call:   func(c *Client) (*Response, error) { return c.Domains.Delete(ctx, "12") },
			method: "DELETE", path: "domains/12",
		},
		{
			name:   "domains check slug",
			call:   func(c *Client) (*Response, error) { return c.Domains.CheckSlug(ctx, "mycompany") },
			method: "GET", path: "domains/check_slug",
			query: url.Values{"slug": {"mycompany"}},
		},

		// email addresses
		{
			name:   "email addresses create",
			call:   func(c *Client) (*Response, error) { return c.EmailAddresses.Create(ctx, "d1", "support") },
			method: "POST", path: "email_addresses",
			body: map[string]any{"domain_id": "d1", "local_part": "support"},
		},
		{
			name:   "email addresses create random",
			call:   func(c *Client) (*Response, error) { return c.EmailAddresses.CreateRandom(ctx, "d1") },
			method: "POST", path: "email_addresses/random",
			body: map[string]any{"domain_id": "d1"},
		},
		{
			name: "email addresses list",
			call: func(c *Client) (*Response, error) {
				return c.EmailAddresses.List(ctx, &EmailAddressListOptions{
					DomainID:    "d1",
					ListOptions: ListOptions{PerPage: 10},
				})
			},
			method: "GET", path: "email_addresses",
			query: url.Values{"domain_id": {"d1"}, "per_page": {"10"}},
		},
		{
			name:   "email addresses list unfiltered",
			call:   func(c *Client) (*Response, error) { return c.EmailAddresses.List(ctx, nil) },
			method: "GET", path: "email_addresses",
		},
		{
			name:   "email addresses retrieve",
			call:   func(c *Client) (*Response, error) { return c.EmailAddresses.Retrieve(ctx, "7") },
			method: "GET", path: "email_addresses/7",
		},
		{
			name:   "email addresses delete",
			call:   func(c *Client) (*Response, error) { return c.EmailAddresses.Delete(ctx, "7") },
			method: "DELETE", path: "email_addresses/7",
		},
		{
			name: "email addresses batch create",
			call: func(c *Client) (*Response, error) {
				return c.EmailAddresses.BatchCreate(ctx, []EmailAddressParams{
					{DomainID: "d1", LocalPart: "a"},
					{DomainID: "d1"},
				})
			},
			method: "POST", path: "email_addresses/batch",
			body: map[string]any{"email_addresses": []any{
				map[string]any{"domain_id": "d1", "local_part": "a"},
				map[string]any{"domain_id": "d1"},
			}},
		},
		{
			name:   "email addresses batch delete",
			call:   func(c *Client) (*Response, error) { return c.EmailAddresses.BatchDelete(ctx, []string{"1", "2"}) },
			method: "DELETE", path: "email_addresses/batch",
			query: url.Values{"ids[]": {"1", "2"}},
		},
		{
			name:   "email addresses stream",
			call:   func(c *Client) (*Response, error) { return stream(c.EmailAddresses.Stream(ctx, "d1")) },
			method: "GET", path: "email_addresses/stream",
			query: url.Values{"domain_id": {"d1"}},
		},
		{
			name:   "email addresses stream unscoped",
			call:   func(c *Client) (*Response, error) { return stream(c.EmailAddresses.Stream(ctx, "")) },
			method: "GET", path: "email_addresses/stream",
		},

		// inbound emails
		{
			name:   "inbound emails list",
			call:   func(c *Client) (*Response, error) { return c.InboundEmails.List(ctx, "42", nil) },
			method: "GET", path: "email_addresses/42/inbound_emails",
		},
		{
			name: "inbound emails list unread",
			call: func(c *Client) (*Response, error) {
				return c.InboundEmails.List(ctx, "42", &InboundEmailListOptions{Unread: Bool(true), ListOptions: ListOptions{Page: 3}})
			},
			method: "GET", path: "email_addresses/42/inbound_emails",
			query: url.Values{"unread": {"true"}, "page": {"3"}},
		},
		{
			name: "inbound emails list read only",
			call: func(c *Client) (*Response, error) {
				return c.InboundEmails.List(ctx, "42", &InboundEmailListOptions{Unread: Bool(false)})
			},
			method: "GET", path: "email_addresses/42/inbound_emails",
			query: url.Values{"unread": {"false"}},
		},
		{
			name:   "inbound emails retrieve",
			call:   func(c *Client) (*Response, error) { return c.InboundEmails.Retrieve(ctx, "99") },
			method: "GET", path: "inbound_emails/99",
		},
		{
			name:   "inbound emails mark read",
			call:   func(c *Client) (*Response, error) { return c.InboundEmails.MarkRead(ctx, "99") },
			method: "PATCH", path: "inbound_emails/99/read",
		},
		{
			name:   "inbound emails batch mark read",
			call:   func(c *Client) (*Response, error) { return c.InboundEmails.BatchMarkRead(ctx, []string{"1", "2"}) },
			method: "PATCH", path: "inbound_emails/batch/read",
			body: map[string]any{"ids": []any{"1", "2"}},
		},
		{
			name:   "inbound emails batch delete",
			call:   func(c *Client) (*Response, error) { return c.InboundEmails.BatchDelete(ctx, []string{"3"}) },
			method: "DELETE", path: "inbound_emails/batch",
			query: url.Values{"ids[]": {"3"}},
		},
		{
			name: "inbound emails stream",
			call: func(c *Client) (*Response, error) {
				return stream(c.InboundEmails.Stream(ctx, &InboundEmailStreamOptions{EmailAddressID: "42"}))
			},
			method: "GET", path: "inbound_emails/stream",
			query: url.Values{"email_address_id": {"42"}},
		},
		{
			name:   "inbound emails stream unscoped",
			call:   func(c *Client) (*Response, error) { return stream(c.InboundEmails.Stream(ctx, nil)) },
			method: "GET", path: "inbound_emails/stream",
		},

		// outbound emails
		{
			name: "outbound emails send",
			call: func(c *Client) (*Response, error) {
				return c.OutboundEmails.Send(ctx, SendEmailParams{
					FromEmailAddressID: "42",
					To:                 "user@example.com",
					Subject:            "Hello",
					Body:               "Hi there",
				})
			},
			method: "POST", path: "outbound_emails",
			body: map[string]any{
				"from_email_address_id": "42",
				"to":                    "user@example.com",
				"subject":               "Hello",
				"body":                  "Hi there",
			},
		},
		{
			name: "outbound emails send with optional fields",
			call: func(c *Client) (*Response, error) {
				return c.OutboundEmails.Send(ctx, SendEmailParams{
					FromEmailAddressID: "42",
					To:                 "user@example.com",
					Subject:            "Hello",
					Body:               "Hi there",
					HTMLBody:           "<p>Hi there</p>",
					ReplyTo:            "support@mycompany.tail.me",
				})
			},
			method: "POST", path: "outbound_emails",
			body: map[string]any{
				"from_email_address_id": "42",
				"to":                    "user@example.com",
				"subject":               "Hello",
				"body":                  "Hi there",
				"html_body":             "<p>Hi there</p>",
				"reply_to":              "support@mycompany.tail.me",
			},
		},
		{
			name:   "outbound emails retrieve",
			call:   func(c *Client) (*Response, error) { return c.OutboundEmails.Retrieve(ctx, "5") },
			method: "GET", path: "outbound_emails/5",
		},
		{
			name: "outbound emails list",
			call: func(c *Client) (*Response, error) {
				return c.OutboundEmails.List(ctx, &OutboundEmailListOptions{FromEmailAddressID: "42"})
			},
			method: "GET", path: "outbound_emails",
			query: url.Values{"from_email_address_id": {"42"}},
		},

		// webhooks
		{
			name: "webhooks create",
			call: func(c *Client) (*Response, error) {
				return c.Webhooks.Create(ctx, CreateWebhookParams{URL: "https://example.com/hook"})
			},
			method: "POST", path: "webhooks",
			body: map[string]any{"url": "https://example.com/hook"},
		},
		{
			name: "webhooks create scoped",
			call: func(c *Client) (*Response, error) {
				return c.Webhooks.Create(ctx, CreateWebhookParams{
					URL:      "https://example.com/hook",
					DomainID: "d1",
					Secret:   "whsec",
				})
			},
			method: "POST", path: "webhooks",
			body: map[string]any{"url": "https://example.com/hook", "domain_id": "d1", "secret": "whsec"},
		},
		{
			name: "webhooks list",
			call: func(c *Client) (*Response, error) {
				return c.Webhooks.List(ctx, &WebhookListOptions{EmailAddressID: "42", ListOptions: ListOptions{Page: 1}})
			},
			method: "GET", path: "webhooks",
			query: url.Values{"email_address_id": {"42"}, "page": {"1"}},
		},
		{
			name:   "webhooks retrieve",
			call:   func(c *Client) (*Response, error) { return c.Webhooks.Retrieve(ctx, "wh_1") },
			method: "GET", path: "webhooks/wh_1",
		},
		{
			name:   "webhooks delete",
			call:   func(c *Client) (*Response, error) { return c.Webhooks.Delete(ctx, "wh_1") },
			method: "DELETE", path: "webhooks/wh_1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := newStub(t, http.StatusOK, `{}`)

			_, err := tt.call(stub.client())
			require.NoError(t, err)

			req := stub.last(t)
			assert.Equal(t, tt.method, req.Method)
			assert.Equal(t, tt.path, req.Path)

			query, err := url.ParseQuery(req.RawQuery)
			require.NoError(t, err)
			if tt.query == nil {
				assert.Empty(t, query)
			} else {
				assert.Equal(t, tt.query, query)
			}

			if tt.body == nil {
				assert.Empty(t, req.Body)
			} else {
				assert.Equal(t, tt.body, req.jsonBody(t))
			}
		})
	}
}

func TestResources_EscapesPathSegments(t *testing.T) {
	stub := newStub(t, http.StatusOK, `{}`)

	_, err := stub.client().Domains.Retrieve(context.Background(), "a/b c")
	require.NoError(t, err)

	assert.Equal(t, "domains/a%2Fb%20c", stub.last(t).Path)
}

func TestInboundEmails_RetrieveNotFound(t *testing.T) {
	stub := newStub(t, http.StatusNotFound, `{"error":"Email not found"}`)

	resp, err := stub.client().InboundEmails.Retrieve(context.Background(), "999")
	require.Error(t, err)
	assert.Nil(t, resp)

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "Email not found", err.Error())

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, KindNotFound, apiErr.Kind)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "inbound_emails/999", stub.last(t).Path)
}

func TestInboundEmails_ListReturnsPage(t *testing.T) {
	stub := newStub(t, http.StatusOK, `{
		"data": [{"id":"1","subject":"Welcome"},{"id":"2","subject":"Invoice"}],
		"meta": {"page":1,"per_page":25,"total_count":2}
	}`)

	resp, err := stub.client().InboundEmails.List(context.Background(), "42", &InboundEmailListOptions{Unread: Bool(true)})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.Count())
	assert.Equal(t, map[string]any{"id": "2", "subject": "Invoice"}, resp.Last())
	assert.Equal(t, float64(2), resp.Meta()["total_count"])
}

func TestEmailAddresses_StreamReadsEvents(t *testing.T) {
	stub := newStub(t, http.StatusOK, "event: email_address.created\ndata: {\"id\":\"1\"}\n\n")

	rc, err := stub.client().EmailAddresses.Stream(context.Background(), "")
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Contains(t, string(data), "event: email_address.created")
	assert.Equal(t, "text/event-stream", stub.last(t).Header.Get("Accept"))
}
