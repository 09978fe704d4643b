package mailhook

import "context"

// WebhooksService manages webhook subscriptions.
type WebhooksService struct {
	conn *Connection
}

// CreateWebhookParams describes a webhook. A webhook may be scoped to an
// email address or a domain; with neither it receives all of the agent's
// events. Secret, when set, is used by the server to sign deliveries.
type CreateWebhookParams struct {
	URL            string
	EmailAddressID string
	DomainID       string
	Secret         string
}

// WebhookListOptions filters WebhooksService.List.
type WebhookListOptions struct {
	EmailAddressID string
	DomainID       string
	ListOptions
}

// Create registers a webhook.
func (s *WebhooksService) Create(ctx context.Context, webhook CreateWebhookParams) (*Response, error) {
	params := Params{"url": webhook.URL}
	params.setString("email_address_id", webhook.EmailAddressID)
	params.setString("domain_id", webhook.DomainID)
	params.setString("secret", webhook.Secret)
	return s.conn.Post(ctx, "webhooks", params)
}

// List returns webhooks, optionally limited by scope.
func (s *WebhooksService) List(ctx context.Context, opts *WebhookListOptions) (*Response, error) {
	params := Params{}
	if opts != nil {
		params.setString("email_address_id", opts.EmailAddressID)
		params.setString("domain_id", opts.DomainID)
		opts.ListOptions.apply(params)
	}
	return s.conn.Get(ctx, "webhooks", params)
}

// Retrieve returns one webhook.
func (s *WebhooksService) Retrieve(ctx context.Context, id string) (*Response, error) {
	return s.conn.Get(ctx, resourcePath("webhooks", id), nil)
}

// Delete removes a webhook.
func (s *WebhooksService) Delete(ctx context.Context, id string) (*Response, error) {
	return s.conn.Delete(ctx, resourcePath("webhooks", id), nil)
}
