package mailhook

import "context"

// OutboundEmailsService sends emails from the agent's addresses.
type OutboundEmailsService struct {
	conn *Connection
}

// SendEmailParams describes an email to send. HTMLBody and ReplyTo are
// optional and left out of the request when empty.
type SendEmailParams struct {
	FromEmailAddressID string
	To                 string
	Subject            string
	Body               string
	HTMLBody           string
	ReplyTo            string
}

// OutboundEmailListOptions filters OutboundEmailsService.List.
type OutboundEmailListOptions struct {
	FromEmailAddressID string
	ListOptions
}

// Send sends an email.
func (s *OutboundEmailsService) Send(ctx context.Context, email SendEmailParams) (*Response, error) {
	params := Params{
		"from_email_address_id": email.FromEmailAddressID,
		"to":                    email.To,
		"subject":               email.Subject,
		"body":                  email.Body,
	}
	params.setString("html_body", email.HTMLBody)
	params.setString("reply_to", email.ReplyTo)
	return s.conn.Post(ctx, "outbound_emails", params)
}

// Retrieve returns one sent email.
func (s *OutboundEmailsService) Retrieve(ctx context.Context, id string) (*Response, error) {
	return s.conn.Get(ctx, resourcePath("outbound_emails", id), nil)
}

// List returns sent emails, optionally limited to one sender address.
func (s *OutboundEmailsService) List(ctx context.Context, opts *OutboundEmailListOptions) (*Response, error) {
	params := Params{}
	if opts != nil {
		params.setString("from_email_address_id", opts.FromEmailAddressID)
		opts.ListOptions.apply(params)
	}
	return s.conn.Get(ctx, "outbound_emails", params)
}
