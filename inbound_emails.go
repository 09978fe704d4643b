package mailhook

import (
	"context"
	"io"
)

// InboundEmailsService reads and manages received emails.
type InboundEmailsService struct {
	conn *Connection
}

// InboundEmailListOptions filters InboundEmailsService.List.
type InboundEmailListOptions struct {
	// Unread limits the result to unread (true) or read (false) emails.
	// Nil returns both.
	Unread *bool
	ListOptions
}

// InboundEmailStreamOptions scopes InboundEmailsService.Stream.
type InboundEmailStreamOptions struct {
	EmailAddressID string
	DomainID       string
}

// List returns the emails received by an address.
func (s *InboundEmailsService) List(ctx context.Context, emailAddressID string, opts *InboundEmailListOptions) (*Response, error) {
	params := Params{}
	if opts != nil {
		params.setBool("unread", opts.Unread)
		opts.ListOptions.apply(params)
	}
	return s.conn.Get(ctx, resourcePath("email_addresses", emailAddressID, "inbound_emails"), params)
}

// Retrieve returns one email with its content.
func (s *InboundEmailsService) Retrieve(ctx context.Context, id string) (*Response, error) {
	return s.conn.Get(ctx, resourcePath("inbound_emails", id), nil)
}

// MarkRead marks an email as read.
func (s *InboundEmailsService) MarkRead(ctx context.Context, id string) (*Response, error) {
	return s.conn.Patch(ctx, resourcePath("inbound_emails", id, "read"), nil)
}

// BatchMarkRead marks several emails as read.
func (s *InboundEmailsService) BatchMarkRead(ctx context.Context, ids []string) (*Response, error) {
	return s.conn.Patch(ctx, "inbound_emails/batch/read", Params{"ids": ids})
}

// BatchDelete removes several emails.
func (s *InboundEmailsService) BatchDelete(ctx context.Context, ids []string) (*Response, error) {
	return s.conn.Delete(ctx, "inbound_emails/batch", Params{"ids": ids})
}

// Stream opens the inbound email event stream. The caller must close the
// returned stream.
func (s *InboundEmailsService) Stream(ctx context.Context, opts *InboundEmailStreamOptions) (io.ReadCloser, error) {
	params := Params{}
	if opts != nil {
		params.setString("email_address_id", opts.EmailAddressID)
		params.setString("domain_id", opts.DomainID)
	}
	return s.conn.Stream(ctx, "inbound_emails/stream", params)
}
