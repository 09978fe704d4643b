package mailhook

import (
	"context"
	"io"
)

// EmailAddressesService manages email addresses.
type EmailAddressesService struct {
	conn *Connection
}

// EmailAddressListOptions filters EmailAddressesService.List.
type EmailAddressListOptions struct {
	DomainID string
	ListOptions
}

// EmailAddressParams describes one address in a batch creation.
type EmailAddressParams struct {
	DomainID  string `json:"domain_id"`
	LocalPart string `json:"local_part,omitempty"`
}

// Create creates localPart@domain on the given domain.
func (s *EmailAddressesService) Create(ctx context.Context, domainID, localPart string) (*Response, error) {
	return s.conn.Post(ctx, "email_addresses", Params{
		"domain_id":  domainID,
		"local_part": localPart,
	})
}

// CreateRandom creates an address with a generated local part.
func (s *EmailAddressesService) CreateRandom(ctx context.Context, domainID string) (*Response, error) {
	return s.conn.Post(ctx, "email_addresses/random", Params{"domain_id": domainID})
}

// List returns email addresses, optionally limited to one domain.
func (s *EmailAddressesService) List(ctx context.Context, opts *EmailAddressListOptions) (*Response, error) {
	params := Params{}
	if opts != nil {
		params.setString("domain_id", opts.DomainID)
		opts.ListOptions.apply(params)
	}
	return s.conn.Get(ctx, "email_addresses", params)
}

// Retrieve returns one email address.
func (s *EmailAddressesService) Retrieve(ctx context.Context, id string) (*Response, error) {
	return s.conn.Get(ctx, resourcePath("email_addresses", id), nil)
}

// Delete removes an email address.
func (s *EmailAddressesService) Delete(ctx context.Context, id string) (*Response, error) {
	return s.conn.Delete(ctx, resourcePath("email_addresses", id), nil)
}

// BatchCreate creates several addresses in one request.
func (s *EmailAddressesService) BatchCreate(ctx context.Context, addresses []EmailAddressParams) (*Response, error) {
	return s.conn.Post(ctx, "email_addresses/batch", Params{"email_addresses": addresses})
}

// BatchDelete removes several addresses in one request.
func (s *EmailAddressesService) BatchDelete(ctx context.Context, ids []string) (*Response, error) {
	return s.conn.Delete(ctx, "email_addresses/batch", Params{"ids": ids})
}

// Stream opens the address event stream, optionally limited to one
// domain. The caller must close the returned stream.
func (s *EmailAddressesService) Stream(ctx context.Context, domainID string) (io.ReadCloser, error) {
	params := Params{}
	params.setString("domain_id", domainID)
	return s.conn.Stream(ctx, "email_addresses/stream", params)
}
