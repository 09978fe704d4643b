package mailhook

import "context"

// DomainTypeShared is a subdomain issued under the shared tail.me domain.
const DomainTypeShared = "shared"

// DomainsService manages domains.
type DomainsService struct {
	conn *Connection
}

// Create claims a shared domain. The slug becomes the subdomain, e.g.
// "mycompany" yields mycompany.tail.me.
func (s *DomainsService) Create(ctx context.Context, slug string) (*Response, error) {
	return s.conn.Post(ctx, "domains", Params{
		"domain_type": DomainTypeShared,
		"tailme_slug": slug,
	})
}

// List returns the agent's domains.
func (s *DomainsService) List(ctx context.Context, opts *ListOptions) (*Response, error) {
	params := Params{}
	opts.apply(params)
	return s.conn.Get(ctx, "domains", params)
}

// Retrieve returns one domain.
func (s *DomainsService) Retrieve(ctx context.Context, id string) (*Response, error) {
	return s.conn.Get(ctx, resourcePath("domains", id), nil)
}

// Delete removes a domain.
func (s *DomainsService) Delete(ctx context.Context, id string) (*Response, error) {
	return s.conn.Delete(ctx, resourcePath("domains", id), nil)
}

// CheckSlug reports whether a shared-domain slug is available.
func (s *DomainsService) CheckSlug(ctx context.Context, slug string) (*Response, error) {
	return s.conn.Get(ctx, "domains/check_slug", Params{"slug": slug})
}
