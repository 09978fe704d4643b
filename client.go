package mailhook

// Client is the entry point to the Mailhook API. It owns one Connection,
// shared by every resource service.
type Client struct {
	conn *Connection

	Agents         *AgentsService
	Domains        *DomainsService
	EmailAddresses *EmailAddressesService
	InboundEmails  *InboundEmailsService
	OutboundEmails *OutboundEmailsService
	Webhooks       *WebhooksService
}

// New creates a client. Settings given as options win; everything else
// falls back to the process-wide configuration as it is at the time of
// the call (or to the configuration passed with WithConfig).
//
// The configuration is not validated here. An unusable configuration is
// reported by the first request as an error of kind KindConfiguration.
func New(opts ...Option) *Client {
	cfg := &clientConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	conn := newConnection(cfg.resolve(), cfg)
	return &Client{
		conn:           conn,
		Agents:         &AgentsService{conn: conn},
		Domains:        &DomainsService{conn: conn},
		EmailAddresses: &EmailAddressesService{conn: conn},
		InboundEmails:  &InboundEmailsService{conn: conn},
		OutboundEmails: &OutboundEmailsService{conn: conn},
		Webhooks:       &WebhooksService{conn: conn},
	}
}

// Config returns a copy of the client's resolved configuration.
func (c *Client) Config() Config {
	return c.conn.Config()
}

// Connection returns the connection shared by the resource services, for
// endpoints the services do not cover.
func (c *Client) Connection() *Connection {
	return c.conn
}
