package mailhook

import "context"

// AgentsService manages the authenticated agent account.
type AgentsService struct {
	conn *Connection
}

// Register creates a new agent. It is normally called without credentials;
// the response carries the agent ID and API key to use afterwards.
func (s *AgentsService) Register(ctx context.Context, name string) (*Response, error) {
	return s.conn.Post(ctx, "agents/register", Params{"name": name})
}

// Me returns the current agent.
func (s *AgentsService) Me(ctx context.Context) (*Response, error) {
	return s.conn.Get(ctx, "agents/me", nil)
}

// Upgrade requests an upgrade of the agent's plan.
func (s *AgentsService) Upgrade(ctx context.Context) (*Response, error) {
	return s.conn.Post(ctx, "agents/upgrade", nil)
}

// UpgradeStatus returns the state of a pending upgrade.
func (s *AgentsService) UpgradeStatus(ctx context.Context) (*Response, error) {
	return s.conn.Get(ctx, "agents/upgrade/status", nil)
}

// Deactivate deactivates the current agent.
func (s *AgentsService) Deactivate(ctx context.Context) (*Response, error) {
	return s.conn.Delete(ctx, "agents/me", nil)
}
