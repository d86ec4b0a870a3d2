package tools

import (
	"github.com/sirupsen/logrus"

	"github.com/brandon/mcp-mailbox/internal/cache"
	"github.com/brandon/mcp-mailbox/internal/config"
	"github.com/brandon/mcp-mailbox/internal/credstore"
	"github.com/brandon/mcp-mailbox/internal/mailbox"
	"github.com/brandon/mcp-mailbox/internal/outbound"
	"github.com/brandon/mcp-mailbox/pkg/types"
)

// Deps bundles the collaborators tools call into. All mailbox state lives
// behind these; tools only marshal requests and render results.
type Deps struct {
	Config   *config.Config
	Accounts *credstore.Store
	Pool     *mailbox.Pool
	Ops      *mailbox.Operations
	Sender   *outbound.Sender
	Cache    *cache.Store
	Logger   *logrus.Logger
}

// Tool is one invocable tool.
type Tool interface {
	Name() string
	Description() string
	InputSchema() map[string]interface{}
	Execute(params map[string]interface{}) (interface{}, error)
}

// Registry holds the registered tools.
type Registry struct {
	deps  Deps
	tools map[string]Tool
}

// NewRegistry creates the registry with every tool registered.
func NewRegistry(deps Deps) *Registry {
	r := &Registry{
		deps:  deps,
		tools: make(map[string]Tool),
	}

	for _, tool := range []Tool{
		&ListAccountsTool{deps},
		&AddAccountTool{deps},
		&RemoveAccountTool{deps},
		&ListFoldersTool{deps},
		&SearchEmailsTool{deps},
		&GetEmailTool{deps},
		&MarkEmailsTool{deps},
		&MoveEmailsTool{deps},
		&DeleteEmailsTool{deps},
		&SendEmailTool{deps},
		&ReplyEmailTool{deps},
		&ForwardEmailTool{deps},
	} {
		r.tools[tool.Name()] = tool
		deps.Logger.WithField("tool", tool.Name()).Debug("Registered tool")
	}

	deps.Logger.WithField("count", len(r.tools)).Info("Registered tools")
	return r
}

// GetTool returns a tool by name.
func (r *Registry) GetTool(name string) (Tool, bool) {
	tool, exists := r.tools[name]
	return tool, exists
}

// Definitions returns the tool definitions for listing.
func (r *Registry) Definitions() []map[string]interface{} {
	definitions := make([]map[string]interface{}, 0, len(r.tools))
	for _, tool := range r.tools {
		definitions = append(definitions, map[string]interface{}{
			"name":        tool.Name(),
			"description": tool.Description(),
			"inputSchema": tool.InputSchema(),
		})
	}
	return definitions
}

// ensureSession resolves the account and connects it if needed. Connect is
// idempotent, so calling this per tool invocation costs nothing for an
// already live account.
func (d *Deps) ensureSession(accountID string) (*types.Account, error) {
	acc, err := d.Accounts.Get(accountID)
	if err != nil {
		return nil, err
	}
	if err := d.Pool.Connect(acc); err != nil {
		return nil, err
	}
	return acc, nil
}
