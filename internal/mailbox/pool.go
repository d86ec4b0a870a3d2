package mailbox

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/brandon/mcp-mailbox/pkg/types"
)

// Pool owns one live session per account id. Each account has its own lock
// serializing the select/command/response sequence, since folder selection
// is server-side session state; operations on different accounts proceed in
// parallel.
type Pool struct {
	mu      sync.Mutex
	entries map[string]*poolEntry

	dial   func(acc *types.Account, logger *logrus.Logger) (Session, error)
	logger *logrus.Logger
}

type poolEntry struct {
	mu      sync.Mutex
	session Session
}

// NewPool creates a session pool.
func NewPool(logger *logrus.Logger) *Pool {
	return &Pool{
		entries: make(map[string]*poolEntry),
		dial:    dialSession,
		logger:  logger,
	}
}

func (p *Pool) entry(accountID string) *poolEntry {
	p.mu.Lock()
	defer p.mu.Unlock()

	e, ok := p.entries[accountID]
	if !ok {
		e = &poolEntry{}
		p.entries[accountID] = e
	}
	return e
}

// Connect establishes a session for the account. It is idempotent: an
// already connected account is a no-op. On failure nothing is registered,
// so a retry is safe.
func (p *Pool) Connect(acc *types.Account) error {
	e := p.entry(acc.ID)
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session != nil {
		return nil
	}

	session, err := p.dial(acc, p.logger)
	if err != nil {
		return &types.ConnectionError{Addr: acc.Addr(), Cause: err}
	}

	e.session = session
	p.logger.WithFields(logrus.Fields{"account": acc.ID, "addr": acc.Addr()}).Info("Connected to IMAP server")
	return nil
}

// Disconnect tears down the account's session if one exists. It always
// leaves the account disconnected; logout failures are logged, not
// returned, since the session is gone either way.
func (p *Pool) Disconnect(accountID string) {
	e := p.entry(accountID)
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil {
		return
	}
	if err := e.session.Close(); err != nil {
		p.logger.WithError(err).WithField("account", accountID).Warn("Logout failed")
	}
	e.session = nil
}

// Connected reports whether the account currently has a live session.
func (p *Pool) Connected(accountID string) bool {
	e := p.entry(accountID)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session != nil
}

// SelectFolder selects a folder on the account's session as an observable
// side effect. Selection is sticky only until some other operation selects
// a different folder.
func (p *Pool) SelectFolder(accountID, name string) error {
	return p.withSession(accountID, func(s Session) error {
		return s.SelectFolder(name)
	})
}

// CloseAll disconnects every account. Used during shutdown.
func (p *Pool) CloseAll() {
	p.mu.Lock()
	ids := make([]string, 0, len(p.entries))
	for id := range p.entries {
		ids = append(ids, id)
	}
	p.mu.Unlock()

	for _, id := range ids {
		p.Disconnect(id)
	}
}

// withSession runs fn under the account's lock. Operations built on this
// are serialized per account and never observe each other's folder
// selection mid-flight.
func (p *Pool) withSession(accountID string, fn func(s Session) error) error {
	e := p.entry(accountID)
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil {
		return &types.NoActiveSessionError{AccountID: accountID}
	}
	return fn(e.session)
}
