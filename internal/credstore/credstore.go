package credstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/brandon/mcp-mailbox/pkg/types"
)

// storedAccount is the on-disk record layout. Credential holds the
// AES-GCM sealed password; everything else is plaintext.
type storedAccount struct {
	ID             string `json:"id"`
	DisplayName    string `json:"display_name,omitempty"`
	Host           string `json:"host"`
	Port           int    `json:"port"`
	Username       string `json:"username"`
	Credential     string `json:"credential"`
	TLS            bool   `json:"tls"`
	ConnectTimeout int    `json:"connect_timeout,omitempty"`
	SMTPHost       string `json:"smtp_host,omitempty"`
	SMTPPort       int    `json:"smtp_port,omitempty"`
}

// Store owns the encrypted account records. Every mutation rewrites the
// whole file through an atomic rename; a single writer lock serializes
// concurrent mutations.
type Store struct {
	path   string
	key    []byte
	logger *logrus.Logger

	mu sync.Mutex
}

// NewStore opens the credential store at path, loading (or creating) key
// material from keyPath. A readable but undecryptable store is a fatal
// configuration error.
func NewStore(path, keyPath string, logger *logrus.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, &types.PersistenceError{Op: "open", Cause: err}
	}

	key, err := loadOrCreateKey(keyPath)
	if err != nil {
		return nil, &types.PersistenceError{Op: "open", Cause: err}
	}

	s := &Store{
		path:   path,
		key:    key,
		logger: logger,
	}

	// Fail fast on a corrupted store instead of at first use.
	if _, err := s.load(); err != nil {
		return nil, err
	}

	return s, nil
}

// Add validates and persists a new account, encrypting the credential. It
// returns the account id, generating one when the record has none.
func (s *Store) Add(acc *types.Account) (string, error) {
	if err := validate(acc); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return "", err
	}

	id := acc.ID
	if id == "" {
		id = uuid.NewString()
	}
	for _, rec := range records {
		if rec.ID == id {
			return "", &types.ValidationError{Reason: fmt.Sprintf("account id already exists: %s", id)}
		}
	}

	credential, err := encrypt(s.key, acc.Password)
	if err != nil {
		return "", &types.PersistenceError{Op: "add", Cause: err}
	}

	records = append(records, storedAccount{
		ID:             id,
		DisplayName:    acc.DisplayName,
		Host:           acc.Host,
		Port:           acc.Port,
		Username:       acc.Username,
		Credential:     credential,
		TLS:            acc.TLS,
		ConnectTimeout: acc.ConnectTimeout,
		SMTPHost:       acc.SMTPHost,
		SMTPPort:       acc.SMTPPort,
	})

	if err := s.persist(records); err != nil {
		return "", err
	}

	s.logger.WithFields(logrus.Fields{"account": id, "host": acc.Host}).Info("Added account")
	return id, nil
}

// Update replaces the record with the given id, re-encrypting the
// credential.
func (s *Store) Update(acc *types.Account) error {
	if acc.ID == "" {
		return &types.ValidationError{Reason: "id is required"}
	}
	if err := validate(acc); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}

	credential, err := encrypt(s.key, acc.Password)
	if err != nil {
		return &types.PersistenceError{Op: "update", Cause: err}
	}

	for i := range records {
		if records[i].ID != acc.ID {
			continue
		}
		records[i] = storedAccount{
			ID:             acc.ID,
			DisplayName:    acc.DisplayName,
			Host:           acc.Host,
			Port:           acc.Port,
			Username:       acc.Username,
			Credential:     credential,
			TLS:            acc.TLS,
			ConnectTimeout: acc.ConnectTimeout,
			SMTPHost:       acc.SMTPHost,
			SMTPPort:       acc.SMTPPort,
		}
		return s.persist(records)
	}

	return &types.NotFoundError{AccountID: acc.ID}
}

// Get returns the account with its credential decrypted in memory.
func (s *Store) Get(id string) (*types.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return nil, err
	}

	for i := range records {
		if records[i].ID == id {
			return s.toAccount(&records[i])
		}
	}
	return nil, &types.NotFoundError{AccountID: id}
}

// Remove deletes the record with the given id. Removing an unknown id
// returns NotFoundError; this is the documented choice, not idempotence.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}

	for i := range records {
		if records[i].ID != id {
			continue
		}
		records = append(records[:i], records[i+1:]...)
		if err := s.persist(records); err != nil {
			return err
		}
		s.logger.WithField("account", id).Info("Removed account")
		return nil
	}

	return &types.NotFoundError{AccountID: id}
}

// List returns all accounts with credentials left empty.
func (s *Store) List() ([]*types.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return nil, err
	}

	accounts := make([]*types.Account, 0, len(records))
	for i := range records {
		rec := &records[i]
		accounts = append(accounts, &types.Account{
			ID:             rec.ID,
			DisplayName:    rec.DisplayName,
			Host:           rec.Host,
			Port:           rec.Port,
			Username:       rec.Username,
			TLS:            rec.TLS,
			ConnectTimeout: rec.ConnectTimeout,
			SMTPHost:       rec.SMTPHost,
			SMTPPort:       rec.SMTPPort,
		})
	}
	return accounts, nil
}

func (s *Store) toAccount(rec *storedAccount) (*types.Account, error) {
	password, err := decrypt(s.key, rec.Credential)
	if err != nil {
		return nil, &types.PersistenceError{Op: "decrypt", Cause: err}
	}
	return &types.Account{
		ID:             rec.ID,
		DisplayName:    rec.DisplayName,
		Host:           rec.Host,
		Port:           rec.Port,
		Username:       rec.Username,
		Password:       password,
		TLS:            rec.TLS,
		ConnectTimeout: rec.ConnectTimeout,
		SMTPHost:       rec.SMTPHost,
		SMTPPort:       rec.SMTPPort,
	}, nil
}

// load reads the full account file. A missing file is an empty store.
func (s *Store) load() ([]storedAccount, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &types.PersistenceError{Op: "read", Cause: err}
	}

	var records []storedAccount
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &types.PersistenceError{Op: "read", Cause: err}
	}
	return records, nil
}

// persist rewrites the whole store through a temp file and rename so no
// partial write is ever observable.
func (s *Store) persist(records []storedAccount) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return &types.PersistenceError{Op: "write", Cause: err}
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".accounts-*")
	if err != nil {
		return &types.PersistenceError{Op: "write", Cause: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &types.PersistenceError{Op: "write", Cause: err}
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &types.PersistenceError{Op: "write", Cause: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &types.PersistenceError{Op: "write", Cause: err}
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return &types.PersistenceError{Op: "write", Cause: err}
	}
	return nil
}

func validate(acc *types.Account) error {
	if acc.Host == "" {
		return &types.ValidationError{Reason: "host is required"}
	}
	if acc.Port < 1 || acc.Port > 65535 {
		return &types.ValidationError{Reason: "port must be between 1 and 65535"}
	}
	if acc.Username == "" {
		return &types.ValidationError{Reason: "username is required"}
	}
	if acc.Password == "" {
		return &types.ValidationError{Reason: "credential is required"}
	}
	return nil
}
