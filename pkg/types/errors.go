package types

import "fmt"

// ValidationError reports a malformed request, such as a missing required
// account field or a mutation with neither uid nor uids.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid request: %s", e.Reason)
}

// NotFoundError reports an unknown account id.
type NotFoundError struct {
	AccountID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("account not found: %s", e.AccountID)
}

// FolderNotFoundError reports a folder the server refused to select or use
// as a move destination.
type FolderNotFoundError struct {
	Folder string
	Cause  error
}

func (e *FolderNotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("folder not found: %s: %v", e.Folder, e.Cause)
	}
	return fmt.Sprintf("folder not found: %s", e.Folder)
}

func (e *FolderNotFoundError) Unwrap() error { return e.Cause }

// MessageNotFoundError reports a uid that does not resolve in the selected
// folder.
type MessageNotFoundError struct {
	Folder string
	UID    uint32
}

func (e *MessageNotFoundError) Error() string {
	return fmt.Sprintf("message not found in %s: uid %d", e.Folder, e.UID)
}

// ConnectionError reports a dial, TLS or login failure. The session pool
// registers nothing when it raises this, so a retry is safe.
type ConnectionError struct {
	Addr  string
	Cause error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("could not connect to %s: %v", e.Addr, e.Cause)
}

func (e *ConnectionError) Unwrap() error { return e.Cause }

// NoActiveSessionError reports an operation attempted on an account that is
// not connected.
type NoActiveSessionError struct {
	AccountID string
}

func (e *NoActiveSessionError) Error() string {
	return fmt.Sprintf("no active session for account %s", e.AccountID)
}

// PersistenceError reports a credential store read, write or decrypt
// failure. A store file that fails to decrypt is a configuration error and
// surfaces as this type, never as an empty store.
type PersistenceError struct {
	Op    string
	Cause error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("credential store %s failed: %v", e.Op, e.Cause)
}

func (e *PersistenceError) Unwrap() error { return e.Cause }

// SendError reports an outbound transmission failure.
type SendError struct {
	Cause error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("could not send message: %v", e.Cause)
}

func (e *SendError) Unwrap() error { return e.Cause }

// PartialBatchError rejects a batch mutation whose members did not all
// resolve in the target folder. Nothing in the batch has been mutated when
// this is returned.
type PartialBatchError struct {
	Folder  string
	Missing []uint32
}

func (e *PartialBatchError) Error() string {
	return fmt.Sprintf("batch rejected, uids not present in %s: %v", e.Folder, e.Missing)
}
