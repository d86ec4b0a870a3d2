package tools

// uidSchema is the shared uid/uids parameter pair of the mutating tools.
// A supplied uids array takes precedence over a scalar uid.
func uidSchema() map[string]interface{} {
	return map[string]interface{}{
		"account_id": map[string]interface{}{
			"type":        "string",
			"description": "Account holding the messages",
		},
		"folder": map[string]interface{}{
			"type":        "string",
			"description": "Folder holding the messages (default INBOX)",
		},
		"uid": map[string]interface{}{
			"type":        "integer",
			"description": "Single message uid",
		},
		"uids": map[string]interface{}{
			"type":        "array",
			"items":       map[string]interface{}{"type": "integer"},
			"description": "Message uids; takes precedence over uid",
		},
	}
}

type mutateArgs struct {
	accountID string
	folder    string
	uid       uint32
	uids      []uint32
}

func parseMutateArgs(params map[string]interface{}) (*mutateArgs, error) {
	accountID, err := requireString(params, "account_id")
	if err != nil {
		return nil, err
	}
	uid, err := uidParam(params, "uid")
	if err != nil {
		return nil, err
	}
	uids, err := uidListParam(params, "uids")
	if err != nil {
		return nil, err
	}
	return &mutateArgs{
		accountID: accountID,
		folder:    folderParam(params),
		uid:       uid,
		uids:      uids,
	}, nil
}

// MarkEmailsTool sets or clears the seen flag on a batch of messages. The
// batch is all-or-nothing: one unknown uid rejects the whole call.
type MarkEmailsTool struct {
	deps Deps
}

func (t *MarkEmailsTool) Name() string {
	return "mark_emails"
}

func (t *MarkEmailsTool) Description() string {
	return "Mark emails read or unread (all-or-nothing for batches)"
}

func (t *MarkEmailsTool) InputSchema() map[string]interface{} {
	properties := uidSchema()
	properties["read"] = map[string]interface{}{
		"type":        "boolean",
		"description": "true marks read, false marks unread",
	}
	return map[string]interface{}{
		"type":       "object",
		"properties": properties,
		"required":   []string{"account_id", "read"},
	}
}

func (t *MarkEmailsTool) Execute(params map[string]interface{}) (interface{}, error) {
	args, err := parseMutateArgs(params)
	if err != nil {
		return nil, err
	}
	read, ok := boolParam(params, "read")
	if !ok {
		return nil, validationError("read is required")
	}

	if _, err := t.deps.ensureSession(args.accountID); err != nil {
		return nil, err
	}

	if read {
		err = t.deps.Ops.MarkRead(args.accountID, args.folder, args.uid, args.uids)
	} else {
		err = t.deps.Ops.MarkUnread(args.accountID, args.folder, args.uid, args.uids)
	}
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{"success": true}, nil
}

// MoveEmailsTool moves a batch of messages to another folder.
type MoveEmailsTool struct {
	deps Deps
}

func (t *MoveEmailsTool) Name() string {
	return "move_emails"
}

func (t *MoveEmailsTool) Description() string {
	return "Move emails to another folder (all-or-nothing for batches)"
}

func (t *MoveEmailsTool) InputSchema() map[string]interface{} {
	properties := uidSchema()
	properties["destination"] = map[string]interface{}{
		"type":        "string",
		"description": "Destination folder name",
	}
	return map[string]interface{}{
		"type":       "object",
		"properties": properties,
		"required":   []string{"account_id", "destination"},
	}
}

func (t *MoveEmailsTool) Execute(params map[string]interface{}) (interface{}, error) {
	args, err := parseMutateArgs(params)
	if err != nil {
		return nil, err
	}
	dest, err := requireString(params, "destination")
	if err != nil {
		return nil, err
	}

	if _, err := t.deps.ensureSession(args.accountID); err != nil {
		return nil, err
	}

	if err := t.deps.Ops.Move(args.accountID, args.folder, args.uid, args.uids, dest); err != nil {
		return nil, err
	}
	return map[string]interface{}{"success": true}, nil
}

// DeleteEmailsTool deletes a batch of messages permanently.
type DeleteEmailsTool struct {
	deps Deps
}

func (t *DeleteEmailsTool) Name() string {
	return "delete_emails"
}

func (t *DeleteEmailsTool) Description() string {
	return "Permanently delete emails (flag deleted, then expunge; all-or-nothing for batches)"
}

func (t *DeleteEmailsTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": uidSchema(),
		"required":   []string{"account_id"},
	}
}

func (t *DeleteEmailsTool) Execute(params map[string]interface{}) (interface{}, error) {
	args, err := parseMutateArgs(params)
	if err != nil {
		return nil, err
	}

	if _, err := t.deps.ensureSession(args.accountID); err != nil {
		return nil, err
	}

	if err := t.deps.Ops.Delete(args.accountID, args.folder, args.uid, args.uids); err != nil {
		return nil, err
	}
	return map[string]interface{}{"success": true}, nil
}
