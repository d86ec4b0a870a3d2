package cache

// Schema contains the SQL schema for the summary cache. Accounts are keyed
// by the credential store's id; messages by (account, folder, uid).
const Schema = `
CREATE TABLE IF NOT EXISTS accounts (
    id TEXT PRIMARY KEY,
    display_name TEXT,
    host TEXT NOT NULL,
    username TEXT NOT NULL,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS messages (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    account_id TEXT NOT NULL,
    folder TEXT NOT NULL,
    uid INTEGER NOT NULL,
    message_id TEXT,
    subject TEXT,
    sender TEXT,
    recipients TEXT,
    date DATETIME,
    in_reply_to TEXT,
    flags TEXT,
    body_text TEXT,
    cached_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (account_id) REFERENCES accounts(id) ON DELETE CASCADE,
    UNIQUE(account_id, folder, uid)
);

CREATE INDEX IF NOT EXISTS idx_messages_account ON messages(account_id);
CREATE INDEX IF NOT EXISTS idx_messages_folder ON messages(account_id, folder);
CREATE INDEX IF NOT EXISTS idx_messages_date ON messages(date);
CREATE INDEX IF NOT EXISTS idx_messages_sender ON messages(sender);

CREATE VIRTUAL TABLE IF NOT EXISTS messages_fts USING fts5(
    subject,
    sender,
    body_text,
    content='messages',
    content_rowid='id'
);

-- External-content FTS tables only accept the 'delete' command form, so the
-- update trigger is a delete-then-insert pair.
CREATE TRIGGER IF NOT EXISTS messages_fts_insert AFTER INSERT ON messages BEGIN
    INSERT INTO messages_fts(rowid, subject, sender, body_text)
    VALUES (new.id, new.subject, new.sender, new.body_text);
END;

CREATE TRIGGER IF NOT EXISTS messages_fts_update AFTER UPDATE ON messages BEGIN
    INSERT INTO messages_fts(messages_fts, rowid, subject, sender, body_text)
    VALUES ('delete', old.id, old.subject, old.sender, old.body_text);
    INSERT INTO messages_fts(rowid, subject, sender, body_text)
    VALUES (new.id, new.subject, new.sender, new.body_text);
END;

CREATE TRIGGER IF NOT EXISTS messages_fts_delete AFTER DELETE ON messages BEGIN
    INSERT INTO messages_fts(messages_fts, rowid, subject, sender, body_text)
    VALUES ('delete', old.id, old.subject, old.sender, old.body_text);
END;
`
