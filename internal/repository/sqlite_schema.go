package repository

// sqliteSchema mirrors migrations/001_initial.up.sql for the embedded store.
// Timestamps are stored as Unix nanoseconds so window comparisons stay numeric.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
    id                TEXT PRIMARY KEY,
    email             TEXT UNIQUE,
    first_name        TEXT,
    last_name         TEXT,
    profile_image_url TEXT,
    created_at        INTEGER NOT NULL,
    updated_at        INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS sessions (
    token      TEXT PRIMARY KEY,
    user_id    TEXT NOT NULL,
    email      TEXT NOT NULL DEFAULT '',
    is_admin   INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL,
    expires_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions (expires_at);

CREATE TABLE IF NOT EXISTS messages (
    id           TEXT PRIMARY KEY,
    name         TEXT NOT NULL CHECK (length(name) <= 255),
    email        TEXT NOT NULL CHECK (length(email) <= 255),
    phone        TEXT CHECK (length(phone) <= 50),
    budget       TEXT CHECK (length(budget) <= 100),
    project_type TEXT CHECK (length(project_type) <= 100),
    message      TEXT NOT NULL,
    is_read      INTEGER NOT NULL DEFAULT 0,
    created_at   INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_messages_created_at ON messages (created_at);

CREATE TABLE IF NOT EXISTS tags (
    id         TEXT PRIMARY KEY,
    name       TEXT NOT NULL UNIQUE CHECK (length(name) <= 50),
    color      TEXT NOT NULL DEFAULT '#8B5CF6',
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS message_tags (
    id         TEXT PRIMARY KEY,
    message_id TEXT NOT NULL REFERENCES messages (id) ON DELETE CASCADE,
    tag_id     TEXT NOT NULL REFERENCES tags (id) ON DELETE CASCADE,
    UNIQUE (message_id, tag_id)
);
CREATE INDEX IF NOT EXISTS idx_message_tags_tag_id ON message_tags (tag_id);

CREATE TABLE IF NOT EXISTS templates (
    id         TEXT PRIMARY KEY,
    name       TEXT NOT NULL CHECK (length(name) <= 100),
    subject    TEXT NOT NULL CHECK (length(subject) <= 200),
    content    TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS page_views (
    id         TEXT PRIMARY KEY,
    path       TEXT NOT NULL,
    user_agent TEXT,
    referrer   TEXT,
    created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_page_views_created_at ON page_views (created_at);
`
