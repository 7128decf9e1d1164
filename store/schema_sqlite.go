package store

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS orders (
    id                 INTEGER PRIMARY KEY AUTOINCREMENT,
    uuid               TEXT NOT NULL UNIQUE,
    status             TEXT NOT NULL DEFAULT 'REQUESTED',
    user_id            INTEGER NOT NULL DEFAULT 0,
    vendor_id          INTEGER NOT NULL DEFAULT 0,
    delivery_person_id INTEGER,
    assigned_by        TEXT NOT NULL DEFAULT '',
    delivery_notes     TEXT NOT NULL DEFAULT '',
    subtotal           REAL NOT NULL DEFAULT 0,
    tax                REAL NOT NULL DEFAULT 0,
    delivery_fee       REAL NOT NULL DEFAULT 0,
    discount           REAL NOT NULL DEFAULT 0,
    total              REAL NOT NULL DEFAULT 0,
    cancel_reason      TEXT NOT NULL DEFAULT '',
    cancelled_by       TEXT NOT NULL DEFAULT '',
    vendor_rating      INTEGER NOT NULL DEFAULT 0,
    delivery_rating    INTEGER NOT NULL DEFAULT 0,
    feedback_comment   TEXT NOT NULL DEFAULT '',
    feedback_issues    TEXT NOT NULL DEFAULT '[]',
    created_at         TEXT NOT NULL DEFAULT (datetime('now','localtime')),
    updated_at         TEXT NOT NULL DEFAULT (datetime('now','localtime')),
    completed_at       TEXT
);
CREATE INDEX IF NOT EXISTS idx_orders_uuid ON orders(uuid);
CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status);
CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id);
CREATE INDEX IF NOT EXISTS idx_orders_vendor ON orders(vendor_id);

CREATE TABLE IF NOT EXISTS order_history (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    order_id    INTEGER NOT NULL REFERENCES orders(id),
    old_status  TEXT NOT NULL DEFAULT '',
    new_status  TEXT NOT NULL,
    detail      TEXT NOT NULL DEFAULT '',
    actor       TEXT NOT NULL DEFAULT '',
    created_at  TEXT NOT NULL DEFAULT (datetime('now','localtime'))
);
CREATE INDEX IF NOT EXISTS idx_history_order ON order_history(order_id);

CREATE TABLE IF NOT EXISTS audit_log (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    entity_type TEXT NOT NULL,
    entity_id   INTEGER NOT NULL,
    action      TEXT NOT NULL,
    old_value   TEXT NOT NULL DEFAULT '',
    new_value   TEXT NOT NULL DEFAULT '',
    actor       TEXT NOT NULL DEFAULT '',
    created_at  TEXT NOT NULL DEFAULT (datetime('now','localtime'))
);

CREATE TABLE IF NOT EXISTS outbox (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    topic       TEXT NOT NULL,
    payload     BLOB NOT NULL,
    msg_type    TEXT NOT NULL DEFAULT '',
    retries     INTEGER NOT NULL DEFAULT 0,
    created_at  TEXT NOT NULL DEFAULT (datetime('now','localtime')),
    sent_at     TEXT
);

CREATE TABLE IF NOT EXISTS admin_users (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    username      TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at    TEXT NOT NULL DEFAULT (datetime('now','localtime'))
);
`
