package store

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS orders (
    id                 BIGSERIAL PRIMARY KEY,
    uuid               TEXT NOT NULL UNIQUE,
    status             TEXT NOT NULL DEFAULT 'REQUESTED',
    user_id            BIGINT NOT NULL DEFAULT 0,
    vendor_id          BIGINT NOT NULL DEFAULT 0,
    delivery_person_id BIGINT,
    assigned_by        TEXT NOT NULL DEFAULT '',
    delivery_notes     TEXT NOT NULL DEFAULT '',
    subtotal           DOUBLE PRECISION NOT NULL DEFAULT 0,
    tax                DOUBLE PRECISION NOT NULL DEFAULT 0,
    delivery_fee       DOUBLE PRECISION NOT NULL DEFAULT 0,
    discount           DOUBLE PRECISION NOT NULL DEFAULT 0,
    total              DOUBLE PRECISION NOT NULL DEFAULT 0,
    cancel_reason      TEXT NOT NULL DEFAULT '',
    cancelled_by       TEXT NOT NULL DEFAULT '',
    vendor_rating      INTEGER NOT NULL DEFAULT 0,
    delivery_rating    INTEGER NOT NULL DEFAULT 0,
    feedback_comment   TEXT NOT NULL DEFAULT '',
    feedback_issues    TEXT NOT NULL DEFAULT '[]',
    created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    completed_at       TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_orders_uuid ON orders(uuid);
CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status);
CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id);
CREATE INDEX IF NOT EXISTS idx_orders_vendor ON orders(vendor_id);

CREATE TABLE IF NOT EXISTS order_history (
    id          BIGSERIAL PRIMARY KEY,
    order_id    BIGINT NOT NULL REFERENCES orders(id),
    old_status  TEXT NOT NULL DEFAULT '',
    new_status  TEXT NOT NULL,
    detail      TEXT NOT NULL DEFAULT '',
    actor       TEXT NOT NULL DEFAULT '',
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_history_order ON order_history(order_id);

CREATE TABLE IF NOT EXISTS audit_log (
    id          BIGSERIAL PRIMARY KEY,
    entity_type TEXT NOT NULL,
    entity_id   BIGINT NOT NULL,
    action      TEXT NOT NULL,
    old_value   TEXT NOT NULL DEFAULT '',
    new_value   TEXT NOT NULL DEFAULT '',
    actor       TEXT NOT NULL DEFAULT '',
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS outbox (
    id          BIGSERIAL PRIMARY KEY,
    topic       TEXT NOT NULL,
    payload     BYTEA NOT NULL,
    msg_type    TEXT NOT NULL DEFAULT '',
    retries     INTEGER NOT NULL DEFAULT 0,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    sent_at     TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS admin_users (
    id            BIGSERIAL PRIMARY KEY,
    username      TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`
