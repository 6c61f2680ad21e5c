package storage

const schema = `
-- The 'answers' table is an append-only log of every answer given in a session.
-- Weights are never restored from it.
CREATE TABLE IF NOT EXISTS answers (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id TEXT NOT NULL,
    item_hash TEXT NOT NULL,
    front TEXT NOT NULL,
    back TEXT NOT NULL,
    answer TEXT NOT NULL,
    correct INTEGER NOT NULL, -- 0: Incorrect, 1: Correct
    answered_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_answers_item_hash ON answers(item_hash);
CREATE INDEX IF NOT EXISTS idx_answers_session_id ON answers(session_id);
`
