package sqlite

// Schema keeps one JSON array of situations per project, the shape the
// invoicing collaborator reads.
const Schema = `
CREATE TABLE IF NOT EXISTS situation_chains (
    project_id  TEXT PRIMARY KEY,
    payload     TEXT NOT NULL,
    updated_at  TEXT NOT NULL DEFAULT (datetime('now'))
);
`
