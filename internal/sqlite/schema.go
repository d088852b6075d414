// Schema DDL for the SQLite backend tables.
package sqlite

// DDL for the traits and implementors tables. The implementors table keys
// into traits by name, not ID, because the generated data files identify
// traits only by their fully-qualified path.
const (
	createTraits = `CREATE TABLE traits (
    trait_id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    crate TEXT NOT NULL,
    created_at TEXT NOT NULL
);`

	createImplementors = `CREATE TABLE implementors (
    implementor_id TEXT PRIMARY KEY,
    trait_name TEXT NOT NULL,
    ordinal INTEGER NOT NULL,
    text TEXT NOT NULL,
    synthetic INTEGER NOT NULL,
    type_path TEXT NOT NULL,
    created_at TEXT NOT NULL,
    FOREIGN KEY (trait_name) REFERENCES traits(name)
);`

	createImplementorsIndex = `CREATE INDEX idx_implementors_trait
    ON implementors(trait_name, ordinal);`
)

// schemaSQL is the full schema applied on Attach.
var schemaSQL = createTraits + "\n" + createImplementors + "\n" + createImplementorsIndex
