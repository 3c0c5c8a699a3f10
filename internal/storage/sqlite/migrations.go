package sqlite

import "database/sql"

// schema sets up the database on startup.
// users and households reference each other; SQLite resolves foreign keys at
// write time, so creation order does not matter for them.
//
// Cascade rules:
//   - deleting a household unlinks its members and deletes its bills
//   - deleting a household's admin deletes the household
//   - deleting a bill's responsible user is refused
//   - deleting a bill or a user deletes the matching shares
//
// households.search_name holds the name lowercased in Go. SQLite's LIKE only
// folds ASCII, so searches match against it instead of name.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    username TEXT NOT NULL UNIQUE,
    email TEXT NOT NULL,
    nickname TEXT NOT NULL DEFAULT '',
    password_hash TEXT NOT NULL,
    household_id TEXT,
    association_status TEXT NOT NULL DEFAULT 'AWAITING_APPROVAL',
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL,
    FOREIGN KEY (household_id) REFERENCES households(id) ON DELETE SET NULL
);

CREATE TABLE IF NOT EXISTS households (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    search_name TEXT NOT NULL,
    admin_id TEXT NOT NULL UNIQUE,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (admin_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS bills (
    id TEXT PRIMARY KEY,
    household_id TEXT NOT NULL,
    name TEXT NOT NULL,
    total_cents INTEGER NOT NULL,
    due_date TEXT NOT NULL,
    type TEXT NOT NULL DEFAULT 'VARIABLE',
    responsible_id TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'UNPAID',
    created_at INTEGER NOT NULL,
    FOREIGN KEY (household_id) REFERENCES households(id) ON DELETE CASCADE,
    FOREIGN KEY (responsible_id) REFERENCES users(id) ON DELETE RESTRICT
);

CREATE TABLE IF NOT EXISTS bill_shares (
    id TEXT PRIMARY KEY,
    bill_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    amount_cents INTEGER NOT NULL,
    payment_status TEXT NOT NULL DEFAULT 'UNPAID',
    UNIQUE (bill_id, user_id),
    FOREIGN KEY (bill_id) REFERENCES bills(id) ON DELETE CASCADE,
    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_users_household_id ON users(household_id);
CREATE INDEX IF NOT EXISTS idx_bills_household_id ON bills(household_id);
CREATE INDEX IF NOT EXISTS idx_bills_responsible_id ON bills(responsible_id);
CREATE INDEX IF NOT EXISTS idx_bill_shares_bill_id ON bill_shares(bill_id);
CREATE INDEX IF NOT EXISTS idx_bill_shares_user_id ON bill_shares(user_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
