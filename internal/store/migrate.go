package store

import "database/sql"

// Migrate brings the schema to v1: the coupons table, the unique dedup
// index over (title, course, date), and a date index for the dashboard's
// date-set reads. Gated on PRAGMA user_version so re-runs are no-ops.
func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}
	if v >= 1 {
		return tx.Commit()
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS coupons (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  date TEXT NOT NULL,
  title TEXT NOT NULL,
  course TEXT NOT NULL,
  image TEXT NOT NULL DEFAULT '',
  category TEXT NOT NULL DEFAULT '',
  provider TEXT NOT NULL DEFAULT '',
  duration TEXT NOT NULL DEFAULT '',
  rating TEXT NOT NULL DEFAULT '',
  language TEXT NOT NULL DEFAULT '',
  students_enrolled TEXT NOT NULL DEFAULT '',
  price_discounted TEXT NOT NULL DEFAULT '',
  price_original TEXT NOT NULL DEFAULT '',
  views TEXT NOT NULL DEFAULT ''
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE UNIQUE INDEX IF NOT EXISTS idx_coupons_dedup
ON coupons(title, course, date);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_coupons_date
ON coupons(date);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}

	return tx.Commit()
}
