package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"couponradar-engine/internal/domain"
)

// Coupon is a persisted row: the scraped record plus its storage identity.
// Rows are written once and never updated or deleted by the engine.
type Coupon struct {
	ID int64 `json:"id"`
	domain.Coupon
}

const couponColumns = `date, title, course, image, category, provider, duration, rating, language, students_enrolled, price_discounted, price_original, views`

// InsertCouponIgnore inserts unless the (title, course, date) triple is
// already present. Relies on idx_coupons_dedup; SELECT changes() on the
// same connection reports whether the row actually landed.
func InsertCouponIgnore(ctx context.Context, db *sql.DB, c domain.Coupon) (added bool, err error) {
	_, err = db.ExecContext(ctx, `
INSERT OR IGNORE INTO coupons (`+couponColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		c.CaptureDate, c.Title, c.CourseURL, c.ImageURL, c.Category, c.Provider,
		c.Duration, c.Rating, c.Language, c.StudentsEnrolled,
		c.PriceDiscounted, c.PriceOriginal, c.Views,
	)
	if err != nil {
		return false, fmt.Errorf("insert coupon: %w", err)
	}

	var changes int
	if err := db.QueryRowContext(ctx, `SELECT changes();`).Scan(&changes); err != nil {
		return false, fmt.Errorf("insert coupon changes: %w", err)
	}
	return changes > 0, nil
}

// Ingest persists every previously-unseen coupon in the batch and reports
// how many were new. Duplicates are skipped silently; a store error aborts
// the rest of the batch (that cycle's remainder is lost, not retried).
func Ingest(ctx context.Context, db *sql.DB, coupons []domain.Coupon) (added int, err error) {
	for _, c := range coupons {
		ok, err := InsertCouponIgnore(ctx, db, c)
		if err != nil {
			return added, err
		}
		if ok {
			added++
		}
	}
	return added, nil
}

// KeyExists reports whether a record with the dedup key is already stored.
func KeyExists(ctx context.Context, db *sql.DB, title, course, date string) (bool, error) {
	var one int
	err := db.QueryRowContext(ctx, `
SELECT 1 FROM coupons WHERE title = ? AND course = ? AND date = ? LIMIT 1;`,
		title, course, date,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListByDates returns every persisted coupon whose capture date is in the
// given set, ordered by date then insertion order.
func ListByDates(ctx context.Context, db *sql.DB, dates []string) ([]Coupon, error) {
	if len(dates) == 0 {
		return nil, nil
	}

	ph := strings.TrimSuffix(strings.Repeat("?,", len(dates)), ",")
	query := fmt.Sprintf(`
SELECT id, `+couponColumns+`
FROM coupons
WHERE date IN (%s)
ORDER BY date, id;`, ph)

	args := make([]any, len(dates))
	for i, d := range dates {
		args[i] = d
	}
	return queryCoupons(ctx, db, query, args...)
}

// ListAll returns every persisted coupon, newest capture date first.
func ListAll(ctx context.Context, db *sql.DB) ([]Coupon, error) {
	return queryCoupons(ctx, db, `
SELECT id, `+couponColumns+`
FROM coupons
ORDER BY date DESC, id;`)
}

// ListToday returns coupons captured on the current date.
func ListToday(ctx context.Context, db *sql.DB) ([]Coupon, error) {
	return ListByDates(ctx, db, []string{time.Now().Format("2006-01-02")})
}

// DistinctDates returns every capture date with at least one record, for
// the dashboard's date filter.
func DistinctDates(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT DISTINCT date FROM coupons ORDER BY date;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func queryCoupons(ctx context.Context, db *sql.DB, query string, args ...any) ([]Coupon, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Coupon
	for rows.Next() {
		var c Coupon
		if err := rows.Scan(
			&c.ID, &c.CaptureDate, &c.Title, &c.CourseURL, &c.ImageURL,
			&c.Category, &c.Provider, &c.Duration, &c.Rating, &c.Language,
			&c.StudentsEnrolled, &c.PriceDiscounted, &c.PriceOriginal, &c.Views,
		); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
