package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Tysek64/DrugiTinder/internal/db"
)

// Finding is the outcome of one audit check. Violations is the number of
// offending rows; zero means the check passed.
type Finding struct {
	Check      string
	Violations int64
}

// TableCount is the row count of one populated table.
type TableCount struct {
	Table string
	Rows  int64
}

// AuditRepository checks a populated store against the generation invariants.
type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(database *gorm.DB) *AuditRepository {
	return &AuditRepository{db: database}
}

func (r *AuditRepository) quote(table string) string {
	return r.db.Statement.Quote(table)
}

func (r *AuditRepository) count(ctx context.Context, query string, args ...any) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// SelfSwipes counts swipes whose actor is also the target.
func (r *AuditRepository) SelfSwipes(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM swipe WHERE fk_swiping_user_details_id = fk_swiped_user_details_id`)
}

// NonCanonicalMatches counts matches not stored as person1 < person2.
func (r *AuditRepository) NonCanonicalMatches(ctx context.Context) (int64, error) {
	return r.count(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE fk_person1_id >= fk_person2_id`, r.quote("match")))
}

// DuplicateMatches counts unordered pairs that appear in more than one match.
func (r *AuditRepository) DuplicateMatches(ctx context.Context) (int64, error) {
	return r.count(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM (
		SELECT 1 FROM %s
		GROUP BY
			CASE WHEN fk_person1_id < fk_person2_id THEN fk_person1_id ELSE fk_person2_id END,
			CASE WHEN fk_person1_id < fk_person2_id THEN fk_person2_id ELSE fk_person1_id END
		HAVING COUNT(*) > 1
	) dup`, r.quote("match")))
}

// OneSidedMatches counts matches missing a right swipe in either direction.
func (r *AuditRepository) OneSidedMatches(ctx context.Context) (int64, error) {
	return r.count(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s m
		WHERE NOT EXISTS (
			SELECT 1 FROM swipe s
			WHERE s.fk_swiping_user_details_id = m.fk_person1_id
			  AND s.fk_swiped_user_details_id = m.fk_person2_id
			  AND s.result = ?)
		OR NOT EXISTS (
			SELECT 1 FROM swipe s
			WHERE s.fk_swiping_user_details_id = m.fk_person2_id
			  AND s.fk_swiped_user_details_id = m.fk_person1_id
			  AND s.result = ?)`, r.quote("match")), true, true)
}

// MissedMatches counts mutual right swipes that produced no match.
func (r *AuditRepository) MissedMatches(ctx context.Context) (int64, error) {
	return r.count(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM swipe a
		JOIN swipe b
		  ON b.fk_swiping_user_details_id = a.fk_swiped_user_details_id
		 AND b.fk_swiped_user_details_id = a.fk_swiping_user_details_id
		WHERE a.result = ? AND b.result = ?
		  AND a.fk_swiping_user_details_id < a.fk_swiped_user_details_id
		  AND NOT EXISTS (
			SELECT 1 FROM %s m
			WHERE m.fk_person1_id = a.fk_swiping_user_details_id
			  AND m.fk_person2_id = a.fk_swiped_user_details_id)`, r.quote("match")), true, true)
}

// SelfReports counts reports filed against the reporter.
func (r *AuditRepository) SelfReports(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM report WHERE fk_reporting_user_details_id = fk_reported_user_details_id`)
}

// SelfBlocks counts blocks whose blocker is also the blocked profile.
func (r *AuditRepository) SelfBlocks(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM block WHERE fk_blocking_user_details_id = fk_blocked_user_details_id`)
}

// Audit runs every check in a fixed order and stops at the first query error.
func (r *AuditRepository) Audit(ctx context.Context) ([]Finding, error) {
	checks := []struct {
		name string
		run  func(context.Context) (int64, error)
	}{
		{"self swipes", r.SelfSwipes},
		{"non-canonical matches", r.NonCanonicalMatches},
		{"duplicate matches", r.DuplicateMatches},
		{"one-sided matches", r.OneSidedMatches},
		{"missed matches", r.MissedMatches},
		{"self reports", r.SelfReports},
		{"self blocks", r.SelfBlocks},
	}

	out := make([]Finding, 0, len(checks))
	for _, c := range checks {
		n, err := c.run(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.name, err)
		}
		out = append(out, Finding{Check: c.name, Violations: n})
	}
	return out, nil
}

// Counts returns the row count of every schema table in insertion order.
func (r *AuditRepository) Counts(ctx context.Context) ([]TableCount, error) {
	models := db.Models()
	out := make([]TableCount, 0, len(models))
	for _, m := range models {
		stmt := &gorm.Statement{DB: r.db}
		if err := stmt.Parse(m); err != nil {
			return nil, err
		}
		var n int64
		if err := r.db.WithContext(ctx).Model(m).Count(&n).Error; err != nil {
			return nil, fmt.Errorf("count %s: %w", stmt.Table, err)
		}
		out = append(out, TableCount{Table: stmt.Table, Rows: n})
	}
	return out, nil
}
