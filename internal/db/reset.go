package db

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Reset empties every populated table in FK-reverse order and restarts the
// id sequences, so the next run sees fresh tables.
//
// Compatible with PostgreSQL, MySQL and SQLite.
func Reset(db *gorm.DB) error {
	models := Models()
	tables := make([]string, 0, len(models))
	for i := len(models) - 1; i >= 0; i-- {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(models[i]); err != nil {
			return fmt.Errorf("failed to resolve table: %w", err)
		}
		tables = append(tables, stmt.Schema.Table)
	}

	switch db.Dialector.Name() {
	case "postgres":
		quoted := make([]string, len(tables))
		for i, t := range tables {
			quoted[i] = db.Statement.Quote(t)
		}
		sql := fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", strings.Join(quoted, ", "))
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to truncate: %w", err)
		}

	case "mysql":
		// ALTER TABLE commits implicitly, so no surrounding transaction here
		for _, t := range tables {
			if err := db.Exec("DELETE FROM " + db.Statement.Quote(t)).Error; err != nil {
				return fmt.Errorf("failed to clear %s: %w", t, err)
			}
			if err := db.Exec("ALTER TABLE " + db.Statement.Quote(t) + " AUTO_INCREMENT = 1").Error; err != nil {
				return fmt.Errorf("failed to reset %s sequence: %w", t, err)
			}
		}

	default:
		return db.Transaction(func(tx *gorm.DB) error {
			for _, t := range tables {
				if err := tx.Exec("DELETE FROM " + tx.Statement.Quote(t)).Error; err != nil {
					return fmt.Errorf("failed to clear %s: %w", t, err)
				}
			}
			// sqlite_sequence only exists once an AUTOINCREMENT table has been written to
			if tx.Migrator().HasTable("sqlite_sequence") {
				if err := tx.Exec("DELETE FROM sqlite_sequence").Error; err != nil {
					return fmt.Errorf("failed to reset sequences: %w", err)
				}
			}
			return nil
		})
	}
	return nil
}
