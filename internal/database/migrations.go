package database

import (
	"fmt"
	"log/slog"

	"github.com/yukikurage/todo-api/internal/models"
	"gorm.io/gorm"
)

// compositeIndex describes an index that cannot be expressed with a single
// struct tag.
type compositeIndex struct {
	model   interface{}
	name    string
	columns string
}

var compositeIndexes = []compositeIndex{
	// Listing is always "WHERE owner_id = ? ORDER BY created_at DESC".
	{&models.Task{}, "idx_tasks_owner_created", "owner_id, created_at"},
	{&models.Session{}, "idx_sessions_user_expires", "user_id, expires_at"},
}

// AddIndexes creates the composite indexes that are missing.
func AddIndexes(db *gorm.DB) error {
	migrator := db.Migrator()

	for _, idx := range compositeIndexes {
		if migrator.HasIndex(idx.model, idx.name) {
			slog.Debug("index already exists, skipping", slog.String("index", idx.name))
			continue
		}

		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(idx.model); err != nil {
			return fmt.Errorf("failed to parse model for index %s: %w", idx.name, err)
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, stmt.Schema.Table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		slog.Info("created index",
			slog.String("index", idx.name),
			slog.String("table", stmt.Schema.Table),
			slog.String("columns", idx.columns),
		)
	}

	return nil
}
