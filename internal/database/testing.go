package database

import (
	"fmt"

	"mercearia/internal/config"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OpenMemorySQLite opens a private, migrated in-memory SQLite database. Each
// call gets its own database; a single connection keeps transactions and
// plain reads on the same handle.
func OpenMemorySQLite() (*gorm.DB, error) {
	db, err := Open(config.Database{
		Driver:       config.DriverSQLite,
		URL:          fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}
