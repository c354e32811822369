package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/noah-isme/student-registry-api/internal/config"
)

// Connect opens the database selected by driver.
func Connect(driver, dsn string) (*gorm.DB, error) {
	switch driver {
	case config.DriverPostgres:
		return ConnectPostgres(dsn)
	case config.DriverSQLite:
		return ConnectSQLite(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}
