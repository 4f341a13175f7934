package database

import (
	"gorm.io/gorm"
)

// DB returns the underlying GORM DB client.
// This is for cases where direct access to GORM is needed.
func (d *Database) DB() *gorm.DB {
	return d.client.Load()
}
