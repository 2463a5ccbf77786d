// Package database handles database connections and schema inspection.
//
// It wraps GORM and configures either a local SQLite file (the default, used for
// both the encyclopedia and the collection stores) or a MySQL server, based on
// the Config it is given.
//
// # Connect
//
// Connect opens the connection, tunes the pool for the selected driver and pings
// it. SQLite handles are limited to a single connection so that concurrent
// writers queue instead of failing with "database is locked", and so that an
// in-memory database lives as long as the handle.
//
// # Schema Inspection
//
// GetTableColumns lists the columns of a table for either dialect. The integrity
// feature compares them with the columns GORM expects from the store models.
//
// # Usage
//
//	db, err := database.Connect(database.Config{Driver: "sqlite", Name: "/data/encyclopedia.db"})
//	if err != nil {
//	    return err
//	}
//	columns, err := database.GetTableColumns(db, "variants")
package database
