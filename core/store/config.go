package store

import (
	"path/filepath"

	"holocron/core/database"

	"github.com/adrg/xdg"
)

const (
	encyclopediaFile = "encyclopedia.db"
	collectionFile   = "collection.db"
)

// Config holds configuration for the two local stores.
type Config struct {
	// Dir is the directory holding both SQLite files.
	// Empty means $XDG_DATA_HOME/holocron.
	Dir string `mapstructure:"dir" default:""`
}

// DataDir resolves the directory that holds the store files.
func (c Config) DataDir() string {
	if c.Dir != "" {
		return c.Dir
	}
	xdg.Reload()
	return filepath.Join(xdg.DataHome, "holocron")
}

// EncyclopediaConfig returns the connection settings for the encyclopedia store.
func (c Config) EncyclopediaConfig() database.Config {
	return database.Config{Driver: database.DriverSQLite, Name: filepath.Join(c.DataDir(), encyclopediaFile)}
}

// CollectionConfig returns the connection settings for the collection store.
func (c Config) CollectionConfig() database.Config {
	return database.Config{Driver: database.DriverSQLite, Name: filepath.Join(c.DataDir(), collectionFile)}
}
