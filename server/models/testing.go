package models

import (
	"os"

	"github.com/xrendezvous/ConnectiveApp/shared"
)

// InitializeTestDb points the package at a fresh sqlite database in a
// temporary directory. It panics on failure since it's only used by tests.
func InitializeTestDb() {
	dir, err := os.MkdirTemp("", "connective-test-*")
	if err != nil {
		logg.Panic(err)
	}

	err = AutoMigrate(shared.DatabaseConfig{
		Driver: shared.SQLITE_DRIVER,
		Sqlite: shared.SqliteConfig{PassPhrase: "test-passphrase"},
	}, dir)
	if err != nil {
		logg.Panic(err)
	}
}
