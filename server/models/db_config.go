package models

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	sqliteEncrypt "github.com/Daskott/gorm-sqlite-cipher"
	"github.com/xrendezvous/ConnectiveApp/server/logger"
	"github.com/xrendezvous/ConnectiveApp/shared"
	"github.com/xrendezvous/ConnectiveApp/utils"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

const DB_NAME = "connective.db"

var logg = logger.NewLogger()
var db *gorm.DB

// AutoMigrate opens the configured database, migrates the schema and inserts seed data
func AutoMigrate(config shared.DatabaseConfig, dbRootDir string) error {
	err := openDB(config, dbRootDir)
	if err != nil {
		return err
	}

	return migrate()
}

// ---------------------------------------------------------------------------------//
// Helper functions
// --------------------------------------------------------------------------------//

func openDB(config shared.DatabaseConfig, dbRootDir string) error {
	dialector, err := dialectorFor(config, dbRootDir)
	if err != nil {
		return err
	}

	db, err = gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			gormLogger.Config{
				LogLevel:                  gormLogger.Silent,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		),
	})
	if err != nil {
		return fmt.Errorf("failed to connect database: %v", err)
	}

	return nil
}

func dialectorFor(config shared.DatabaseConfig, dbRootDir string) (gorm.Dialector, error) {
	switch config.Driver {
	case shared.POSTGRES_DRIVER:
		if config.Postgres.DSN == "" {
			return nil, fmt.Errorf("database.postgres.dsn is required for the postgres driver")
		}
		return postgres.Open(config.Postgres.DSN), nil
	case shared.SQLITE_DRIVER, "":
		dsn, err := dbDSN(config.Sqlite.PassPhrase, dbRootDir)
		if err != nil {
			return nil, fmt.Errorf("failed to set sqlite DSN: %v", err)
		}
		return sqliteEncrypt.Open(dsn), nil
	}

	return nil, fmt.Errorf("unsupported database driver %q", config.Driver)
}

func migrate() error {
	err := db.AutoMigrate(
		&JobStatus{}, &Job{}, &Role{},
		&User{}, &ReminderSetting{},
		&Contact{}, &Address{},
		&Tag{}, &Note{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %v", err)
	}

	populateDBWithSeedData()

	return nil
}

func populateDBWithSeedData() {
	if err := db.First(&JobStatus{}).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		logg.Info("Inserting seed data into 'JobStatus'")
		db.Create(&[]JobStatus{
			{Name: ENQUEUED_JOB}, {Name: IN_PROGRESS_JOB}, {Name: SUCCESSFUL_JOB}, {Name: DEAD_JOB}, {Name: SCHEDULED_JOB},
		})
	}

	if err := db.First(&Role{}).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		logg.Info("Inserting seed data into 'Role'")
		db.Create(&[]Role{{Name: ADMIN_USER_ROLE}, {Name: BASIC_USER_ROLE}})
	}
}

func dbDSN(passPhrase string, dbRootDir string) (string, error) {
	dbDir, err := DbDirectory(dbRootDir)
	if err != nil {
		return "", err
	}

	dbName := fmt.Sprintf("file:%v", filepath.Join(dbDir, DB_NAME))

	return fmt.Sprintf(
		"%v?_pragma_key=%s&_pragma_cipher_page_size=4096&_journal_mode=WAL&_foreign_keys=1",
		dbName,
		passPhrase,
	), nil
}

func DbDirectory(dbRootDir string) (string, error) {
	dbDir := filepath.Join(dbRootDir, "db")

	err := utils.CreateDirIfNotExist(dbDir)
	if err != nil {
		return "", err
	}

	return dbDir, nil
}

// DbFilePath is the location of the sqlite database file under dbRootDir
func DbFilePath(dbRootDir string) string {
	return filepath.Join(dbRootDir, "db", DB_NAME)
}
