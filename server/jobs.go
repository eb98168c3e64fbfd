package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xrendezvous/ConnectiveApp/server/gstorage"
	"github.com/xrendezvous/ConnectiveApp/server/models"
	"github.com/xrendezvous/ConnectiveApp/server/work"
	"github.com/xrendezvous/ConnectiveApp/shared"
	"github.com/xrendezvous/ConnectiveApp/utils"
)

const (
	BACKUP_SQLITE_DB = "backupSqliteDb"
	STORAGE_TIMEOUT  = 50 * time.Second
)

func registerBackupJob(
	wpa *work.WorkerPoolAdapter,
	storage *gstorage.GStorage,
	config shared.StorageConfig,
	configDir string) error {

	err := wpa.Register(BACKUP_SQLITE_DB, func(map[string]interface{}) error {
		return backupSqliteDb(context.Background(), storage, config, configDir)
	})
	if err != nil {
		return err
	}

	return wpa.PeriodicallyPerform(config.SqliteBackupSchedule, work.JobParams{
		Name:    BACKUP_SQLITE_DB,
		Handler: BACKUP_SQLITE_DB,
		Args:    map[string]interface{}{},
	})
}

// backupSqliteDb uploads the sqlite database file to google storage
func backupSqliteDb(ctx context.Context, storage *gstorage.GStorage, config shared.StorageConfig, configDir string) error {
	ctx, cancel := context.WithTimeout(ctx, STORAGE_TIMEOUT)
	defer cancel()

	dbFilePath := models.DbFilePath(configDir)
	err := storage.UploadFile(ctx, config.Bucket, config.Prefix, dbFilePath)
	if err != nil {
		return fmt.Errorf("backupSqliteDb: %v", err)
	}

	logg.Infof("%v uploaded to %v", dbFilePath, gstorage.ObjectName(config.Prefix, dbFilePath))
	return nil
}

// restoreSqliteDb downloads the last backup when there is no local database yet
func restoreSqliteDb(ctx context.Context, storage *gstorage.GStorage, config shared.StorageConfig, configDir string) error {
	ctx, cancel := context.WithTimeout(ctx, STORAGE_TIMEOUT)
	defer cancel()

	dbFilePath := models.DbFilePath(configDir)
	exists, err := utils.FileExist(dbFilePath)
	if err != nil || exists {
		return err
	}

	_, err = models.DbDirectory(configDir)
	if err != nil {
		return err
	}

	err = storage.DownloadFile(ctx, config.Bucket, gstorage.ObjectName(config.Prefix, dbFilePath), dbFilePath)
	if errors.Is(err, gstorage.ErrObjectNotExist) {
		logg.Info("No database backup found, starting with a new database")
		return nil
	}
	if err != nil {
		return fmt.Errorf("restoreSqliteDb: %v", err)
	}

	logg.Infof("Database restored from backup to %v", dbFilePath)
	return nil
}
