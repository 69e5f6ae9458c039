// Copyright 2025 The CityPages Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/VividCortex/mysqlerr"
	"github.com/citypages/citypages/pkg/utils/database"
	"github.com/go-logr/logr"
	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

func createDatabaseIfNotExists(ctx context.Context, opts *database.Options) (exists bool, err error) {
	log := logr.FromContextOrDiscard(ctx)

	cfg := opts.ToDriverConfig()
	dbname := cfg.DBName
	cfg.DBName = ""

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return false, err
	}

	tmpdb := sql.OpenDB(connector)
	defer tmpdb.Close()

	showdb := fmt.Sprintf("SELECT count(*) FROM INFORMATION_SCHEMA.SCHEMATA WHERE SCHEMA_NAME = '%s'", dbname)
	count := 0
	if err := tmpdb.QueryRowContext(ctx, showdb).Scan(&count); err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}

	sqlStr := fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s` DEFAULT CHARACTER SET utf8mb4 COLLATE `%s`;", dbname, opts.Collation)
	log.Info("create database", "sql", sqlStr)
	if _, err := tmpdb.Exec(sqlStr); err != nil {
		return false, err
	}
	return false, nil
}

// MigrateDatabase creates the database if missing and migrates every
// table this service owns.
func MigrateDatabase(ctx context.Context, opts *database.Options) error {
	log := logr.FromContextOrDiscard(ctx)
	log.Info("migrate database", "database", opts.Database)
	if _, err := createDatabaseIfNotExists(ctx, opts); err != nil {
		return err
	}
	db, err := database.NewDatabase(opts)
	if err != nil {
		return err
	}
	return Migrate(db.DB())
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Provider{},
		&Booking{},
		&Application{},
		&ChangeRequest{},
		&JobPost{},
		&Notification{},
		&AnalyticsEvent{},
	)
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func GetErrMessage(err error) error {
	me := &mysql.MySQLError{}
	if !errors.As(err, &me) {
		return err
	}
	return FormatMysqlError(me)
}

func FormatMysqlError(me *mysql.MySQLError) error {
	switch me.Number {
	case mysqlerr.ER_DUP_ENTRY:
		return fmt.Errorf("an object with the same name already exists (code=%v)", me.Number)
	case mysqlerr.ER_DATA_TOO_LONG:
		return fmt.Errorf("field value too long (code=%v)", me.Number)
	case mysqlerr.ER_TRUNCATED_WRONG_VALUE:
		return fmt.Errorf("invalid date format (code=%v)", me.Number)
	case mysqlerr.ER_NO_REFERENCED_ROW_2, mysqlerr.ER_ROW_IS_REFERENCED_2:
		return fmt.Errorf("related rows exist, operation refused (code=%v)", me.Number)
	default:
		return fmt.Errorf("database error (code=%v, message=%v)", me.Number, me.Message)
	}
}
