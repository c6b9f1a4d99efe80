package database

import (
	"database/sql"
	"embed"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/mbolis/study-abroad/log"
)

//go:embed migrations
var schema embed.FS

// Open connects to the SQLite file at url and brings its schema up to date.
func Open(url string) (db *sql.DB, err error) {
	db, err = sql.Open("sqlite3", dsn(url))
	if err != nil {
		return nil, errors.Wrap(err, "open")
	}

	// db tuning options
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(2 * time.Hour)

	if err = upgrade(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// foreign keys are a per-connection setting, so they go in the DSN rather
// than in a one-off PRAGMA
func dsn(url string) string {
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep + "_foreign_keys=on&_busy_timeout=5000"
}

func upgrade(db *sql.DB) error {
	src, err := iofs.New(schema, "migrations")
	if err != nil {
		return errors.Wrap(err, "migrate.source")
	}

	dst, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return errors.Wrap(err, "migrate.target")
	}

	migrator, err := migrate.NewWithInstance("iofs", src, "sqlite3", dst)
	if err != nil {
		return errors.Wrap(err, "migrate.init")
	}

	err = migrator.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "migrate.up")
	}

	version, dirty, err := migrator.Version()
	if err != nil {
		return errors.Wrap(err, "migrate.version")
	}
	log.Debugf("database.schema: version %d (dirty=%t)", version, dirty)
	return nil
}
