package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"microblog/models"
)

type DB struct {
	*gorm.DB
}

// New opens the store named by a connection URL. postgres:// and
// postgresql:// URLs go to PostgreSQL; sqlite:///relative.db,
// sqlite:////absolute.db and sqlite://:memory: go to SQLite.
func New(url string) (*DB, error) {
	dialector, inMemory, err := dialectorFor(url)
	if err != nil {
		return nil, err
	}

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		// SQLite compares timestamps as text, so they must share one offset.
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if inMemory {
		// Every connection to :memory: is a separate database.
		sqlDB, err := gormDB.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	return &DB{gormDB}, nil
}

func dialectorFor(url string) (gorm.Dialector, bool, error) {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return postgres.Open(url), false, nil
	case strings.HasPrefix(url, "sqlite://"):
		path := sqlitePath(url)
		if path == "" {
			return nil, false, fmt.Errorf("database url %q has no sqlite path", url)
		}
		return sqlite.Open(path + "?_foreign_keys=on"), path == ":memory:", nil
	default:
		return nil, false, fmt.Errorf("unsupported database url %q", url)
	}
}

// sqlitePath strips the scheme and the separator slash, so sqlite:///app.db
// is app.db and sqlite:////tmp/app.db is /tmp/app.db.
func sqlitePath(url string) string {
	rest := strings.TrimPrefix(url, "sqlite://")
	return strings.TrimPrefix(rest, "/")
}

// Migrate creates or updates the users, messages and favorites tables.
func (db *DB) Migrate() error {
	if err := db.AutoMigrate(&models.User{}, &models.Message{}, &models.Favorite{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	logrus.Info("Database migration completed successfully")
	return nil
}

// Ping checks that the store is reachable.
func (db *DB) Ping(ctx context.Context) error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying connection pool.
func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
