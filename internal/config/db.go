package config

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	intdb "swiftlink/internal/db"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// ConnectDB opens and pings the configured database. The caller owns the
// returned handle and passes it to repositories explicitly.
func ConnectDB(ctx context.Context, env Env) (*sql.DB, intdb.Dialect, error) {
	dialect, err := intdb.ParseDialect(env.DBDriver)
	if err != nil {
		return nil, "", err
	}

	db, err := sql.Open(dialect.DriverName(), env.DBDSN)
	if err != nil {
		return nil, "", fmt.Errorf("open db: %w", err)
	}

	if dialect == intdb.SQLite {
		// single writer; avoids SQLITE_BUSY between pooled connections
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(10 * time.Minute)
		db.SetConnMaxIdleTime(5 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, "", fmt.Errorf("ping db: %w", err)
	}

	log.Printf("connected to %s database", dialect)
	return db, dialect, nil
}
