package mysql

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Connect opens a pool. The DSN must carry parseTime=true so DATETIME scans into time.Time.
func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	// test ping
	ctx2, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx2); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS logs (
  id VARCHAR(36) NOT NULL PRIMARY KEY,
  raw_text LONGTEXT NOT NULL,
  created_at DATETIME(6) NOT NULL
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS incidents (
  id VARCHAR(36) NOT NULL PRIMARY KEY,
  log_id VARCHAR(36) NOT NULL,
  summary TEXT NOT NULL,
  root_cause TEXT NOT NULL,
  suggested_fix TEXT NOT NULL,
  runtime VARCHAR(16) NOT NULL,
  confidence VARCHAR(16) NOT NULL,
  created_at DATETIME(6) NOT NULL,
  KEY idx_incidents_created_at (created_at),
  CONSTRAINT fk_incidents_log FOREIGN KEY (log_id) REFERENCES logs(id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate creates the tables when missing. MySQL runs one statement per Exec.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
