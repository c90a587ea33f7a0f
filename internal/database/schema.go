package database

import (
	"context"
	"database/sql"
)

// schema lists the DDL for every table the service owns. Statements
// are idempotent so EnsureSchema can run on every startup. The
// composite index on (workspace_id, booking_date, status) backs the
// per-partition availability reads and the transactional overlap
// check.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		email         VARCHAR(255)    NOT NULL,
		name          VARCHAR(100)    NOT NULL DEFAULT '',
		password_hash VARCHAR(255)    NOT NULL,
		created_at    TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS workspaces (
		id                BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name              VARCHAR(100)    NOT NULL,
		location          VARCHAR(255)    NOT NULL DEFAULT '',
		capacity          INT UNSIGNED    NOT NULL,
		type              VARCHAR(32)     NOT NULL DEFAULT 'desk',
		amenities         VARCHAR(512)    NOT NULL DEFAULT '',
		status            ENUM('AVAILABLE','DISABLED') NOT NULL DEFAULT 'AVAILABLE',
		description       VARCHAR(512)    NOT NULL DEFAULT '',
		hourly_rate_cents INT UNSIGNED    NOT NULL DEFAULT 0,
		created_at        TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at        TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_workspaces_name (name)
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS bookings (
		id           BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		workspace_id BIGINT UNSIGNED NOT NULL,
		owner_id     BIGINT UNSIGNED NOT NULL,
		booking_date DATE            NOT NULL,
		start_time   TIME            NOT NULL,
		end_time     TIME            NOT NULL,
		status       ENUM('ACTIVE','CANCELLED') NOT NULL DEFAULT 'ACTIVE',
		purpose      VARCHAR(255)    NOT NULL DEFAULT '',
		notes        VARCHAR(512)    NOT NULL DEFAULT '',
		created_at   TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at   TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		KEY idx_bookings_partition (workspace_id, booking_date, status),
		KEY idx_bookings_owner (owner_id),
		CONSTRAINT fk_bookings_workspace FOREIGN KEY (workspace_id) REFERENCES workspaces (id),
		CONSTRAINT fk_bookings_owner FOREIGN KEY (owner_id) REFERENCES users (id),
		CONSTRAINT chk_bookings_window CHECK (start_time < end_time)
	) ENGINE=InnoDB`,
}

// EnsureSchema creates the service's tables when they do not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
