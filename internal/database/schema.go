package database

import (
	"context"
	"database/sql"
	"fmt"
)

// EnsureSchema creates the marketplace tables when they do not exist yet.
// Statements are idempotent so the server can run it on every boot; schema
// changes beyond additive table creation still need a migration by hand.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS venues (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		owner_id BIGINT UNSIGNED NOT NULL,
		name VARCHAR(255) NOT NULL,
		description TEXT,
		city VARCHAR(128) NOT NULL,
		address VARCHAR(512) NOT NULL,
		capacity INT UNSIGNED NOT NULL,
		price_per_hour DECIMAL(10,2) NOT NULL DEFAULT 0,
		is_active TINYINT(1) NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_venues_owner (owner_id),
		KEY idx_venues_city_active (city, is_active)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS events (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		organizer_id BIGINT UNSIGNED NOT NULL,
		venue_id BIGINT UNSIGNED NULL,
		name VARCHAR(255) NOT NULL,
		description TEXT,
		date DATE NOT NULL,
		starts_at DATETIME NOT NULL,
		ends_at DATETIME NOT NULL,
		max_attendees INT UNSIGNED NOT NULL,
		current_attendees INT UNSIGNED NOT NULL DEFAULT 0,
		ticket_price DECIMAL(10,2) NOT NULL DEFAULT 0,
		status VARCHAR(16) NOT NULL DEFAULT 'UPCOMING',
		cancellation_reason VARCHAR(512) NULL,
		cancelled_at DATETIME NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_events_organizer (organizer_id),
		KEY idx_events_status_date (status, date),
		CONSTRAINT fk_events_venue FOREIGN KEY (venue_id) REFERENCES venues (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS payments (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		user_id BIGINT UNSIGNED NOT NULL,
		reference_type VARCHAR(16) NOT NULL,
		reference_id BIGINT UNSIGNED NOT NULL,
		amount DECIMAL(10,2) NOT NULL,
		currency CHAR(3) NOT NULL DEFAULT 'INR',
		status VARCHAR(16) NOT NULL DEFAULT 'PENDING',
		gateway_order_id VARCHAR(64) NULL,
		gateway_payment_id VARCHAR(64) NULL,
		gateway_response TEXT NULL,
		paid_at DATETIME NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_payments_user (user_id),
		KEY idx_payments_reference (reference_type, reference_id),
		KEY idx_payments_gateway_order (gateway_order_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS tickets (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		user_id BIGINT UNSIGNED NOT NULL,
		event_id BIGINT UNSIGNED NOT NULL,
		code VARCHAR(32) NOT NULL,
		qr_code MEDIUMTEXT NULL,
		quantity INT UNSIGNED NOT NULL DEFAULT 1,
		ticket_type VARCHAR(16) NOT NULL DEFAULT 'GENERAL',
		price_paid DECIMAL(10,2) NOT NULL DEFAULT 0,
		status VARCHAR(16) NOT NULL DEFAULT 'ACTIVE',
		is_used TINYINT(1) NOT NULL DEFAULT 0,
		used_at DATETIME NULL,
		payment_id BIGINT UNSIGNED NULL,
		cancellation_reason VARCHAR(512) NULL,
		cancelled_at DATETIME NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_tickets_code (code),
		KEY idx_tickets_event_status (event_id, status),
		KEY idx_tickets_user (user_id),
		CONSTRAINT fk_tickets_event FOREIGN KEY (event_id) REFERENCES events (id),
		CONSTRAINT fk_tickets_payment FOREIGN KEY (payment_id) REFERENCES payments (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS refunds (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		payment_id BIGINT UNSIGNED NOT NULL,
		reason VARCHAR(512) NOT NULL,
		requested_amount DECIMAL(10,2) NOT NULL,
		amount DECIMAL(10,2) NULL,
		status VARCHAR(16) NOT NULL DEFAULT 'PENDING',
		gateway_refund_id VARCHAR(64) NULL,
		failure_reason VARCHAR(512) NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_refunds_payment (payment_id),
		CONSTRAINT fk_refunds_payment FOREIGN KEY (payment_id) REFERENCES payments (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS bookings (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		user_id BIGINT UNSIGNED NOT NULL,
		venue_id BIGINT UNSIGNED NOT NULL,
		date DATE NOT NULL,
		starts_at DATETIME NOT NULL,
		ends_at DATETIME NOT NULL,
		status VARCHAR(16) NOT NULL DEFAULT 'PENDING',
		amount DECIMAL(10,2) NOT NULL DEFAULT 0,
		payment_id BIGINT UNSIGNED NULL,
		reason VARCHAR(512) NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_bookings_venue_window (venue_id, starts_at, ends_at),
		KEY idx_bookings_user (user_id),
		CONSTRAINT fk_bookings_venue FOREIGN KEY (venue_id) REFERENCES venues (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS notifications (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		user_id BIGINT UNSIGNED NOT NULL,
		type VARCHAR(32) NOT NULL,
		title VARCHAR(255) NOT NULL,
		message TEXT NOT NULL,
		channel VARCHAR(16) NOT NULL DEFAULT 'in_app',
		priority VARCHAR(16) NOT NULL DEFAULT 'normal',
		reference_type VARCHAR(16) NULL,
		reference_id BIGINT UNSIGNED NULL,
		is_read TINYINT(1) NOT NULL DEFAULT 0,
		read_at DATETIME NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_notifications_user_read (user_id, is_read, id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}
