package config

import (
	"database/sql"
	"log"
)

// EnsureSchema creates the tables the backend needs when they do not exist yet.
// Statements are idempotent so startup can run them on every boot.
func EnsureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			username VARCHAR(100) NOT NULL,
			email VARCHAR(255) NOT NULL,
			phone VARCHAR(50) NOT NULL DEFAULT '',
			password_hash VARCHAR(255) NOT NULL,
			role VARCHAR(50) NOT NULL DEFAULT 'user',
			status VARCHAR(50) NOT NULL DEFAULT 'active',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			UNIQUE KEY uniq_users_email (email),
			UNIQUE KEY uniq_users_username (username)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS vehicles (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			plate_number VARCHAR(50) NOT NULL,
			status VARCHAR(30) NOT NULL DEFAULT 'available',
			daily_rate DECIMAL(12,2) NOT NULL DEFAULT 0,
			weekly_rate DECIMAL(12,2) NOT NULL DEFAULT 0,
			monthly_rate DECIMAL(12,2) NOT NULL DEFAULT 0,
			km_limit BIGINT NOT NULL DEFAULT 0,
			extra_km_rate DECIMAL(12,2) NOT NULL DEFAULT 0,
			mileage BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			UNIQUE KEY uniq_vehicles_plate (plate_number)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS drivers (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			phone VARCHAR(50) NOT NULL DEFAULT '',
			license_number VARCHAR(100) NOT NULL DEFAULT '',
			status VARCHAR(30) NOT NULL DEFAULT 'active',
			overtime_enabled TINYINT(1) NOT NULL DEFAULT 0,
			overtime_hours_threshold DECIMAL(6,2) NOT NULL DEFAULT 0,
			overtime_rate_per_hour DECIMAL(12,2) NOT NULL DEFAULT 0,
			food_enabled TINYINT(1) NOT NULL DEFAULT 0,
			food_daily_rate DECIMAL(12,2) NOT NULL DEFAULT 0,
			outstation_enabled TINYINT(1) NOT NULL DEFAULT 0,
			outstation_daily_rate DECIMAL(12,2) NOT NULL DEFAULT 0,
			parking_enabled TINYINT(1) NOT NULL DEFAULT 0,
			parking_daily_rate DECIMAL(12,2) NOT NULL DEFAULT 0,
			total_trips BIGINT NOT NULL DEFAULT 0,
			total_km_driven BIGINT NOT NULL DEFAULT 0,
			total_earnings DECIMAL(14,2) NOT NULL DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS customers (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL,
			phone VARCHAR(50) NOT NULL DEFAULT '',
			total_bookings BIGINT NOT NULL DEFAULT 0,
			total_spent DECIMAL(14,2) NOT NULL DEFAULT 0,
			outstanding_balance DECIMAL(14,2) NOT NULL DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			UNIQUE KEY uniq_customers_email (email)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS vendors (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			phone VARCHAR(50) NOT NULL DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS bookings (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			booking_number VARCHAR(50) NOT NULL,
			vehicle_id BIGINT NOT NULL,
			driver_id BIGINT NULL,
			customer_id BIGINT NOT NULL,
			vendor_id BIGINT NULL,
			rental_type VARCHAR(20) NOT NULL DEFAULT 'own',
			driver_required TINYINT(1) NOT NULL DEFAULT 0,
			pickup_date DATETIME NOT NULL,
			return_date DATETIME NOT NULL,
			pickup_time VARCHAR(10) NOT NULL DEFAULT '',
			return_time VARCHAR(10) NOT NULL DEFAULT '',
			pickup_location VARCHAR(255) NOT NULL DEFAULT '',
			return_location VARCHAR(255) NOT NULL DEFAULT '',
			number_of_days INT NOT NULL DEFAULT 1,
			start_mileage BIGINT NULL,
			end_mileage BIGINT NULL,
			total_km BIGINT NOT NULL DEFAULT 0,
			extra_km BIGINT NOT NULL DEFAULT 0,
			daily_rate DECIMAL(12,2) NOT NULL DEFAULT 0,
			base_amount DECIMAL(12,2) NOT NULL DEFAULT 0,
			extra_km_charges DECIMAL(12,2) NOT NULL DEFAULT 0,
			driver_charges DECIMAL(12,2) NOT NULL DEFAULT 0,
			allowance_overtime DECIMAL(12,2) NOT NULL DEFAULT 0,
			allowance_food DECIMAL(12,2) NOT NULL DEFAULT 0,
			allowance_outstation DECIMAL(12,2) NOT NULL DEFAULT 0,
			allowance_parking DECIMAL(12,2) NOT NULL DEFAULT 0,
			discount DECIMAL(12,2) NOT NULL DEFAULT 0,
			tax_rate DECIMAL(6,2) NOT NULL DEFAULT 0,
			tax_amount DECIMAL(12,2) NOT NULL DEFAULT 0,
			total_amount DECIMAL(12,2) NOT NULL DEFAULT 0,
			advance_paid DECIMAL(12,2) NOT NULL DEFAULT 0,
			balance_amount DECIMAL(12,2) NOT NULL DEFAULT 0,
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			payment_status VARCHAR(20) NOT NULL DEFAULT 'pending',
			income_accrued TINYINT(1) NOT NULL DEFAULT 0,
			notes TEXT NULL,
			created_by BIGINT NULL,
			updated_by BIGINT NULL,
			cancelled_by BIGINT NULL,
			cancelled_at DATETIME NULL,
			cancellation_reason VARCHAR(500) NOT NULL DEFAULT '',
			actual_pickup_date DATETIME NULL,
			actual_return_date DATETIME NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			UNIQUE KEY uniq_bookings_number (booking_number),
			KEY idx_bookings_customer (customer_id),
			KEY idx_bookings_vehicle (vehicle_id),
			KEY idx_bookings_status (status)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS payments (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			payment_number VARCHAR(50) NOT NULL,
			booking_id BIGINT NOT NULL,
			payment_type VARCHAR(20) NOT NULL DEFAULT 'receivable',
			customer_id BIGINT NULL,
			vendor_id BIGINT NULL,
			driver_id BIGINT NULL,
			amount DECIMAL(12,2) NOT NULL DEFAULT 0,
			payment_method VARCHAR(50) NOT NULL DEFAULT '',
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			idempotency_key VARCHAR(64) NULL,
			notes VARCHAR(500) NOT NULL DEFAULT '',
			received_by BIGINT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			UNIQUE KEY uniq_payments_number (payment_number),
			UNIQUE KEY uniq_payments_idem (idempotency_key),
			KEY idx_payments_booking (booking_id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,
	}

	for _, ddl := range stmts {
		if _, err := db.Exec(ddl); err != nil {
			return err
		}
	}
	log.Println("database schema ensured")
	return nil
}
