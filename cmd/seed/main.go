// Command seed creates the schema if it is missing and loads demo
// data: the service catalog, the staff roster and their links, demo
// accounts with client profiles, and a handful of appointments and
// reviews. All data rows are written inside a single transaction so a
// failure leaves the catalog either fully populated or untouched.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/danmakarov/beauty-salon-api/internal/config"
	"github.com/danmakarov/beauty-salon-api/internal/database"
	"github.com/danmakarov/beauty-salon-api/internal/utils"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		username VARCHAR(150) NOT NULL,
		email VARCHAR(254) NOT NULL DEFAULT '',
		password_hash VARCHAR(100) NOT NULL,
		is_superuser BOOL NOT NULL DEFAULT FALSE,
		is_active BOOL NOT NULL DEFAULT TRUE,
		date_joined DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_users_username (username)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS auth_tokens (
		token CHAR(64) NOT NULL,
		user_id BIGINT UNSIGNED NOT NULL,
		PRIMARY KEY (token),
		UNIQUE KEY uq_auth_tokens_user (user_id),
		CONSTRAINT fk_tokens_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS services (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		name TEXT NOT NULL,
		price DECIMAL(10,2) NOT NULL,
		duration_min INT NOT NULL,
		picture VARCHAR(255) NULL,
		PRIMARY KEY (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS masters (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		name TEXT NOT NULL,
		specialization TEXT NOT NULL,
		PRIMARY KEY (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS master_services (
		master_id BIGINT UNSIGNED NOT NULL,
		service_id BIGINT UNSIGNED NOT NULL,
		PRIMARY KEY (master_id, service_id),
		CONSTRAINT fk_ms_master FOREIGN KEY (master_id) REFERENCES masters(id) ON DELETE CASCADE,
		CONSTRAINT fk_ms_service FOREIGN KEY (service_id) REFERENCES services(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS clients (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		user_id BIGINT UNSIGNED NULL,
		name VARCHAR(100) NOT NULL,
		phone VARCHAR(20) NOT NULL DEFAULT '',
		email VARCHAR(254) NOT NULL DEFAULT '',
		service_id BIGINT UNSIGNED NULL,
		picture VARCHAR(255) NULL,
		PRIMARY KEY (id),
		KEY idx_clients_user (user_id),
		CONSTRAINT fk_clients_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
		CONSTRAINT fk_clients_service FOREIGN KEY (service_id) REFERENCES services(id) ON DELETE SET NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS appointments (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		client_id BIGINT UNSIGNED NOT NULL,
		service_id BIGINT UNSIGNED NOT NULL,
		master_id BIGINT UNSIGNED NOT NULL,
		starts_at DATETIME NOT NULL,
		PRIMARY KEY (id),
		KEY idx_appts_client (client_id),
		CONSTRAINT fk_appts_client FOREIGN KEY (client_id) REFERENCES clients(id) ON DELETE CASCADE,
		CONSTRAINT fk_appts_service FOREIGN KEY (service_id) REFERENCES services(id),
		CONSTRAINT fk_appts_master FOREIGN KEY (master_id) REFERENCES masters(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS reviews (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		client_id BIGINT UNSIGNED NOT NULL,
		service_id BIGINT UNSIGNED NOT NULL,
		rating TINYINT NOT NULL,
		comment TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		PRIMARY KEY (id),
		KEY idx_reviews_client (client_id),
		CONSTRAINT fk_reviews_client FOREIGN KEY (client_id) REFERENCES clients(id) ON DELETE CASCADE,
		CONSTRAINT fk_reviews_service FOREIGN KEY (service_id) REFERENCES services(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer func() { _ = db.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			log.Fatalf("schema: %v", err)
		}
	}

	if err := seed(ctx, db, cfg.BcryptCost); err != nil {
		log.Fatalf("seed: %v", err)
	}
	log.Println("seed complete")
}

// seed writes all demo rows in one transaction.
func seed(ctx context.Context, db *sql.DB, bcryptCost int) error {
	var existing int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM services").Scan(&existing); err != nil {
		return err
	}
	if existing > 0 {
		log.Println("data already present, nothing to do")
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	serviceIDs, err := seedServices(ctx, tx)
	if err != nil {
		return fmt.Errorf("services: %w", err)
	}
	masterIDs, err := seedMasters(ctx, tx, serviceIDs)
	if err != nil {
		return fmt.Errorf("masters: %w", err)
	}
	clientIDs, err := seedAccounts(ctx, tx, serviceIDs, bcryptCost)
	if err != nil {
		return fmt.Errorf("accounts: %w", err)
	}
	if err := seedBookings(ctx, tx, clientIDs, serviceIDs, masterIDs); err != nil {
		return fmt.Errorf("bookings: %w", err)
	}
	return tx.Commit()
}

func seedServices(ctx context.Context, tx *sql.Tx) ([]uint64, error) {
	services := []struct {
		name     string
		price    float64
		duration int
	}{
		{"Haircut", 35.00, 45},
		{"Hair coloring", 120.00, 150},
		{"Manicure", 40.00, 60},
		{"Pedicure", 55.00, 75},
		{"Facial treatment", 80.00, 60},
		{"Eyebrow shaping", 25.00, 30},
	}
	ids := make([]uint64, 0, len(services))
	for _, s := range services {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO services (name,price,duration_min) VALUES (?,?,?)",
			s.name, s.price, s.duration)
		if err != nil {
			return nil, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		ids = append(ids, uint64(id))
	}
	return ids, nil
}

func seedMasters(ctx context.Context, tx *sql.Tx, serviceIDs []uint64) ([]uint64, error) {
	masters := []struct {
		name     string
		spec     string
		services []int // indices into serviceIDs
	}{
		{"Elena Sokolova", "Hair stylist", []int{0, 1}},
		{"Marina Petrova", "Nail technician", []int{2, 3}},
		{"Olga Ivanova", "Esthetician", []int{4, 5}},
		{"Irina Volkova", "Hair stylist", []int{0}},
	}
	ids := make([]uint64, 0, len(masters))
	for _, m := range masters {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO masters (name,specialization) VALUES (?,?)", m.name, m.spec)
		if err != nil {
			return nil, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		for _, si := range m.services {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO master_services (master_id,service_id) VALUES (?,?)",
				id, serviceIDs[si]); err != nil {
				return nil, err
			}
		}
		ids = append(ids, uint64(id))
	}
	return ids, nil
}

// seedAccounts creates the admin and two customer accounts, each with
// a linked client profile, and returns the client ids.
func seedAccounts(ctx context.Context, tx *sql.Tx, serviceIDs []uint64, bcryptCost int) ([]uint64, error) {
	accounts := []struct {
		username, email, password string
		superuser                 bool
		clientName, phone         string
		serviceIdx                int
	}{
		{"admin", "admin@salon.local", "admin12345", true, "Salon Admin", "+10000000001", 0},
		{"alice", "alice@example.com", "alice12345", false, "Alice Baker", "+10000000002", 2},
		{"boris", "boris@example.com", "boris12345", false, "Boris Klein", "+10000000003", 1},
	}
	clientIDs := make([]uint64, 0, len(accounts))
	for _, a := range accounts {
		hash, err := utils.HashPassword(a.password, bcryptCost)
		if err != nil {
			return nil, err
		}
		res, err := tx.ExecContext(ctx,
			"INSERT INTO users (username,email,password_hash,is_superuser) VALUES (?,?,?,?)",
			a.username, a.email, hash, a.superuser)
		if err != nil {
			return nil, err
		}
		uid, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		res, err = tx.ExecContext(ctx,
			"INSERT INTO clients (user_id,name,phone,email,service_id) VALUES (?,?,?,?,?)",
			uid, a.clientName, a.phone, a.email, serviceIDs[a.serviceIdx])
		if err != nil {
			return nil, err
		}
		cid, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		clientIDs = append(clientIDs, uint64(cid))
	}
	return clientIDs, nil
}

func seedBookings(ctx context.Context, tx *sql.Tx, clientIDs, serviceIDs, masterIDs []uint64) error {
	base := time.Now().UTC().Truncate(time.Hour).Add(24 * time.Hour)
	appointments := []struct {
		client, service, master int
		offset                  time.Duration
	}{
		{1, 2, 1, 0},
		{1, 3, 1, 48 * time.Hour},
		{2, 1, 0, 2 * time.Hour},
		{2, 0, 3, 72 * time.Hour},
	}
	for _, a := range appointments {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO appointments (client_id,service_id,master_id,starts_at) VALUES (?,?,?,?)",
			clientIDs[a.client], serviceIDs[a.service], masterIDs[a.master], base.Add(a.offset)); err != nil {
			return err
		}
	}

	reviews := []struct {
		client, service int
		rating          int
		comment         string
	}{
		{1, 2, 5, "Great manicure, very careful work."},
		{2, 1, 4, "Color came out close to what I asked for."},
		{1, 3, 5, "Best pedicure in town."},
	}
	now := time.Now().UTC().Truncate(time.Second)
	for _, v := range reviews {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO reviews (client_id,service_id,rating,comment,created_at) VALUES (?,?,?,?,?)",
			clientIDs[v.client], serviceIDs[v.service], v.rating, v.comment, now); err != nil {
			return err
		}
	}
	return nil
}
