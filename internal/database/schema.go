package database

import (
	"context"
	"database/sql"
	"time"
)

// schema contains the full DDL for the service.  Every statement is
// idempotent so Migrate can run on every startup.  The unique key
// uq_tickets_session_seat on (session_id, row_num, place_num) is the single
// correctness mechanism for seat booking: concurrent purchases of the same
// seat race to this index and the database admits exactly one.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS genres (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT,
		name VARCHAR(100) NOT NULL,
		PRIMARY KEY (id),
		UNIQUE KEY uq_genres_name (name)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS posters (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT,
		name VARCHAR(255) NOT NULL,
		path VARCHAR(512) NOT NULL,
		PRIMARY KEY (id),
		UNIQUE KEY uq_posters_path (path)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS films (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT,
		name VARCHAR(255) NOT NULL,
		description TEXT NOT NULL,
		release_year INT UNSIGNED NOT NULL,
		genre_id INT UNSIGNED NOT NULL,
		minimal_age INT UNSIGNED NOT NULL,
		duration_minutes INT UNSIGNED NOT NULL,
		poster_id INT UNSIGNED NOT NULL,
		PRIMARY KEY (id),
		KEY idx_films_genre (genre_id),
		CONSTRAINT fk_films_genre FOREIGN KEY (genre_id) REFERENCES genres (id),
		CONSTRAINT fk_films_poster FOREIGN KEY (poster_id) REFERENCES posters (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS halls (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT,
		name VARCHAR(100) NOT NULL,
		row_count INT UNSIGNED NOT NULL,
		place_count INT UNSIGNED NOT NULL,
		description TEXT NULL,
		PRIMARY KEY (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS sessions (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT,
		film_id INT UNSIGNED NOT NULL,
		hall_id INT UNSIGNED NOT NULL,
		start_time DATETIME NOT NULL,
		end_time DATETIME NOT NULL,
		price INT UNSIGNED NOT NULL,
		PRIMARY KEY (id),
		KEY idx_sessions_film (film_id),
		KEY idx_sessions_hall (hall_id),
		CONSTRAINT fk_sessions_film FOREIGN KEY (film_id) REFERENCES films (id),
		CONSTRAINT fk_sessions_hall FOREIGN KEY (hall_id) REFERENCES halls (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS users (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT,
		full_name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL,
		password_hash VARCHAR(100) NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT,
		user_id INT UNSIGNED NOT NULL,
		token_hash CHAR(64) NOT NULL,
		expires_at DATETIME NOT NULL,
		revoked_at DATETIME NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_refresh_tokens_hash (token_hash),
		KEY idx_refresh_tokens_user (user_id),
		CONSTRAINT fk_refresh_tokens_user FOREIGN KEY (user_id) REFERENCES users (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS tickets (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT,
		session_id INT UNSIGNED NOT NULL,
		row_num INT UNSIGNED NOT NULL,
		place_num INT UNSIGNED NOT NULL,
		user_id INT UNSIGNED NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_tickets_session_seat (session_id, row_num, place_num),
		KEY idx_tickets_user (user_id),
		CONSTRAINT fk_tickets_session FOREIGN KEY (session_id) REFERENCES sessions (id),
		CONSTRAINT fk_tickets_user FOREIGN KEY (user_id) REFERENCES users (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate applies the schema on startup.  Statements run one at a time
// because the MySQL driver does not accept multi-statement scripts by
// default.
func Migrate(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
