package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DB is the global database connection
var DB *sqlx.DB

// Connect establishes a connection to the database. DB_TYPE selects the
// backend: "sqlite" (default) or "postgres" via DATABASE_URL.
func Connect() error {
	dbType := os.Getenv("DB_TYPE")
	if dbType == "" {
		dbType = "sqlite"
	}

	var db *sqlx.DB
	var err error

	switch dbType {
	case "postgres":
		dsn := os.Getenv("DATABASE_URL")
		if dsn == "" {
			return fmt.Errorf("DATABASE_URL is required when DB_TYPE=postgres")
		}
		db, err = sqlx.Connect("postgres", dsn)
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %v", err)
		}

	case "sqlite":
		dataDir := os.Getenv("DATA_DIR")
		if dataDir == "" {
			dataDir = "data"
		}
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %v", err)
		}
		dbPath := filepath.Join(dataDir, "vocabgym.db")
		db, err = sqlx.Connect("sqlite3", dbPath)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %v", err)
		}
		_, err = db.Exec("PRAGMA foreign_keys = ON")
		if err != nil {
			return fmt.Errorf("failed to enable foreign keys: %v", err)
		}
		// SQLite doesn't support multiple writers
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)

	default:
		return fmt.Errorf("unsupported DB_TYPE: %q", dbType)
	}

	DB = db

	return initializeSchema()
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema() error {
	err := execSchema("words", `
		CREATE TABLE IF NOT EXISTS words (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			lemma TEXT NOT NULL,
			part_of_speech TEXT DEFAULT '',
			language_code TEXT NOT NULL,
			translation TEXT DEFAULT '',
			example TEXT DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(lemma, language_code)
		)
	`)
	if err != nil {
		return err
	}

	err = execSchema("word_sets", `
		CREATE TABLE IF NOT EXISTS word_sets (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			description TEXT DEFAULT '',
			language_code TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return err
	}

	err = execSchema("word_set_items", `
		CREATE TABLE IF NOT EXISTS word_set_items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			word_set_id INTEGER NOT NULL,
			word_id INTEGER NOT NULL,
			position INTEGER DEFAULT 0,
			FOREIGN KEY (word_set_id) REFERENCES word_sets(id),
			FOREIGN KEY (word_id) REFERENCES words(id),
			UNIQUE(word_set_id, word_id)
		)
	`)
	if err != nil {
		return err
	}

	err = execSchema("user_vocabulary", `
		CREATE TABLE IF NOT EXISTS user_vocabulary (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			word_id INTEGER NOT NULL,
			consecutive_successes INTEGER DEFAULT 0,
			current_interval_hours INTEGER DEFAULT 20,
			ease_factor REAL DEFAULT 1.0,
			next_review_at TIMESTAMP,
			last_reviewed_at TIMESTAMP,
			review_count INTEGER DEFAULT 0,
			notes TEXT DEFAULT '',
			added_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (word_id) REFERENCES words(id),
			UNIQUE(user_id, word_id)
		)
	`)
	if err != nil {
		return err
	}

	err = execSchema("study_sessions", `
		CREATE TABLE IF NOT EXISTS study_sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			word_set_id INTEGER,
			source TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'ACTIVE',
			session_size INTEGER DEFAULT 0,
			total_words INTEGER DEFAULT 0,
			words_completed INTEGER DEFAULT 0,
			total_attempts INTEGER DEFAULT 0,
			correct_attempts INTEGER DEFAULT 0,
			incorrect_attempts INTEGER DEFAULT 0,
			last_shown_word_id INTEGER,
			started_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			completed_at TIMESTAMP
		)
	`)
	if err != nil {
		return err
	}

	err = execSchema("study_session_items", `
		CREATE TABLE IF NOT EXISTS study_session_items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id INTEGER NOT NULL,
			word_id INTEGER NOT NULL,
			status TEXT NOT NULL DEFAULT 'NEW',
			attempts_count INTEGER DEFAULT 0,
			correct_count INTEGER DEFAULT 0,
			incorrect_count INTEGER DEFAULT 0,
			consecutive_correct INTEGER DEFAULT 0,
			display_order INTEGER DEFAULT 0,
			last_shown_at TIMESTAMP,
			FOREIGN KEY (session_id) REFERENCES study_sessions(id),
			FOREIGN KEY (word_id) REFERENCES words(id)
		)
	`)
	if err != nil {
		return err
	}

	err = execSchema("study_session_attempts", `
		CREATE TABLE IF NOT EXISTS study_session_attempts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_item_id INTEGER NOT NULL,
			was_correct BOOLEAN NOT NULL,
			response_time_ms INTEGER,
			attempted_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (session_item_id) REFERENCES study_session_items(id)
		)
	`)
	if err != nil {
		return err
	}

	// A partial unique index keeps concurrent starts from creating two
	// ACTIVE sessions for the same user. Supported by both backends.
	err = execSchema("one active session index", `
		CREATE UNIQUE INDEX IF NOT EXISTS idx_one_active_session
		ON study_sessions(user_id) WHERE status = 'ACTIVE'
	`)
	if err != nil {
		return err
	}

	err = execSchema("vocabulary review index", `
		CREATE INDEX IF NOT EXISTS idx_user_vocabulary_review
		ON user_vocabulary(user_id, next_review_at)
	`)
	if err != nil {
		return err
	}

	return nil
}

func execSchema(name, query string) error {
	if DB.DriverName() == "postgres" {
		query = strings.ReplaceAll(query, "INTEGER PRIMARY KEY AUTOINCREMENT", "BIGSERIAL PRIMARY KEY")
	}
	if _, err := DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create %s: %v", name, err)
	}
	return nil
}
