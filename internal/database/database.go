package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log"
	"time"

	"github.com/snacksense/backend/internal/models"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaFS embed.FS

// DB interface defines the methods our database should implement
type DB interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	SaveProfile(ctx context.Context, userID string, profile *models.UserProfile) error
	SaveScan(ctx context.Context, scan *models.ScanRecord) error
	RecentScans(ctx context.Context, userID string, limit int) ([]*models.ScanRecord, error)
	Close() error
}

// SQLiteDB implements the DB interface
type SQLiteDB struct {
	db *sql.DB
}

// NewSQLiteDB creates a new SQLite database connection
func NewSQLiteDB(dbPath string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	// Enable foreign keys and WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("error enabling foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return nil, fmt.Errorf("error enabling WAL mode: %w", err)
	}

	// Initialize database schema
	if err := initializeSchema(db); err != nil {
		return nil, fmt.Errorf("error initializing schema: %w", err)
	}

	return &SQLiteDB{db: db}, nil
}

func initializeSchema(db *sql.DB) error {
	schemaBytes, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("error reading schema file: %w", err)
	}

	if _, err := db.Exec(string(schemaBytes)); err != nil {
		return fmt.Errorf("error executing schema: %w", err)
	}

	log.Println("Database schema initialized successfully")
	return nil
}

// CreateUser inserts a new account row.
func (s *SQLiteDB) CreateUser(ctx context.Context, user *models.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		user.ID, user.Email, user.PasswordHash, user.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	return err
}

// GetUserByEmail retrieves a user by email. Returns (nil, nil) when absent.
func (s *SQLiteDB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, `SELECT id, email, password_hash, created_at FROM users WHERE email = ?`, email)
}

// GetUser retrieves a user by id. Returns (nil, nil) when absent.
func (s *SQLiteDB) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.getUser(ctx, `SELECT id, email, password_hash, created_at FROM users WHERE id = ?`, id)
}

func (s *SQLiteDB) getUser(ctx context.Context, query string, arg any) (*models.User, error) {
	user := &models.User{}
	var createdAt string
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	user.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return user, nil
}

// GetProfile retrieves the onboarding profile for a user. Returns (nil, nil)
// when the user has not completed onboarding, which callers must keep
// distinct from a default profile.
func (s *SQLiteDB) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	query := `
		SELECT activity_level, health_goal, water_goal, step_goal
		FROM profiles WHERE user_id = ?
	`

	profile := &models.UserProfile{}
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&profile.ActivityLevel, &profile.HealthGoal, &profile.WaterGoal, &profile.StepGoal,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// SaveProfile upserts the profile row for a user. The write replaces the
// profile wholesale but touches nothing else belonging to the user, matching
// merge-style document set semantics.
func (s *SQLiteDB) SaveProfile(ctx context.Context, userID string, profile *models.UserProfile) error {
	query := `
		INSERT INTO profiles (user_id, activity_level, health_goal, water_goal, step_goal, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			activity_level = excluded.activity_level,
			health_goal = excluded.health_goal,
			water_goal = excluded.water_goal,
			step_goal = excluded.step_goal,
			updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		userID, profile.ActivityLevel, profile.HealthGoal,
		profile.WaterGoal, profile.StepGoal, time.Now().UTC().Format(time.RFC3339Nano),
	)
	return err
}

// SaveScan persists one completed scan for the history view.
func (s *SQLiteDB) SaveScan(ctx context.Context, scan *models.ScanRecord) error {
	if scan.CreatedAt.IsZero() {
		scan.CreatedAt = time.Now()
	}
	query := `
		INSERT INTO scans (
			id, user_id, barcode, product_name, brand,
			health_score, sustainability_score, category, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		scan.ID, scan.UserID, scan.Barcode, scan.ProductName, scan.Brand,
		scan.HealthScore, scan.SustainabilityScore, scan.Category,
		scan.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	return err
}

// RecentScans retrieves the most recent scans for a user, newest first.
func (s *SQLiteDB) RecentScans(ctx context.Context, userID string, limit int) ([]*models.ScanRecord, error) {
	query := `
		SELECT id, user_id, barcode, product_name, brand,
			health_score, sustainability_score, category, created_at
		FROM scans
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*models.ScanRecord
	for rows.Next() {
		var scan models.ScanRecord
		var createdAt string

		err := rows.Scan(
			&scan.ID, &scan.UserID, &scan.Barcode, &scan.ProductName, &scan.Brand,
			&scan.HealthScore, &scan.SustainabilityScore, &scan.Category, &createdAt,
		)
		if err != nil {
			return nil, err
		}

		// Parse time strings
		scan.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		results = append(results, &scan)
	}

	return results, rows.Err()
}

// Close closes the database connection
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}
