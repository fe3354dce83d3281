// Package store keeps the little state a file-backed site still needs:
// the author account and per-permalink view counts, in sqlite.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	"porch/domain"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type Store struct {
	db *sql.DB
}

// Open connects to the database and runs pending schema migrations.
// migrate.ErrNoChange just means the schema is current.
func Open(dbDriver, dataSourceName, migrationsURL string) (*Store, error) {
	// PostgreSQL support will come in the future
	if dbDriver == "" {
		dbDriver = "sqlite"
	}
	if dbDriver != "sqlite" {
		return nil, fmt.Errorf("unsupported database driver %q", dbDriver)
	}
	if dataSourceName == "" {
		dataSourceName = "./porch.db?_pragma=foreign_keys(1)"
	}

	db, err := sql.Open(dbDriver, dataSourceName)
	if err != nil {
		return nil, err
	}
	var driver database.Driver
	driver, err = sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return nil, err
	}

	m, err := migrate.NewWithDatabaseInstance(migrationsURL, dbDriver, driver)
	if err != nil {
		return nil, err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// EnsureAuthor creates the author account if it does not exist yet. The
// stored password hash is not rewritten on subsequent boots.
func (s *Store) EnsureAuthor(username, password string) (domain.User, error) {
	user := domain.User{Username: username}
	if err := user.Validate(); err != nil {
		return domain.User{}, err
	}

	row := s.db.QueryRow("SELECT id, created_at, updated_at FROM users WHERE username = $1", username)
	err := row.Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}

	user.ID = uuid.NewString()
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	_, err = s.db.Exec("INSERT INTO users (id, username, password, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)",
		user.ID, user.Username, hashed, now, now)
	if err != nil {
		return domain.User{}, fmt.Errorf("creating author account: %w", err)
	}
	return user, nil
}

// Authenticate checks the password and returns the matching user.
func (s *Store) Authenticate(username, password string) (domain.User, error) {
	row := s.db.QueryRow("SELECT id, password, created_at, updated_at FROM users WHERE username = $1", username)

	var user domain.User
	var storedPassword string
	user.Username = username
	err := row.Scan(&user.ID, &storedPassword, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(storedPassword), []byte(password)); err != nil {
		return domain.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// IncrementView bumps the view counter for a permalink.
func (s *Store) IncrementView(permalink string) error {
	_, err := s.db.Exec(`INSERT INTO page_views (permalink, views, updated_at) VALUES ($1, 1, $2)
		ON CONFLICT(permalink) DO UPDATE SET views = views + 1, updated_at = $2`,
		permalink, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("incrementing views for %s: %w", permalink, err)
	}
	return nil
}

// ViewCount reads the counter for a permalink; unknown permalinks are
// simply zero.
func (s *Store) ViewCount(permalink string) (int64, error) {
	row := s.db.QueryRow("SELECT views FROM page_views WHERE permalink = $1", permalink)
	var views int64
	err := row.Scan(&views)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return views, nil
}
