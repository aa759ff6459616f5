// Package credstore keeps OAuth access tokens in the local SQLite database,
// encrypted with a key derived from the user's passphrase.
package credstore

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sydlexius/discogs/internal/encryption"
)

// DefaultProfile is used when no profile name is given.
const DefaultProfile = "default"

const (
	metaSalt  = "kdf.salt"
	metaCheck = "kdf.check"

	// checkPlaintext is encrypted once at setup so a wrong passphrase is
	// detected on unlock rather than on first read.
	checkPlaintext = "discogs-credstore-v1"
)

var (
	// ErrNotFound is returned when no credentials exist for a profile.
	ErrNotFound = errors.New("credentials not found")

	// ErrWrongPassphrase is returned by Unlock when the passphrase does not
	// match the one the store was created with.
	ErrWrongPassphrase = errors.New("wrong passphrase")
)

// Credentials is one stored OAuth access grant.
type Credentials struct {
	ID          string
	Profile     string
	Username    string
	ConsumerKey string
	Token       string
	TokenSecret string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Store reads and writes encrypted credentials.
type Store struct {
	db     *sql.DB
	sealer *encryption.Sealer
}

// New creates a Store over a migrated database with an explicit sealer.
func New(db *sql.DB, sealer *encryption.Sealer) *Store {
	return &Store{db: db, sealer: sealer}
}

// Unlock derives the store key from passphrase. The first call on an empty
// database generates the salt and records a check value; later calls verify
// the passphrase against it.
func Unlock(ctx context.Context, db *sql.DB, passphrase string) (*Store, error) {
	if passphrase == "" {
		return nil, errors.New("passphrase must not be empty")
	}

	salt, err := readMeta(ctx, db, metaSalt)
	if err != nil {
		return nil, err
	}
	if salt == "" {
		return initialize(ctx, db, passphrase)
	}

	saltBytes, err := base64.StdEncoding.DecodeString(salt)
	if err != nil {
		return nil, fmt.Errorf("decoding salt: %w", err)
	}
	enc, err := encryption.NewPassphraseSealer(passphrase, saltBytes)
	if err != nil {
		return nil, err
	}

	check, err := readMeta(ctx, db, metaCheck)
	if err != nil {
		return nil, err
	}
	got, err := enc.Open(check, metaCheck)
	if errors.Is(err, encryption.ErrDecrypt) || (err == nil && got != checkPlaintext) {
		return nil, ErrWrongPassphrase
	}
	if err != nil {
		return nil, fmt.Errorf("verifying passphrase: %w", err)
	}
	return New(db, enc), nil
}

func initialize(ctx context.Context, db *sql.DB, passphrase string) (*Store, error) {
	salt, err := encryption.NewSalt()
	if err != nil {
		return nil, err
	}
	enc, err := encryption.NewPassphraseSealer(passphrase, salt)
	if err != nil {
		return nil, err
	}
	check, err := enc.Seal(checkPlaintext, metaCheck)
	if err != nil {
		return nil, fmt.Errorf("encrypting check value: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback is a no-op after commit
	for key, value := range map[string]string{
		metaSalt:  base64.StdEncoding.EncodeToString(salt),
		metaCheck: check,
	} {
		if _, err := tx.ExecContext(ctx, "INSERT INTO store_meta (key, value) VALUES (?, ?)", key, value); err != nil {
			return nil, fmt.Errorf("storing %s: %w", key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing store setup: %w", err)
	}
	return New(db, enc), nil
}

func readMeta(ctx context.Context, db *sql.DB, key string) (string, error) {
	var value string
	err := db.QueryRowContext(ctx, "SELECT value FROM store_meta WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", key, err)
	}
	return value, nil
}

// label ties a sealed column to its row, so values cannot be swapped
// between profiles or columns.
func label(profile, column string) string {
	return "credentials/" + profile + "/" + column
}

func normalizeProfile(profile string) string {
	profile = strings.TrimSpace(profile)
	if profile == "" {
		return DefaultProfile
	}
	return profile
}

// Save inserts or replaces the credentials for c.Profile and returns the
// stored row.
func (s *Store) Save(ctx context.Context, c Credentials) (Credentials, error) {
	c.Profile = normalizeProfile(c.Profile)
	if c.Token == "" || c.TokenSecret == "" {
		return Credentials{}, errors.New("token and token secret are required")
	}

	token, err := s.sealer.Seal(c.Token, label(c.Profile, "token"))
	if err != nil {
		return Credentials{}, fmt.Errorf("encrypting token for %s: %w", c.Profile, err)
	}
	secret, err := s.sealer.Seal(c.TokenSecret, label(c.Profile, "token_secret"))
	if err != nil {
		return Credentials{}, fmt.Errorf("encrypting token secret for %s: %w", c.Profile, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO credentials (id, profile, username, consumer_key, token, token_secret)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(profile) DO UPDATE SET
			username = excluded.username,
			consumer_key = excluded.consumer_key,
			token = excluded.token,
			token_secret = excluded.token_secret,
			updated_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now')`,
		uuid.New().String(), c.Profile, c.Username, c.ConsumerKey, token, secret,
	)
	if err != nil {
		return Credentials{}, fmt.Errorf("storing credentials for %s: %w", c.Profile, err)
	}
	return s.Load(ctx, c.Profile)
}

// Load returns the decrypted credentials for profile.
func (s *Store) Load(ctx context.Context, profile string) (Credentials, error) {
	profile = normalizeProfile(profile)
	row := s.db.QueryRowContext(ctx, `
		SELECT id, profile, username, consumer_key, token, token_secret, created_at, updated_at
		FROM credentials WHERE profile = ?`, profile)

	c, err := s.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Credentials{}, fmt.Errorf("%w: profile %q", ErrNotFound, profile)
	}
	if err != nil {
		return Credentials{}, fmt.Errorf("reading credentials for %s: %w", profile, err)
	}
	return c, nil
}

// List returns every stored profile ordered by name.
func (s *Store) List(ctx context.Context) ([]Credentials, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, profile, username, consumer_key, token, token_secret, created_at, updated_at
		FROM credentials ORDER BY profile`)
	if err != nil {
		return nil, fmt.Errorf("listing credentials: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var out []Credentials
	for rows.Next() {
		c, err := s.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning credentials: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Delete removes the credentials for profile.
func (s *Store) Delete(ctx context.Context, profile string) error {
	profile = normalizeProfile(profile)
	res, err := s.db.ExecContext(ctx, "DELETE FROM credentials WHERE profile = ?", profile)
	if err != nil {
		return fmt.Errorf("deleting credentials for %s: %w", profile, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting credentials for %s: %w", profile, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: profile %q", ErrNotFound, profile)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func (s *Store) scan(row scanner) (Credentials, error) {
	var (
		c                Credentials
		token, secret    string
		created, updated string
	)
	if err := row.Scan(&c.ID, &c.Profile, &c.Username, &c.ConsumerKey, &token, &secret, &created, &updated); err != nil {
		return Credentials{}, err
	}

	var err error
	if c.Token, err = s.sealer.Open(token, label(c.Profile, "token")); err != nil {
		return Credentials{}, fmt.Errorf("decrypting token: %w", err)
	}
	if c.TokenSecret, err = s.sealer.Open(secret, label(c.Profile, "token_secret")); err != nil {
		return Credentials{}, fmt.Errorf("decrypting token secret: %w", err)
	}
	c.CreatedAt, _ = time.Parse(time.RFC3339, created)
	c.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
	return c, nil
}
