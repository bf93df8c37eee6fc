// Package keyring keeps the PostgreSQL connection string in the OS keyring so
// it never has to appear in shell history or config files.
package keyring

import (
	"errors"
	"fmt"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/dailyhabits/internal/constants"
	"github.com/julianstephens/dailyhabits/internal/storage/postgres"
)

var (
	// ErrNotFound is returned when no connection string is stored
	ErrNotFound = errors.New("connection string not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring cannot be reached
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Entry identifies one secret in the OS keyring.
type Entry struct {
	Service string
	User    string
}

// Default is the entry used by the CLI.
var Default = Entry{Service: constants.AppName, User: constants.DefaultKeyringUser}

func (e Entry) Get() (string, error) {
	connStr, err := gokeyring.Get(e.Service, e.User)
	if err != nil {
		if errors.Is(err, gokeyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return connStr, nil
}

// Set validates connStr as a PostgreSQL connection string and stores it.
// Embedded passwords are accepted here since the keyring encrypts at rest.
func (e Entry) Set(connStr string) error {
	if _, err := postgres.ValidateConnString(connStr); err != nil && !errors.Is(err, postgres.ErrEmbeddedCredentials) {
		return err
	}
	if err := gokeyring.Set(e.Service, e.User, connStr); err != nil {
		return fmt.Errorf("failed to store connection string in keyring: %w", err)
	}
	return nil
}

func (e Entry) Delete() error {
	if err := gokeyring.Delete(e.Service, e.User); err != nil {
		if errors.Is(err, gokeyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete connection string from keyring: %w", err)
	}
	return nil
}

// IsAvailable makes a best-effort read to check the keyring backend responds.
func (e Entry) IsAvailable() bool {
	_, err := gokeyring.Get(e.Service, "test-availability")
	return err == nil || errors.Is(err, gokeyring.ErrNotFound)
}

// ResolveDSN returns db unchanged unless it is the keyring sentinel, in which
// case the stored connection string is returned instead.
func (e Entry) ResolveDSN(db string) (string, error) {
	if db != constants.KeyringDBSentinel {
		return db, nil
	}
	connStr, err := e.Get()
	if err != nil {
		return "", fmt.Errorf("failed to read database connection from keyring: %w", err)
	}
	return connStr, nil
}
