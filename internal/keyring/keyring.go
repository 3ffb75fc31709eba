package keyring

import (
	"errors"
	"fmt"
	"sort"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/stampet/internal/constants"
)

var (
	// ErrNotFound is returned when no secret is stored under the name
	ErrNotFound = errors.New("secret not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
	// ErrUnknownSecret is returned for names outside the known sync secrets
	ErrUnknownSecret = errors.New("unknown secret name")
)

// Names of the remote sync secrets kept in the OS keyring
const (
	SecretS3Key       = "s3-secret-key"
	SecretMongoURI    = "mongo-uri"
	SecretPostgresURL = "postgres-url"
)

var knownSecrets = map[string]bool{
	SecretS3Key:       true,
	SecretMongoURI:    true,
	SecretPostgresURL: true,
}

// SecretNames lists the secret names accepted by Get, Set and Delete.
func SecretNames() []string {
	names := make([]string, 0, len(knownSecrets))
	for n := range knownSecrets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func account(name string) (string, error) {
	if !knownSecrets[name] {
		return "", fmt.Errorf("%w: %q", ErrUnknownSecret, name)
	}
	return constants.DefaultKeyringUser + ":" + name, nil
}

// Get retrieves a sync secret from the OS keyring.
// Returns ErrNotFound if nothing is stored.
func Get(name string) (string, error) {
	user, err := account(name)
	if err != nil {
		return "", err
	}
	secret, err := keyring.Get(constants.AppName, user)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return secret, nil
}

// Set stores a sync secret in the OS keyring.
func Set(name, secret string) error {
	user, err := account(name)
	if err != nil {
		return err
	}
	if secret == "" {
		return errors.New("secret cannot be empty")
	}
	if err := keyring.Set(constants.AppName, user, secret); err != nil {
		return fmt.Errorf("failed to store secret in keyring: %w", err)
	}
	return nil
}

// Delete removes a sync secret from the OS keyring.
func Delete(name string) error {
	user, err := account(name)
	if err != nil {
		return err
	}
	if err := keyring.Delete(constants.AppName, user); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete secret from keyring: %w", err)
	}
	return nil
}

// IsAvailable checks if the OS keyring is available on the current system.
// This is a best-effort check and may not catch all failure scenarios.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
